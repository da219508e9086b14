package commands

import (
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
)

func (bot *Bot) modhelp(ctx *bcr.Context) (err error) {
	doc := bot.Config.Get()

	help := fmt.Sprintf(`**warn**
> %[1]vwarn @member|ID [reason]
> Warns a member. Warns show up in %[1]vwarnlog and %[1]vrecords.
_ _
**kick**
> %[1]vkick @member|ID [reason]
> Requires the Kick Members permission
> Silent version - %[1]vskick
_ _
**ban**
> %[1]vban @member|ID [reason]
> Requires the Ban Members permission
> Silent version - %[1]vsban
_ _
**softban**
> %[1]vsoftban @member|ID [reason]
> Requires the Kick Members permission
> Bans a member, deleting their messages from the last 7 days, then unbans them
> Silent
_ _
**mute** / **unmute**
> %[1]vmute @member
> Indefinitely mutes a member
_ _
**silence** / **unsilence**
> %[1]vsh [minutes]
> Silences the current channel so only staff can speak
_ _
`+"`[]`"+` signifies an *optional* parameter
`+"`|`"+` signifies one OR the other
_ _
Non-silent mod logs go to <#%v> with basic info
All mod logs go to <#%v> with detailed info`,
		ctx.Prefix, doc.Channels.Modlog, doc.Channels.Log)

	_, err = ctx.Send("", discord.Embed{
		Title:       "Moderation Commands",
		Description: help,
		Color:       bcr.ColourPurple,
	})
	return
}
