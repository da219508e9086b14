package modlog

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/united-minecrafters/kaede/common"
)

// ActionEntry carries the shared context of a logged moderation action.
type ActionEntry struct {
	Staff  *discord.User
	Reason string
	// Silent withholds the terse public notice. The detailed audit entry
	// is always emitted.
	Silent bool
}

// actionEmbed is the detailed audit embed shared by all action kinds.
func actionEmbed(title string, user discord.User, e ActionEntry, color discord.Color) discord.Embed {
	return discord.Embed{
		Title:       title,
		Description: fmt.Sprintf("%v | %v", user.Tag(), user.Mention()),
		Color:       color,
		Fields: []discord.EmbedField{
			{Name: "Staff Member", Value: userField(e.Staff)},
			{Name: "Reason", Value: reasonField(e.Reason)},
		},
		Footer:    &discord.EmbedFooter{Text: "User ID: " + user.ID.String()},
		Timestamp: discord.NowTimestamp(),
	}
}

// notice emits the terse public entry to the modlog channel unless silent.
func (l *Log) noticeEmbed(title string, user discord.User, silent bool, color discord.Color) {
	if silent {
		return
	}
	l.send(l.cfg.Get().Channels.Modlog, discord.Embed{
		Title:       title,
		Description: fmt.Sprintf("%v | %v", user.Tag(), user.Mention()),
		Color:       color,
		Timestamp:   discord.NowTimestamp(),
	})
}

// Kick logs a kick action.
func (l *Log) Kick(user discord.User, e ActionEntry) {
	doc := l.cfg.Get()
	l.noticeEmbed("User kicked", user, e.Silent, doc.Colors.Kick)
	l.send(doc.Channels.Log, actionEmbed("User kicked", user, e, doc.Colors.Kick))
}

// Warn logs a warn action.
func (l *Log) Warn(user discord.User, e ActionEntry) {
	doc := l.cfg.Get()
	l.send(doc.Channels.Log, actionEmbed("User warned", user, e, doc.Colors.Warn))
}

// MuteEntry is the context of a logged mute.
type MuteEntry struct {
	Staff *discord.User
	// Manual is false for automatic mutes, in which case Rule names the
	// triggering rule and Duration the auto-unmute delay.
	Manual   bool
	Rule     string
	Duration time.Duration
}

// Mute logs a mute action.
func (l *Log) Mute(user discord.User, e MuteEntry) {
	kind := "Manual"
	if !e.Manual {
		kind = "Auto: " + e.Rule
	}
	duration := "N/A"
	if e.Duration > 0 {
		duration = e.Duration.String()
	}

	doc := l.cfg.Get()
	embed := actionEmbed("User muted", user, ActionEntry{Staff: e.Staff}, doc.Colors.Mute)
	embed.Fields = append(embed.Fields,
		discord.EmbedField{Name: "Type", Value: kind},
		discord.EmbedField{Name: "Time", Value: duration},
	)
	l.send(doc.Channels.Log, embed)
}

// Unmute logs an unmute action.
func (l *Log) Unmute(user discord.User, staff *discord.User, manual bool) {
	kind := "Manual"
	if !manual {
		kind = "Auto"
	}

	doc := l.cfg.Get()
	embed := actionEmbed("User unmuted", user, ActionEntry{Staff: staff}, doc.Colors.Mute)
	embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Type", Value: kind})
	l.send(doc.Channels.Log, embed)
}

// BanEntry is the context of a logged ban, unban, or softban.
type BanEntry struct {
	ActionEntry
	// Banned is true for bans, false for unbans. Soft overrides both.
	Banned bool
	Soft   bool
}

func (e BanEntry) title() string {
	switch {
	case e.Soft:
		return "User soft-banned"
	case e.Banned:
		return "User banned"
	default:
		return "User unbanned"
	}
}

// Ban logs a ban, unban, or softban action.
func (l *Log) Ban(user discord.User, e BanEntry) {
	doc := l.cfg.Get()
	l.noticeEmbed(e.title(), user, e.Silent, doc.Colors.Ban)
	l.send(doc.Channels.Log, actionEmbed(e.title(), user, e.ActionEntry, doc.Colors.Ban))
}

// Silenced logs a channel silence or unsilence.
func (l *Log) Silenced(ch discord.ChannelID, silenced bool, staff *discord.User, d time.Duration) {
	title, desc := "Channel silenced", fmt.Sprintf("Channel <#%v> silenced", ch)
	if !silenced {
		title, desc = "Channel unsilenced", fmt.Sprintf("Channel <#%v> unsilenced", ch)
	} else if d > 0 {
		desc += " for " + common.Trim(d.String(), 64)
	}
	l.Notice(title, desc, staff)
}

// HandleBanAdd handles the gateway's ban echo. Bot-initiated bans are
// already logged at the point of action and only consume their suppression
// entry; anything else is logged as an unattributed ban.
func (l *Log) HandleBanAdd(user discord.User) {
	if l.t.consume(ActionBan, discord.Snowflake(user.ID)) {
		return
	}
	l.Ban(user, BanEntry{Banned: true})
}

// HandleBanRemove handles the gateway's unban echo, mirroring HandleBanAdd.
func (l *Log) HandleBanRemove(user discord.User) {
	if l.t.consume(ActionUnban, discord.Snowflake(user.ID)) {
		return
	}
	l.Ban(user, BanEntry{Banned: false})
}
