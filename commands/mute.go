package commands

import (
	"emperror.dev/errors"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/moderation"
)

func (bot *Bot) mute(ctx *bcr.Context) (err error) {
	m, err := ctx.ParseMember(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
		return
	}

	err = bot.Actions.Mute(&ctx.Author, m.User)
	if errors.Is(err, moderation.ErrAlreadyMuted) {
		_, err = ctx.Sendf("**%v** is already muted.", m.User.Tag())
		return
	}
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()

	_, err = ctx.Sendf("Muted **%v**.", m.User.Tag())
	return
}

func (bot *Bot) unmute(ctx *bcr.Context) (err error) {
	m, err := ctx.ParseMember(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
		return
	}

	err = bot.Actions.Unmute(&ctx.Author, m.User)
	if errors.Is(err, moderation.ErrNotMuted) {
		_, err = ctx.Sendf("**%v** is not muted.", m.User.Tag())
		return
	}
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()

	_, err = ctx.Sendf("Unmuted **%v**.", m.User.Tag())
	return
}
