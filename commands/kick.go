package commands

import (
	"strings"

	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/moderation"
)

func (bot *Bot) kick(silent bool) func(*bcr.Context) error {
	return func(ctx *bcr.Context) (err error) {
		m, err := ctx.ParseMember(ctx.Args[0])
		if err != nil {
			_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
			return
		}

		reason := strings.TrimSpace(strings.TrimPrefix(ctx.RawArgs, ctx.Args[0]))

		err = bot.Actions.Kick(&ctx.Author, m.User, moderation.ActionOptions{
			Reason: reason,
			Silent: silent,
		})
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}
		bot.Stats.IncAction()

		if !silent {
			_, err = ctx.Sendf("`%v` kicked.", m.User.Tag())
		}
		return
	}
}
