package commands

import (
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/moderation"
)

// resolveTarget resolves the first argument to a user: a mention or name
// through the state, a bare ID through the action layer's user cache.
func (bot *Bot) resolveTarget(ctx *bcr.Context) (*discord.User, error) {
	u, err := ctx.ParseUser(ctx.Args[0])
	if err == nil {
		return u, nil
	}

	sf, err := discord.ParseSnowflake(ctx.Args[0])
	if err != nil {
		return nil, moderation.ErrNotFound
	}
	return bot.Actions.ResolveUser(discord.UserID(sf))
}

func (bot *Bot) replyTargetError(ctx *bcr.Context, err error) error {
	if errors.Is(err, moderation.ErrNotFound) {
		_, err = ctx.Replyc(bcr.ColourRed, "That ID wasn't found.")
		return err
	}
	return bot.DB.ReportCtx(ctx, err)
}

func (bot *Bot) ban(opts moderation.ActionOptions) func(*bcr.Context) error {
	return func(ctx *bcr.Context) (err error) {
		u, err := bot.resolveTarget(ctx)
		if err != nil {
			return bot.replyTargetError(ctx, err)
		}

		o := opts
		o.Reason = strings.TrimSpace(strings.TrimPrefix(ctx.RawArgs, ctx.Args[0]))

		err = bot.Actions.Ban(&ctx.Author, *u, o)
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}
		bot.Stats.IncAction()

		if !o.Silent {
			_, err = ctx.Sendf("`%v` banned.", u.Tag())
		}
		return
	}
}

func (bot *Bot) softban(ctx *bcr.Context) (err error) {
	m, err := ctx.ParseMember(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
		return
	}

	reason := strings.TrimSpace(strings.TrimPrefix(ctx.RawArgs, ctx.Args[0]))

	err = bot.Actions.Softban(&ctx.Author, m.User, reason)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()
	return
}
