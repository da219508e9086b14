package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/common"
	"github.com/united-minecrafters/kaede/db"
)

func (bot *Bot) warn(ctx *bcr.Context) (err error) {
	m, err := ctx.ParseMember(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
		return
	}

	reason := strings.TrimSpace(strings.TrimPrefix(ctx.RawArgs, ctx.Args[0]))

	_, err = bot.Actions.Warn(&ctx.Author, m.User, reason)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()

	_, err = ctx.Sendf("**%v** warned.", m.User.Tag())
	return
}

func (bot *Bot) warnlog(ctx *bcr.Context) (err error) {
	m, err := ctx.ParseMember(ctx.Args[0])
	if err != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "User not found.")
		return
	}

	warns, err := bot.DB.Warns(m.User.ID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	if len(warns) == 0 {
		_, err = ctx.Sendf("No warnings for **%v**.", m.User.Tag())
		return
	}

	_, _, err = ctx.ButtonPages(
		bcr.FieldPaginator(
			fmt.Sprintf("%v's warns", m.User.Tag()),
			"", bcr.ColourPurple,
			recordFields(warns), 8,
		), 15*time.Minute)
	return
}

func (bot *Bot) records(ctx *bcr.Context) (err error) {
	u, err := bot.resolveTarget(ctx)
	if err != nil {
		return bot.replyTargetError(ctx, err)
	}

	recs, err := bot.DB.Records(u.ID)
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	if len(recs) == 0 {
		_, err = ctx.Sendf("No records for **%v**.", u.Tag())
		return
	}

	_, _, err = ctx.ButtonPages(
		bcr.FieldPaginator(
			fmt.Sprintf("%v's records", u.Tag()),
			"", bcr.ColourPurple,
			recordFields(recs), 8,
		), 15*time.Minute)
	return
}

func recordFields(recs []db.Record) []discord.EmbedField {
	fields := make([]discord.EmbedField, 0, len(recs))
	for _, r := range recs {
		kind := r.Kind
		if kind == "" {
			kind = db.RecordWarn
		}

		reason := r.Reason
		if reason == "" {
			reason = "None"
		}

		fields = append(fields, discord.EmbedField{
			Name: fmt.Sprintf("%v-%v", kind, r.ID),
			Value: fmt.Sprintf("%v\n- %v - %v",
				common.Trim(reason, 100),
				r.StaffID.Mention(),
				r.Timestamp.UTC().Format("Jan 02 2006 15:04:05"),
			),
		})
	}
	return fields
}
