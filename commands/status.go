package commands

import (
	"fmt"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/config"
)

func (bot *Bot) listStatus(ctx *bcr.Context) (err error) {
	statuses := bot.Config.Get().Statuses
	if len(statuses) == 0 {
		_, err = ctx.Send("The status rotation is empty.")
		return
	}

	fields := make([]discord.EmbedField, 0, len(statuses))
	for i, s := range statuses {
		fields = append(fields, discord.EmbedField{
			Name:  strconv.Itoa(i + 1),
			Value: s,
		})
	}

	_, _, err = ctx.ButtonPages(
		bcr.FieldPaginator("Statuses", "", bcr.ColourPurple, fields, 10),
		15*time.Minute)
	return
}

func (bot *Bot) addStatus(ctx *bcr.Context) (err error) {
	s := ctx.RawArgs

	if err = bot.Config.AddStatus(s); err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}

	bot.ModLog.Notice("Status Modification", fmt.Sprintf("```diff\n+ %v```", s), &ctx.Author)
	_, err = ctx.Sendf("Added `%v`.", s)
	return
}

func (bot *Bot) delStatus(ctx *bcr.Context) (err error) {
	n, cerr := strconv.Atoi(ctx.Args[0])
	if cerr != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "Invalid number - do `%vliststatus` to view.", ctx.Prefix)
		return
	}

	removed, err := bot.Config.DeleteStatus(n - 1)
	switch {
	case errors.Is(err, config.ErrLastStatus):
		_, err = ctx.Replyc(bcr.ColourRed, "Can't delete the only status in the rotation.")
		return
	case errors.Is(err, config.ErrIndexOutOfRange):
		_, err = ctx.Replyc(bcr.ColourRed, "Invalid number - do `%vliststatus` to view.", ctx.Prefix)
		return
	case err != nil:
		return bot.DB.ReportCtx(ctx, err)
	}

	bot.ModLog.Notice("Status Modification", fmt.Sprintf("```diff\n- %v```", removed), &ctx.Author)
	_, err = ctx.Sendf("Deleted `%v`.", removed)
	return
}
