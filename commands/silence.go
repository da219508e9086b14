package commands

import (
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/moderation"
)

func (bot *Bot) silence(ctx *bcr.Context) (err error) {
	minutes := 10
	if len(ctx.Args) > 0 {
		minutes, err = strconv.Atoi(ctx.Args[0])
		if err != nil || minutes <= 0 {
			minutes = 10
		}
	}

	err = bot.Actions.Silence(&ctx.Author, ctx.Channel.ID, time.Duration(minutes)*time.Minute)
	switch {
	case errors.Is(err, moderation.ErrAlreadySilenced):
		_, err = ctx.Send("This channel is already silenced.")
		return
	case errors.Is(err, moderation.ErrRestrictedCategory):
		_, err = ctx.Send("This channel is in a restricted category and can't be silenced.")
		return
	case err != nil:
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()

	_, err = ctx.Sendf("Channel silenced for %vm.", minutes)
	return
}

func (bot *Bot) unsilence(ctx *bcr.Context) (err error) {
	err = bot.Actions.Unsilence(&ctx.Author, ctx.Channel.ID)
	if errors.Is(err, moderation.ErrNotSilenced) {
		_, err = ctx.Send("This channel is not in the overwrite restore table. It will have to be unsilenced manually.")
		return
	}
	if err != nil {
		return bot.DB.ReportCtx(ctx, err)
	}
	bot.Stats.IncAction()

	_, err = ctx.Send("Channel unsilenced.")
	return
}
