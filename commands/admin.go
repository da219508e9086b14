package commands

import (
	"fmt"
	"strconv"

	"github.com/starshine-sys/bcr"
)

func (bot *Bot) reloadConfig(ctx *bcr.Context) (err error) {
	if rerr := bot.Config.Reload(); rerr != nil {
		_, err = ctx.Replyc(bcr.ColourRed, "Error reloading config, the previous config stays in effect: %v", rerr)
		return
	}

	bot.ModLog.Notice("Config reloaded", fmt.Sprintf("Reloaded from `%v`", bot.Config.Path()), &ctx.Author)
	_, err = ctx.Send("Config reloaded.")
	return
}

func (bot *Bot) autokick(ctx *bcr.Context) (err error) {
	if len(ctx.Args) > 0 {
		days, cerr := strconv.Atoi(ctx.Args[0])
		if cerr != nil || days < 0 {
			_, err = ctx.Replyc(bcr.ColourRed, "Invalid number of days.")
			return
		}

		if err = bot.Config.SetAutokick(days); err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}
	}

	days := bot.Config.Get().Autokick
	state := "off"
	if days > 0 {
		state = fmt.Sprintf("kicking accounts newer than %v days", days)
	}
	_, err = ctx.Sendf("Autokick is %v.", state)
	return
}
