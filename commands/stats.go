package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/common"
	"github.com/united-minecrafters/kaede/common/log"
)

func (bot *Bot) stats(ctx *bcr.Context) (err error) {
	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	t := time.Now()
	_, err = ctx.Send("...")
	if err != nil {
		return err
	}
	latency := time.Since(t).Round(time.Millisecond)

	t = time.Now()
	if _, err := bot.DB.Warns(ctx.Author.ID); err != nil {
		log.Errorf("Error querying database: %v", err)
	}
	dbLatency := time.Since(t).Round(time.Microsecond)

	_, err = ctx.Send("", discord.Embed{
		Color:     bcr.ColourPurple,
		Footer:    &discord.EmbedFooter{Text: fmt.Sprintf("Version %v (%v on %v/%v)", common.Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)},
		Timestamp: discord.NowTimestamp(),
		Fields: []discord.EmbedField{
			{
				Name:   "Ping",
				Value:  fmt.Sprintf("Message: %v\nDatabase: %v", latency, dbLatency),
				Inline: true,
			},
			{
				Name:   "Memory usage",
				Value:  fmt.Sprintf("%v / %v", humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys)),
				Inline: true,
			},
			{
				Name:   "Garbage collected",
				Value:  humanize.Bytes(stats.TotalAlloc),
				Inline: true,
			},
			{
				Name:   "Goroutines",
				Value:  fmt.Sprint(runtime.NumGoroutine()),
				Inline: true,
			},
			{
				Name: "Uptime",
				Value: fmt.Sprintf(
					"%v\n(Since <t:%v:D> <t:%v:T>)",
					bcr.HumanizeDuration(bcr.DurationPrecisionSeconds, time.Since(bot.Start)),
					bot.Start.Unix(), bot.Start.Unix(),
				),
				Inline: true,
			},
		},
	})
	return err
}
