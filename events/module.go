// Package events wires gateway events into the filter and audit pipeline.
package events

import (
	"sync"
	"time"

	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/united-minecrafters/kaede/bot"
	"github.com/united-minecrafters/kaede/common/log"
)

type Bot struct {
	*bot.Bot

	// messages caches recent message content so deletions and edits can
	// be logged with what was actually said.
	messages *ttlcache.Cache

	sugar *zap.SugaredLogger
}

// Init registers all gateway event handlers.
func Init(b *bot.Bot) *Bot {
	bot := &Bot{
		Bot:      b,
		messages: ttlcache.NewCache(),
		sugar:    log.Named("events"),
	}
	bot.messages.SetTTL(30 * time.Minute)
	bot.messages.SetCacheSizeLimit(10000)

	bot.Router.AddHandler(bot.Stats.EventHandler)

	bot.Router.AddHandler(bot.messageCreate)
	bot.Router.AddHandler(bot.messageUpdate)
	bot.Router.AddHandler(bot.messageDelete)

	bot.Router.AddHandler(bot.guildMemberAdd)
	bot.Router.AddHandler(bot.guildMemberRemove)

	bot.Router.AddHandler(bot.guildBanAdd)
	bot.Router.AddHandler(bot.guildBanRemove)

	var o sync.Once
	bot.Router.AddHandler(func(*gateway.ReadyEvent) {
		o.Do(func() { go bot.ready() })
	})

	return bot
}
