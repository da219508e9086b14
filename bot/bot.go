// Package bot holds the pieces shared by the command and event modules.
package bot

import (
	"context"
	"time"

	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/db/stats"
	"github.com/united-minecrafters/kaede/modlog"
	"github.com/united-minecrafters/kaede/moderation"
)

type Bot struct {
	Router *bcr.Router

	Config  *config.Config
	DB      *db.DB
	ModLog  *modlog.Log
	Actions *moderation.Actions

	// Stats may be nil, in which case no statistics are submitted.
	Stats *stats.Client

	Start time.Time
}

// New creates a Bot.
func New(r *bcr.Router, cfg *config.Config, database *db.DB, ml *modlog.Log, actions *moderation.Actions, st *stats.Client) *Bot {
	return &Bot{
		Router:  r,
		Config:  cfg,
		DB:      database,
		ModLog:  ml,
		Actions: actions,
		Stats:   st,
		Start:   time.Now().UTC(),
	}
}

func (bot *Bot) Open(ctx context.Context) error {
	return bot.Router.ShardManager.Open(ctx)
}

func (bot *Bot) Close() error {
	return bot.Router.ShardManager.Close()
}
