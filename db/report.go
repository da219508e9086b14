package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/common/log"
)

// ErrorContext is the context for an error
type ErrorContext struct {
	Event   string
	Command string

	UserID  discord.UserID
	GuildID discord.GuildID
}

// Report logs an error and reports it to Sentry, if enabled.
func (db *DB) Report(ctx ErrorContext, err error) *sentry.EventID {
	where := ctx.Event
	if where == "" {
		where = ctx.Command
	}
	log.Errorf("Error in %v: %v", where, err)

	if db.hub == nil {
		return nil
	}

	hub := db.hub.Clone()

	data := map[string]interface{}{}
	if ctx.Event != "" {
		data["event"] = ctx.Event
	}
	if ctx.Command != "" {
		data["command"] = ctx.Command
	}
	if ctx.GuildID.IsValid() {
		data["guild"] = ctx.GuildID
	}

	hub.ConfigureScope(func(scope *sentry.Scope) {
		if ctx.UserID.IsValid() {
			scope.SetUser(sentry.User{ID: ctx.UserID.String()})
			data["user"] = ctx.UserID
		}
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Data:      data,
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	return hub.CaptureException(err)
}

// ReportCtx reports a command error and tells the invoker, with an error
// code they can pass on.
func (db *DB) ReportCtx(ctx *bcr.Context, e error) (err error) {
	var guildID discord.GuildID
	if ctx.Guild != nil {
		guildID = ctx.Guild.ID
	}

	id := db.Report(ErrorContext{
		Command: strings.Join(ctx.FullCommandPath, " "),
		UserID:  ctx.Author.ID,
		GuildID: guildID,
	}, e)

	code := uuid.New().String()
	if id != nil {
		code = string(*id)
	}

	_, err = ctx.Send("", discord.Embed{
		Title:       "Internal error occurred",
		Description: "An internal error has occurred. If this issue persists, please contact the bot developer with the error code below.",
		Color:       bcr.ColourRed,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Error code: %v", code),
		},
		Timestamp: discord.NowTimestamp(),
	})
	return err
}
