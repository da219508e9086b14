package events

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
)

// ready runs once, after the first gateway connection.
func (bot *Bot) ready() {
	count, err := bot.Actions.RebuildMutes()
	if err != nil {
		bot.sugar.Errorf("Error rebuilding active mutes: %v", err)
	} else {
		bot.sugar.Infof("Rebuilt active mute set, %v members muted", count)
	}

	s, _ := bot.Router.StateFromGuildID(0)
	bot.statusLoop(s)
}

// statusLoop cycles through the configured statuses. The list and cycle
// time are re-read from the config every tick, so a reload takes effect
// on the next rotation.
func (bot *Bot) statusLoop(s *state.State) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	i := 0
	for {
		doc := bot.Config.Get()
		if len(doc.Statuses) > 0 {
			bot.setStatus(s, doc.Statuses[i%len(doc.Statuses)])
			i++
		}

		cycle := time.Duration(doc.StatusCycle) * time.Second
		if cycle <= 0 {
			cycle = time.Minute
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(cycle):
		}
	}
}

func (bot *Bot) setStatus(s *state.State, status string) {
	err := s.Gateway().Send(context.Background(), &gateway.UpdatePresenceCommand{
		Status: discord.DoNotDisturbStatus,
		Activities: []discord.Activity{{
			Name: status,
			Type: discord.GameActivity,
		}},
	})
	if err != nil {
		bot.sugar.Errorf("Error setting status: %v", err)
	}
}
