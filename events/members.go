package events

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"

	"github.com/united-minecrafters/kaede/modlog"
)

func (bot *Bot) guildMemberAdd(m *gateway.GuildMemberAddEvent) {
	doc := bot.Config.Get()

	if doc.Autokick > 0 {
		minAge := time.Duration(doc.Autokick) * 24 * time.Hour
		if time.Since(m.User.ID.Time()) < minAge {
			bot.autokick(m.User, doc.Autokick)
			return
		}
	}

	bot.ModLog.Join(m.User)
}

// autokick denies entry to an account newer than the configured minimum
// age. The leave echo is marked before kicking so it isn't logged as a
// regular leave.
func (bot *Bot) autokick(user discord.User, minDays int) {
	s, _ := bot.Router.StateFromGuildID(0)

	dmSent := false
	if ch, err := s.CreatePrivateChannel(user.ID); err == nil {
		notice := fmt.Sprintf(
			"Hey %v!\nThank you for your interest, but unfortunately we are only allowing accounts older than %v days to join. Even so, thanks for joining! Feel free to try rejoining in the future.",
			user.Mention(), minDays,
		)
		_, err = s.SendMessage(ch.ID, notice)
		dmSent = err == nil
	}

	bot.ModLog.DeniedEntry(user, minDays, dmSent)

	bot.ModLog.Suppress(modlog.ActionSuppressedLeave, discord.Snowflake(user.ID))
	err := s.Kick(bot.Config.Get().GuildID, user.ID, "Autokick enabled, account too new")
	if err != nil {
		bot.ModLog.Unsuppress(modlog.ActionSuppressedLeave, discord.Snowflake(user.ID))
		bot.sugar.Errorf("Error autokicking %v: %v", user.ID, err)
		return
	}

	bot.Stats.IncAction()
}

func (bot *Bot) guildMemberRemove(m *gateway.GuildMemberRemoveEvent) {
	bot.ModLog.Leave(m.User)
}

func (bot *Bot) guildBanAdd(m *gateway.GuildBanAddEvent) {
	bot.ModLog.HandleBanAdd(m.User)
}

func (bot *Bot) guildBanRemove(m *gateway.GuildBanRemoveEvent) {
	bot.ModLog.HandleBanRemove(m.User)
}
