package events

import (
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"

	"github.com/united-minecrafters/kaede/common"
	"github.com/united-minecrafters/kaede/filter"
)

func (bot *Bot) messageCreate(m *gateway.MessageCreateEvent) {
	if !m.GuildID.IsValid() {
		return
	}

	bot.messages.Set(m.ID.String(), m.Message)

	if m.Author.Bot {
		return
	}
	bot.filterMessage(m.Message, m.Member)
}

func (bot *Bot) messageUpdate(m *gateway.MessageUpdateEvent) {
	if !m.GuildID.IsValid() || m.Author.Bot {
		return
	}

	var before discord.Message
	if v, err := bot.messages.Get(m.ID.String()); err == nil {
		before = v.(discord.Message)
	}
	bot.messages.Set(m.ID.String(), m.Message)

	if before.ID.IsValid() {
		if before.Content == m.Content {
			return
		}
		bot.ModLog.Edit(before, m.Message)
	}

	// edited content goes through the filter again
	bot.filterMessage(m.Message, m.Member)
}

func (bot *Bot) messageDelete(m *gateway.MessageDeleteEvent) {
	v, err := bot.messages.Get(m.ID.String())
	if err != nil {
		return
	}
	bot.messages.Remove(m.ID.String())

	bot.ModLog.Delete(v.(discord.Message))
}

// filterMessage runs the message through the filter and, on a reject,
// marks the upcoming deletion as bot-caused, notifies the author, logs
// the entry, and deletes the message.
func (bot *Bot) filterMessage(msg discord.Message, member *discord.Member) {
	var roles []discord.RoleID
	if member != nil {
		roles = member.RoleIDs
	}

	dec := bot.Config.Rules().Evaluate(msg.Content, roles)
	if dec.Allow {
		return
	}

	bot.Stats.IncFiltered()
	bot.ModLog.Filtered(msg, dec.Kind, dec.Rule)

	kind := "word"
	if dec.Kind == filter.KindDomain {
		kind = "domain"
	}
	notice := fmt.Sprintf("Hey, %v, your message was removed because of a blacklisted %v. If you feel this was a mistake, let staff know.", msg.Author.Mention(), kind)

	s, _ := bot.Router.StateFromGuildID(msg.GuildID)

	// DM the author with the removed content; if their DMs are closed,
	// fall back to the channel without quoting
	sent := false
	if ch, err := s.CreatePrivateChannel(msg.Author.ID); err == nil {
		if _, err := s.SendMessage(ch.ID, notice); err == nil {
			sent = true
			if _, err := s.SendMessage(ch.ID, common.Quote(msg.Content)); err != nil {
				bot.sugar.Errorf("Error quoting filtered message to %v: %v", msg.Author.ID, err)
			}
		}
	}
	if !sent {
		if _, err := s.SendMessage(msg.ChannelID, notice); err != nil {
			bot.sugar.Errorf("Error sending filter notice in %v: %v", msg.ChannelID, err)
		}
	}

	if err := s.DeleteMessage(msg.ChannelID, msg.ID, "Filtered message"); err != nil {
		bot.sugar.Errorf("Error deleting filtered message %v: %v", msg.ID, err)
	}
}
