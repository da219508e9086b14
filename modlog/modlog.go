// Package modlog formats and emits moderation audit entries.
//
// It also owns the action suppression tracker: every other component marks
// bot-caused actions through Suppress/Unsuppress, and the gateway echo
// handlers here consume those marks instead of double-logging.
package modlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/united-minecrafters/kaede/common"
	"github.com/united-minecrafters/kaede/common/log"
	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/filter"
)

// Sender is the transport subset the log needs. *state.State satisfies it.
type Sender interface {
	SendMessage(ch discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error)
}

// Log emits audit embeds to the configured log channels.
type Log struct {
	cfg *config.Config
	s   Sender
	t   *tracker

	sugar *zap.SugaredLogger
}

// New creates a Log.
func New(cfg *config.Config, s Sender) *Log {
	return &Log{
		cfg:   cfg,
		s:     s,
		t:     newTracker(),
		sugar: log.Named("modlog"),
	}
}

// Suppress marks an expected gateway echo as bot-caused. Call it before
// performing the privileged action.
func (l *Log) Suppress(kind ActionKind, id discord.Snowflake) {
	l.t.add(kind, id)
}

// Unsuppress rolls back a suppression entry after the privileged action
// failed and no echo will arrive.
func (l *Log) Unsuppress(kind ActionKind, id discord.Snowflake) {
	l.t.consume(kind, id)
}

// send emits an embed to a channel, swallowing transport errors: audit
// logging is best-effort and never fails the calling pipeline.
func (l *Log) send(ch discord.ChannelID, e discord.Embed) {
	if !ch.IsValid() {
		return
	}
	if _, err := l.s.SendMessage(ch, "", e); err != nil {
		l.sugar.Errorf("Error sending log entry %q: %v", e.Title, err)
	}
}

func userField(u *discord.User) string {
	if u == nil {
		return "None"
	}
	return fmt.Sprintf("%v | %v", u.Tag(), u.Mention())
}

func reasonField(reason string) string {
	if reason == "" {
		return "None"
	}
	return common.Trim(reason, 1024)
}

// Notice emits a free-form titled entry to the detailed log channel.
func (l *Log) Notice(title, message string, author *discord.User) {
	e := discord.Embed{
		Title:       title,
		Description: message,
		Color:       l.cfg.Get().Colors.LogMessage,
		Timestamp:   discord.NowTimestamp(),
	}
	if author != nil {
		e.Author = &discord.EmbedAuthor{
			Name: fmt.Sprintf("%v | %v", author.Tag(), author.ID),
		}
	}
	l.send(l.cfg.Get().Channels.Log, e)
}

// Edit logs a message edit. The config-driven exclusions for deletions do
// not apply here except the bot-author flag.
func (l *Log) Edit(before, after discord.Message) {
	doc := l.cfg.Get()
	if doc.Logging.IgnoreBots && after.Author.Bot {
		return
	}

	l.send(doc.Channels.Log, discord.Embed{
		Title:       fmt.Sprintf("Message edited in <#%v>", after.ChannelID),
		Description: fmt.Sprintf("%v | %v", after.Author.Tag(), after.Author.ID),
		Color:       doc.Colors.Edit,
		Fields: []discord.EmbedField{
			{Name: "Before", Value: reasonField(before.Content)},
			{Name: "After", Value: reasonField(after.Content)},
		},
		Timestamp: discord.NowTimestamp(),
	})
}

// Delete logs a message deletion, unless the deletion was caused by the
// filter (suppression consumed exactly once) or excluded by config.
func (l *Log) Delete(msg discord.Message) {
	if l.t.consume(ActionFilteredMessage, discord.Snowflake(msg.ID)) {
		return
	}

	doc := l.cfg.Get()
	if doc.Logging.IgnoreBots && msg.Author.Bot {
		return
	}
	for _, prefix := range doc.Logging.IgnoreDeletePrefixes {
		if strings.HasPrefix(msg.Content, prefix) {
			return
		}
	}

	l.send(doc.Channels.Log, discord.Embed{
		Title:       fmt.Sprintf("Message deleted in <#%v>", msg.ChannelID),
		Description: fmt.Sprintf("%v | %v", msg.Author.Tag(), msg.Author.ID),
		Color:       doc.Colors.Delete,
		Fields: []discord.EmbedField{
			{Name: "Content", Value: reasonField(msg.Content)},
		},
		Footer:    &discord.EmbedFooter{Text: "Send time"},
		Timestamp: msg.Timestamp,
	})
}

// Filtered logs a message rejected by the filter and marks its upcoming
// deletion as bot-caused. It must be called before the message is deleted.
func (l *Log) Filtered(msg discord.Message, kind filter.RuleKind, rule string) {
	l.t.add(ActionFilteredMessage, discord.Snowflake(msg.ID))

	doc := l.cfg.Get()
	l.send(doc.Channels.Log, discord.Embed{
		Title:       fmt.Sprintf("Message filtered in <#%v>", msg.ChannelID),
		Description: fmt.Sprintf("%v | %v", msg.Author.Tag(), msg.Author.ID),
		Color:       doc.Colors.Filter,
		Fields: []discord.EmbedField{
			{Name: "Content", Value: reasonField(msg.Content)},
		},
		Footer:    &discord.EmbedFooter{Text: fmt.Sprintf("Rule: %v (%v)", rule, kind)},
		Timestamp: discord.NowTimestamp(),
	})
}

// Join greets a new member and logs the join.
func (l *Log) Join(user discord.User) {
	doc := l.cfg.Get()

	if doc.Channels.Greeting.IsValid() {
		greeting := fmt.Sprintf(
			"Welcome, %v!\nBe sure to head over to <#%v> and read the <#%v>. Tell us about yourself in <#%v>. <@&%v>s are here if you have any questions. Have fun!",
			user.Mention(), doc.Channels.Roles, doc.Channels.Rules, doc.Channels.Intro, doc.Roles.Operator,
		)
		if _, err := l.s.SendMessage(doc.Channels.Greeting, greeting); err != nil {
			l.sugar.Errorf("Error greeting %v: %v", user.ID, err)
		}
	}

	l.send(doc.Channels.Log, l.memberEmbed("User joined", user, doc))
}

// Leave logs a member leaving, unless the leave is the echo of a bot-caused
// kick, ban, or autokick.
func (l *Log) Leave(user discord.User) {
	id := discord.Snowflake(user.ID)
	if l.t.consume(ActionSuppressedLeave, id) ||
		l.t.consume(ActionBan, id) ||
		l.t.consume(ActionKick, id) {
		return
	}

	doc := l.cfg.Get()
	if doc.Channels.Greeting.IsValid() {
		if _, err := l.s.SendMessage(doc.Channels.Greeting,
			fmt.Sprintf("%v (%v) has left the chat.", user.Mention(), user.Username)); err != nil {
			l.sugar.Errorf("Error sending leave notice for %v: %v", user.ID, err)
		}
	}

	l.send(doc.Channels.Log, l.memberEmbed("User left", user, doc))
}

func (l *Log) memberEmbed(title string, user discord.User, doc config.Document) discord.Embed {
	kind := "User"
	if user.Bot {
		kind = "Bot"
	}

	return discord.Embed{
		Title:       strings.Replace(title, "User", kind, 1),
		Description: fmt.Sprintf("%v `%v`", user.Mention(), user.Tag()),
		Color:       doc.Colors.User,
		Fields: []discord.EmbedField{
			{Name: "ID", Value: user.ID.String()},
			{Name: "Joined Discord", Value: user.ID.Time().Format(time.RFC3339)},
		},
		Timestamp: discord.NowTimestamp(),
	}
}

// DeniedEntry logs an autokicked account. The leave echo is suppressed by
// the caller before kicking.
func (l *Log) DeniedEntry(user discord.User, minDays int, dmSent bool) {
	dm := "sent"
	if !dmSent {
		dm = "not sent"
	}
	l.Notice("User denied entry", fmt.Sprintf(
		"Member %v (%v) was denied entry because their account was newer than %v days\nDM was %v",
		user.Tag(), user.ID, minDays, dm,
	), nil)
}
