package modlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/filter"
)

type sentMessage struct {
	ch      discord.ChannelID
	content string
	embeds  []discord.Embed
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendMessage(ch discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error) {
	f.sent = append(f.sent, sentMessage{ch, content, embeds})
	return &discord.Message{ID: 1}, nil
}

func (f *fakeSender) to(ch discord.ChannelID) (out []sentMessage) {
	for _, m := range f.sent {
		if m.ch == ch {
			out = append(out, m)
		}
	}
	return out
}

const (
	logChannel    = discord.ChannelID(200)
	modlogChannel = discord.ChannelID(201)
)

func testLog(t *testing.T) (*Log, *fakeSender) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`channels:
  log: 200
  modlog: 201
logging:
  ignore_bots: true
  ignore_del_prefix: ["!"]
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	s := &fakeSender{}
	return New(cfg, s), s
}

func TestBanEchoSuppressedExactlyOnce(t *testing.T) {
	l, s := testLog(t)
	user := discord.User{ID: 42, Username: "target", Discriminator: "0001"}

	l.Suppress(ActionBan, discord.Snowflake(user.ID))

	l.HandleBanAdd(user)
	assert.Empty(t, s.sent, "bot-initiated ban echo must not be logged")

	// a second echo with no pending entry is unattributed
	l.HandleBanAdd(user)
	entries := s.to(logChannel)
	require.Len(t, entries, 1)
	assert.Equal(t, "User banned", entries[0].embeds[0].Title)
	assert.Equal(t, "None", entries[0].embeds[0].Fields[0].Value, "no staff member known")
	assert.Equal(t, "None", entries[0].embeds[0].Fields[1].Value, "no reason known")
}

func TestUnbanEchoUnattributed(t *testing.T) {
	l, s := testLog(t)
	user := discord.User{ID: 42, Username: "target", Discriminator: "0001"}

	l.HandleBanRemove(user)
	entries := s.to(logChannel)
	require.Len(t, entries, 1)
	assert.Equal(t, "User unbanned", entries[0].embeds[0].Title)
}

func TestFilteredDeletionNotDoubleLogged(t *testing.T) {
	l, s := testLog(t)

	msg := discord.Message{
		ID:        99,
		ChannelID: 12,
		Author:    discord.User{ID: 42, Username: "someone", Discriminator: "0001"},
		Content:   "this is spam",
	}

	l.Filtered(msg, filter.KindWord, "spam")
	require.Len(t, s.to(logChannel), 1)
	assert.Contains(t, s.to(logChannel)[0].embeds[0].Footer.Text, "spam")

	// the deletion audit sees the filter's own delete and stays quiet
	l.Delete(msg)
	assert.Len(t, s.to(logChannel), 1)

	// an unrelated deletion is logged
	other := msg
	other.ID = 100
	l.Delete(other)
	assert.Len(t, s.to(logChannel), 2)
}

func TestDeleteConfigExclusions(t *testing.T) {
	l, s := testLog(t)

	l.Delete(discord.Message{
		ID:      1,
		Author:  discord.User{ID: 2, Username: "a", Discriminator: "0001"},
		Content: "!help",
	})
	assert.Empty(t, s.sent, "ignored prefix must not be logged")

	l.Delete(discord.Message{
		ID:      2,
		Author:  discord.User{ID: 3, Username: "b", Discriminator: "0001", Bot: true},
		Content: "automated response",
	})
	assert.Empty(t, s.sent, "bot authors must not be logged")
}

func TestSilentActionSkipsPublicNotice(t *testing.T) {
	l, s := testLog(t)
	user := discord.User{ID: 42, Username: "target", Discriminator: "0001"}
	staff := discord.User{ID: 1, Username: "staff", Discriminator: "0001"}

	l.Kick(user, ActionEntry{Staff: &staff, Reason: "being rude", Silent: true})
	assert.Empty(t, s.to(modlogChannel), "silent action must not produce a public notice")
	require.Len(t, s.to(logChannel), 1, "detailed audit entry is always emitted")

	l.Kick(user, ActionEntry{Staff: &staff, Reason: "being rude"})
	assert.Len(t, s.to(modlogChannel), 1)
	assert.Len(t, s.to(logChannel), 2)
}

func TestReasonTruncated(t *testing.T) {
	l, s := testLog(t)
	user := discord.User{ID: 42, Username: "target", Discriminator: "0001"}

	l.Warn(user, ActionEntry{Reason: strings.Repeat("a", 3000)})

	entries := s.to(logChannel)
	require.Len(t, entries, 1)
	reason := entries[0].embeds[0].Fields[1].Value
	assert.LessOrEqual(t, len(reason), 1024)
	assert.True(t, strings.HasSuffix(reason, "..."))
}

func TestLeaveSuppression(t *testing.T) {
	l, s := testLog(t)
	user := discord.User{ID: 42, Username: "target", Discriminator: "0001"}

	l.Suppress(ActionKick, discord.Snowflake(user.ID))
	l.Leave(user)
	assert.Empty(t, s.sent, "leave caused by a bot kick must not be logged")

	l.Leave(user)
	require.Len(t, s.to(logChannel), 1)
	assert.Equal(t, "User left", s.to(logChannel)[0].embeds[0].Title)
}
