package moderation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/modlog"
)

const (
	testGuild     = discord.GuildID(100)
	staffRole     = discord.RoleID(10)
	mutedRole     = discord.RoleID(11)
	logChannel    = discord.ChannelID(200)
	modlogChannel = discord.ChannelID(201)
	dmChannel     = discord.ChannelID(999)
	selfID        = discord.UserID(5)
)

type sentMessage struct {
	ch      discord.ChannelID
	content string
	embeds  []discord.Embed
}

type banCall struct {
	user discord.UserID
	data api.BanData
}

type roleCall struct {
	user discord.UserID
	role discord.RoleID
}

type permEdit struct {
	ch        discord.ChannelID
	overwrite discord.Snowflake
	data      api.EditChannelPermissionData
}

type fakeTransport struct {
	sent    []sentMessage
	kicks   []discord.UserID
	bans    []banCall
	unbans  []discord.UserID
	added   []roleCall
	removed []roleCall

	channels  map[discord.ChannelID]*discord.Channel
	permEdits []permEdit
	members   []discord.Member

	userCalls int

	userErr error
	banErr  error
	kickErr error
}

func (f *fakeTransport) User(id discord.UserID) (*discord.User, error) {
	f.userCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	return &discord.User{ID: id, Username: "user", Discriminator: "0001"}, nil
}

func (f *fakeTransport) Member(_ discord.GuildID, id discord.UserID) (*discord.Member, error) {
	return &discord.Member{User: discord.User{ID: id}}, nil
}

func (f *fakeTransport) Members(discord.GuildID, uint) ([]discord.Member, error) {
	return f.members, nil
}

func (f *fakeTransport) Kick(_ discord.GuildID, id discord.UserID, _ api.AuditLogReason) error {
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicks = append(f.kicks, id)
	return nil
}

func (f *fakeTransport) Ban(_ discord.GuildID, id discord.UserID, data api.BanData) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.bans = append(f.bans, banCall{id, data})
	return nil
}

func (f *fakeTransport) Unban(_ discord.GuildID, id discord.UserID, _ api.AuditLogReason) error {
	f.unbans = append(f.unbans, id)
	return nil
}

func (f *fakeTransport) AddRole(_ discord.GuildID, user discord.UserID, role discord.RoleID, _ api.AddRoleData) error {
	f.added = append(f.added, roleCall{user, role})
	return nil
}

func (f *fakeTransport) RemoveRole(_ discord.GuildID, user discord.UserID, role discord.RoleID, _ api.AuditLogReason) error {
	f.removed = append(f.removed, roleCall{user, role})
	return nil
}

func (f *fakeTransport) Channel(id discord.ChannelID) (*discord.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, errNoChannel
	}
	return ch, nil
}

func (f *fakeTransport) EditChannelPermission(ch discord.ChannelID, ow discord.Snowflake, data api.EditChannelPermissionData) error {
	f.permEdits = append(f.permEdits, permEdit{ch, ow, data})
	return nil
}

func (f *fakeTransport) CreatePrivateChannel(discord.UserID) (*discord.Channel, error) {
	return &discord.Channel{ID: dmChannel}, nil
}

func (f *fakeTransport) SendMessage(ch discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error) {
	f.sent = append(f.sent, sentMessage{ch, content, embeds})
	return &discord.Message{ID: 1}, nil
}

func (f *fakeTransport) to(ch discord.ChannelID) (out []sentMessage) {
	for _, m := range f.sent {
		if m.ch == ch {
			out = append(out, m)
		}
	}
	return out
}

var errNoChannel = assert.AnError

type fakeStore struct {
	warns, bans []db.Record
	nextID      int64
}

func (f *fakeStore) insert(recs *[]db.Record, rec db.Record) (int64, error) {
	f.nextID++
	rec.ID = f.nextID
	rec.Timestamp = time.Now().UTC()
	*recs = append(*recs, rec)
	return rec.ID, nil
}

func (f *fakeStore) InsertWarn(rec db.Record) (int64, error) { return f.insert(&f.warns, rec) }
func (f *fakeStore) InsertBan(rec db.Record) (int64, error)  { return f.insert(&f.bans, rec) }

func (f *fakeStore) Warns(id discord.UserID) ([]db.Record, error) { return f.warns, nil }
func (f *fakeStore) Bans(id discord.UserID) ([]db.Record, error)  { return f.bans, nil }
func (f *fakeStore) Records(id discord.UserID) ([]db.Record, error) {
	return append(append([]db.Record{}, f.warns...), f.bans...), nil
}

func testActions(t *testing.T) (*Actions, *modlog.Log, *fakeTransport, *fakeStore) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`guild_id: 100
roles:
  staff: 10
  muted: 11
channels:
  log: 200
  modlog: 201
restricted_categories: [300]
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	f := &fakeTransport{channels: map[discord.ChannelID]*discord.Channel{}}
	ml := modlog.New(cfg, f)
	store := &fakeStore{}

	return New(cfg, f, ml, store, selfID), ml, f, store
}

var (
	staff  = discord.User{ID: 1, Username: "staff", Discriminator: "0001"}
	target = discord.User{ID: 42, Username: "target", Discriminator: "0001"}
)

func TestSoftban(t *testing.T) {
	a, ml, f, _ := testActions(t)

	require.NoError(t, a.Softban(&staff, target, "spamming invites"))

	require.Len(t, f.bans, 1, "exactly one ban issued")
	require.NotNil(t, f.bans[0].data.DeleteDays)
	assert.Equal(t, uint(7), uint(*f.bans[0].data.DeleteDays))
	assert.Equal(t, []discord.UserID{target.ID}, f.unbans)

	entries := f.to(logChannel)
	require.Len(t, entries, 1, "a softban is logged as a single action")
	assert.Equal(t, "User soft-banned", entries[0].embeds[0].Title)
	assert.Empty(t, f.to(modlogChannel), "softbans are silent")

	// the gateway echoes the ban, the unban, and the member leaving; all
	// three were marked up front and none may produce another entry
	ml.HandleBanAdd(target)
	ml.HandleBanRemove(target)
	ml.Leave(target)
	assert.Len(t, f.to(logChannel), 1)

	assert.Len(t, f.to(dmChannel), 1, "target is notified by DM")
}

func TestBanRecordsWhenFlagged(t *testing.T) {
	a, ml, f, store := testActions(t)

	require.NoError(t, a.Ban(&staff, target, ActionOptions{Reason: "alt account", RecordPunishment: true}))
	require.Len(t, store.bans, 1)
	assert.Equal(t, target.ID, store.bans[0].UserID)
	assert.Equal(t, staff.ID, store.bans[0].StaffID)
	assert.Equal(t, "alt account", store.bans[0].Reason)

	other := discord.User{ID: 43, Username: "other", Discriminator: "0001"}
	require.NoError(t, a.Ban(&staff, other, ActionOptions{Silent: true}))
	assert.Len(t, store.bans, 1, "silent ban without the flag is not recorded")

	// echoes are consumed for both
	ml.HandleBanAdd(target)
	ml.HandleBanAdd(other)
	assert.Len(t, f.to(logChannel), 2, "only the two action entries themselves")
}

func TestBanFailureRollsBackSuppression(t *testing.T) {
	a, ml, f, store := testActions(t)
	f.banErr = assert.AnError

	require.Error(t, a.Ban(&staff, target, ActionOptions{RecordPunishment: true}))
	assert.Empty(t, store.bans, "failed ban is not recorded")
	assert.Empty(t, f.sent, "failed ban is not logged")

	// a later manual ban of the same user must not be swallowed by a
	// stale suppression entry
	ml.HandleBanAdd(target)
	entries := f.to(logChannel)
	require.Len(t, entries, 1)
	assert.Equal(t, "User banned", entries[0].embeds[0].Title)

	ml.Leave(target)
	assert.Len(t, f.to(logChannel), 2, "leave suppression rolled back too")
}

func TestMuteIdempotent(t *testing.T) {
	a, _, f, store := testActions(t)

	require.NoError(t, a.Mute(&staff, target))
	require.Len(t, f.added, 1)
	assert.Equal(t, roleCall{target.ID, mutedRole}, f.added[0])
	require.Len(t, store.warns, 1)
	assert.Equal(t, "Mute", store.warns[0].Reason)

	err := a.Mute(&staff, target)
	assert.ErrorIs(t, err, ErrAlreadyMuted)
	assert.Len(t, f.added, 1, "no second role add")
	assert.Len(t, store.warns, 1, "no duplicate record")

	require.NoError(t, a.Unmute(&staff, target))
	require.Len(t, f.removed, 1)
	assert.False(t, a.IsMuted(target.ID))

	assert.ErrorIs(t, a.Unmute(&staff, target), ErrNotMuted)
}

func TestAutoMute(t *testing.T) {
	a, _, f, store := testActions(t)

	require.NoError(t, a.AutoMute(target, "spam", time.Minute))
	assert.True(t, a.IsMuted(target.ID))

	require.Len(t, store.warns, 1)
	assert.Equal(t, selfID, store.warns[0].StaffID, "automatic records are attributed to the bot")
	assert.Equal(t, "Auto Mute - spam", store.warns[0].Reason)

	assert.Len(t, f.to(dmChannel), 1, "target is warned by DM")
}

func TestRebuildMutes(t *testing.T) {
	a, _, f, _ := testActions(t)

	f.members = []discord.Member{
		{User: discord.User{ID: 42}, RoleIDs: []discord.RoleID{mutedRole}},
		{User: discord.User{ID: 43}, RoleIDs: []discord.RoleID{staffRole}},
		{User: discord.User{ID: 44}, RoleIDs: []discord.RoleID{staffRole, mutedRole}},
	}

	count, err := a.RebuildMutes()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, a.IsMuted(42))
	assert.False(t, a.IsMuted(43))
	assert.True(t, a.IsMuted(44))
}

func TestSilenceRestore(t *testing.T) {
	a, _, f, _ := testActions(t)

	ch := discord.ChannelID(50)
	f.channels[ch] = &discord.Channel{
		ID: ch,
		Overwrites: []discord.Overwrite{{
			ID:    discord.Snowflake(testGuild),
			Type:  discord.OverwriteRole,
			Allow: discord.PermissionSendMessages | discord.PermissionViewChannel,
		}},
	}

	require.NoError(t, a.Silence(&staff, ch, 0))
	require.NotEmpty(t, f.permEdits)
	first := f.permEdits[0]
	assert.Equal(t, discord.Snowflake(testGuild), first.overwrite)
	assert.True(t, first.data.Deny.Has(discord.PermissionSendMessages))
	assert.False(t, first.data.Allow.Has(discord.PermissionSendMessages))
	assert.True(t, first.data.Allow.Has(discord.PermissionViewChannel), "unrelated bits kept")

	assert.ErrorIs(t, a.Silence(&staff, ch, 0), ErrAlreadySilenced)

	require.NoError(t, a.Unsilence(&staff, ch))
	last := f.permEdits[len(f.permEdits)-1]
	assert.Equal(t, discord.Snowflake(testGuild), last.overwrite)
	assert.True(t, last.data.Allow.Has(discord.PermissionSendMessages), "prior allow restored")
	assert.False(t, last.data.Deny.Has(discord.PermissionSendMessages))

	assert.ErrorIs(t, a.Unsilence(&staff, ch), ErrNotSilenced)
}

func TestSilenceRestrictedCategory(t *testing.T) {
	a, _, f, _ := testActions(t)

	ch := discord.ChannelID(51)
	f.channels[ch] = &discord.Channel{ID: ch, ParentID: 300}

	assert.ErrorIs(t, a.Silence(&staff, ch, 0), ErrRestrictedCategory)
	assert.Empty(t, f.permEdits)
}

func TestResolveUser(t *testing.T) {
	a, _, f, _ := testActions(t)

	u, err := a.ResolveUser(42)
	require.NoError(t, err)
	assert.Equal(t, discord.UserID(42), u.ID)

	_, err = a.ResolveUser(42)
	require.NoError(t, err)
	assert.Equal(t, 1, f.userCalls, "second lookup is served from the cache")

	f.userErr = &httputil.HTTPError{Status: 404}
	_, err = a.ResolveUser(43)
	assert.ErrorIs(t, err, ErrNotFound)
}
