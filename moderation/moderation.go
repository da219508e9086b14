// Package moderation implements the privileged guild actions behind the
// staff commands: warns, kicks, bans, mutes, and channel silencing.
//
// Every action follows the same sequence: resolve the target, mark the
// expected gateway echoes as bot-caused, perform the transport call
// (rolling the marks back on failure), then record and log.
package moderation

import (
	"fmt"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"go.uber.org/zap"

	"github.com/united-minecrafters/kaede/common"
	"github.com/united-minecrafters/kaede/common/log"
	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/modlog"
)

const (
	// ErrNotFound is returned when a user ID doesn't resolve to a user.
	ErrNotFound = errors.Sentinel("user not found")

	ErrAlreadyMuted = errors.Sentinel("user is already muted")
	ErrNotMuted     = errors.Sentinel("user is not muted")

	ErrAlreadySilenced = errors.Sentinel("channel is already silenced")
	// ErrNotSilenced is returned when a channel has no restore state and
	// must be unsilenced by hand.
	ErrNotSilenced        = errors.Sentinel("channel is not in the overwrite restore table")
	ErrRestrictedCategory = errors.Sentinel("channel is in a restricted category")
)

// Transport is the subset of the Discord client the actions need.
// *api.Client satisfies it.
type Transport interface {
	User(userID discord.UserID) (*discord.User, error)
	Member(guildID discord.GuildID, userID discord.UserID) (*discord.Member, error)
	Members(guildID discord.GuildID, limit uint) ([]discord.Member, error)

	Kick(guildID discord.GuildID, userID discord.UserID, reason api.AuditLogReason) error
	Ban(guildID discord.GuildID, userID discord.UserID, data api.BanData) error
	Unban(guildID discord.GuildID, userID discord.UserID, reason api.AuditLogReason) error

	AddRole(guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID, data api.AddRoleData) error
	RemoveRole(guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID, reason api.AuditLogReason) error

	Channel(channelID discord.ChannelID) (*discord.Channel, error)
	EditChannelPermission(channelID discord.ChannelID, overwriteID discord.Snowflake, data api.EditChannelPermissionData) error

	CreatePrivateChannel(recipientID discord.UserID) (*discord.Channel, error)
	SendMessage(channelID discord.ChannelID, content string, embeds ...discord.Embed) (*discord.Message, error)
}

// RecordStore persists punishment records. *db.DB satisfies it.
type RecordStore interface {
	InsertWarn(rec db.Record) (int64, error)
	InsertBan(rec db.Record) (int64, error)
	Warns(userID discord.UserID) ([]db.Record, error)
	Bans(userID discord.UserID) ([]db.Record, error)
	Records(userID discord.UserID) ([]db.Record, error)
}

// ActionOptions carries the shared options of a moderation action.
type ActionOptions struct {
	Reason string
	// Silent withholds the public modlog notice.
	Silent bool
	// RecordPunishment persists the action to the punishment store.
	RecordPunishment bool
}

// Actions performs privileged guild actions.
type Actions struct {
	cfg   *config.Config
	t     Transport
	log   *modlog.Log
	store RecordStore
	self  discord.UserID

	users *ttlcache.Cache

	mutes *common.Set[discord.UserID]

	mu            sync.Mutex
	muteTimers    map[discord.UserID]*time.Timer
	silenceTimers map[discord.ChannelID]*time.Timer
	// restore holds the @everyone send-messages state of silenced
	// channels: nil for no explicit overwrite, otherwise the allow bit.
	restore map[discord.ChannelID]*bool

	sugar *zap.SugaredLogger
}

// New creates an Actions. self is the bot's own user ID, used as the
// staff ID on automatic punishment records.
func New(cfg *config.Config, t Transport, ml *modlog.Log, store RecordStore, self discord.UserID) *Actions {
	users := ttlcache.NewCache()
	users.SetTTL(30 * time.Minute)
	users.SetCacheSizeLimit(10000)

	return &Actions{
		cfg:           cfg,
		t:             t,
		log:           ml,
		store:         store,
		self:          self,
		users:         users,
		mutes:         common.NewSet[discord.UserID](),
		muteTimers:    map[discord.UserID]*time.Timer{},
		silenceTimers: map[discord.ChannelID]*time.Timer{},
		restore:       map[discord.ChannelID]*bool{},
		sugar:         log.Named("moderation"),
	}
}

// ResolveUser resolves a bare ID to a user, through a 30-minute cache.
// IDs that don't exist return ErrNotFound.
func (a *Actions) ResolveUser(id discord.UserID) (*discord.User, error) {
	if v, err := a.users.Get(id.String()); err == nil {
		if u, ok := v.(*discord.User); ok {
			return u, nil
		}
	}

	u, err := a.t.User(id)
	if err != nil {
		var herr *httputil.HTTPError
		if errors.As(err, &herr) && herr.Status == 404 {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "fetching user")
	}

	a.users.Set(id.String(), u)
	return u, nil
}

// IsMuted reports whether the user is in the active mute set.
func (a *Actions) IsMuted(id discord.UserID) bool {
	return a.mutes.Exists(id)
}

// dm sends the user a direct message, reporting whether it arrived.
func (a *Actions) dm(user discord.UserID, content string) bool {
	ch, err := a.t.CreatePrivateChannel(user)
	if err != nil {
		return false
	}
	_, err = a.t.SendMessage(ch.ID, content)
	return err == nil
}

// auditReason formats the audit-trail reason the way the modlog channel
// archives expect: the staff tag, then the reason, "S"-prefixed for
// silent actions.
func auditReason(staff *discord.User, reason string, silent bool) api.AuditLogReason {
	if reason == "" {
		reason = "None"
	}
	r := fmt.Sprintf("%v | %v", staff.Tag(), reason)
	if silent {
		r = "S | " + r
	}
	return api.AuditLogReason(r)
}
