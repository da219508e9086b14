package moderation

import (
	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"

	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/modlog"
)

// Warn inserts a warn record and logs it, returning the record ID.
func (a *Actions) Warn(staff *discord.User, user discord.User, reason string) (int64, error) {
	id, err := a.store.InsertWarn(db.Record{
		UserID:  user.ID,
		StaffID: staff.ID,
		Reason:  reason,
	})
	if err != nil {
		return 0, errors.Wrap(err, "inserting warn record")
	}

	a.log.Warn(user, modlog.ActionEntry{Staff: staff, Reason: reason})
	return id, nil
}

// Kick kicks the user from the guild.
func (a *Actions) Kick(staff *discord.User, user discord.User, opts ActionOptions) error {
	id := discord.Snowflake(user.ID)
	a.log.Suppress(modlog.ActionKick, id)

	err := a.t.Kick(a.cfg.Get().GuildID, user.ID, auditReason(staff, opts.Reason, opts.Silent))
	if err != nil {
		a.log.Unsuppress(modlog.ActionKick, id)
		return errors.Wrap(err, "kicking user")
	}

	a.log.Kick(user, modlog.ActionEntry{Staff: staff, Reason: opts.Reason, Silent: opts.Silent})
	return nil
}

// Ban bans the user. The ban and leave echoes are marked up front; a
// record is inserted only when opts.RecordPunishment is set. A storage
// failure after the ban went through is returned but doesn't undo it.
func (a *Actions) Ban(staff *discord.User, user discord.User, opts ActionOptions) error {
	id := discord.Snowflake(user.ID)
	a.log.Suppress(modlog.ActionBan, id)
	a.log.Suppress(modlog.ActionSuppressedLeave, id)

	err := a.t.Ban(a.cfg.Get().GuildID, user.ID, api.BanData{
		AuditLogReason: auditReason(staff, opts.Reason, opts.Silent),
	})
	if err != nil {
		a.log.Unsuppress(modlog.ActionBan, id)
		a.log.Unsuppress(modlog.ActionSuppressedLeave, id)
		return errors.Wrap(err, "banning user")
	}

	a.log.Ban(user, modlog.BanEntry{
		ActionEntry: modlog.ActionEntry{Staff: staff, Reason: opts.Reason, Silent: opts.Silent},
		Banned:      true,
	})

	if opts.RecordPunishment {
		_, err = a.store.InsertBan(db.Record{
			UserID:  user.ID,
			StaffID: staff.ID,
			Reason:  opts.Reason,
		})
		if err != nil {
			return errors.Wrap(err, "inserting ban record")
		}
	}
	return nil
}

// Softban bans the user with a 7-day message purge and immediately
// unbans them. Both echoes plus the leave are marked up front, and a
// single soft-ban entry is logged.
func (a *Actions) Softban(staff *discord.User, user discord.User, reason string) error {
	a.dm(user.ID, "You have been softbanned from the server. This is not a ban, but a kick + message delete.")

	id := discord.Snowflake(user.ID)
	guildID := a.cfg.Get().GuildID

	a.log.Suppress(modlog.ActionBan, id)
	a.log.Suppress(modlog.ActionSuppressedLeave, id)

	err := a.t.Ban(guildID, user.ID, api.BanData{
		DeleteDays:     option.NewUint(7),
		AuditLogReason: auditReason(staff, "Soft Ban", false),
	})
	if err != nil {
		a.log.Unsuppress(modlog.ActionBan, id)
		a.log.Unsuppress(modlog.ActionSuppressedLeave, id)
		return errors.Wrap(err, "banning user")
	}

	a.log.Suppress(modlog.ActionUnban, id)
	err = a.t.Unban(guildID, user.ID, auditReason(staff, "Soft Ban", false))
	if err != nil {
		a.log.Unsuppress(modlog.ActionUnban, id)
		return errors.Wrap(err, "unbanning user")
	}

	a.log.Ban(user, modlog.BanEntry{
		ActionEntry: modlog.ActionEntry{Staff: staff, Reason: reason, Silent: true},
		Soft:        true,
	})
	return nil
}
