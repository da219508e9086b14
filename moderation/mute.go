package moderation

import (
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/modlog"
)

// Mute gives the user the muted role indefinitely. Muting an already
// muted user is a no-op that returns ErrAlreadyMuted; no duplicate
// record is inserted.
func (a *Actions) Mute(staff *discord.User, user discord.User) error {
	if !a.mutes.Add(user.ID) {
		return ErrAlreadyMuted
	}

	doc := a.cfg.Get()
	err := a.t.AddRole(doc.GuildID, user.ID, doc.Roles.Muted, api.AddRoleData{
		AuditLogReason: api.AuditLogReason("Muted by " + staff.Tag()),
	})
	if err != nil {
		a.mutes.Remove(user.ID)
		return errors.Wrap(err, "adding muted role")
	}

	a.log.Mute(user, modlog.MuteEntry{Staff: staff, Manual: true})

	_, err = a.store.InsertWarn(db.Record{
		UserID:  user.ID,
		StaffID: staff.ID,
		Reason:  "Mute",
	})
	if err != nil {
		return errors.Wrap(err, "inserting mute record")
	}
	return nil
}

// AutoMute mutes the user on behalf of the filter and schedules an
// automatic unmute after d. The timer handle is retained so a manual
// unmute cancels it.
func (a *Actions) AutoMute(user discord.User, rule string, d time.Duration) error {
	if !a.mutes.Add(user.ID) {
		return ErrAlreadyMuted
	}

	doc := a.cfg.Get()
	err := a.t.AddRole(doc.GuildID, user.ID, doc.Roles.Muted, api.AddRoleData{
		AuditLogReason: "Muted by Bot",
	})
	if err != nil {
		a.mutes.Remove(user.ID)
		return errors.Wrap(err, "adding muted role")
	}

	a.dm(user.ID, "Hey there! Looks like you were muted for spamming. Make sure you refrain from that in the future to avoid being kicked or banned.")

	a.log.Mute(user, modlog.MuteEntry{Rule: rule, Duration: d})

	a.mu.Lock()
	a.muteTimers[user.ID] = time.AfterFunc(d, func() {
		err := a.Unmute(nil, user)
		if err != nil && err != ErrNotMuted {
			a.sugar.Errorf("Error unmuting %v: %v", user.ID, err)
		}
	})
	a.mu.Unlock()

	_, err = a.store.InsertWarn(db.Record{
		UserID:  user.ID,
		StaffID: a.self,
		Reason:  "Auto Mute - " + rule,
	})
	if err != nil {
		return errors.Wrap(err, "inserting mute record")
	}
	return nil
}

// Unmute removes the muted role. staff is nil for automatic unmutes.
// Unmuting a user who isn't muted returns ErrNotMuted.
func (a *Actions) Unmute(staff *discord.User, user discord.User) error {
	if !a.mutes.Exists(user.ID) {
		return ErrNotMuted
	}

	a.mu.Lock()
	if t, ok := a.muteTimers[user.ID]; ok {
		t.Stop()
		delete(a.muteTimers, user.ID)
	}
	a.mu.Unlock()

	reason := "Unmuted by Bot"
	if staff != nil {
		reason = "Unmuted by " + staff.Tag()
	}

	doc := a.cfg.Get()
	err := a.t.RemoveRole(doc.GuildID, user.ID, doc.Roles.Muted, api.AuditLogReason(reason))
	if err != nil {
		return errors.Wrap(err, "removing muted role")
	}

	a.mutes.Remove(user.ID)
	a.log.Unmute(user, staff, staff != nil)
	return nil
}

// RebuildMutes refills the active mute set from the muted role's current
// membership. Pending unmute timers don't survive a restart; those mutes
// become indefinite until lifted by hand.
func (a *Actions) RebuildMutes() (int, error) {
	doc := a.cfg.Get()

	ms, err := a.t.Members(doc.GuildID, 0)
	if err != nil {
		return 0, errors.Wrap(err, "fetching members")
	}

	count := 0
	for _, m := range ms {
		for _, r := range m.RoleIDs {
			if r == doc.Roles.Muted {
				if a.mutes.Add(m.User.ID) {
					count++
				}
				break
			}
		}
	}
	return count, nil
}
