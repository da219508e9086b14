package moderation

import (
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// Silence denies @everyone send access in the channel and stores the
// prior overwrite state so Unsilence can restore it. Channels under a
// restricted category return ErrRestrictedCategory. If d > 0 the channel
// is unsilenced automatically after d.
func (a *Actions) Silence(staff *discord.User, chID discord.ChannelID, d time.Duration) error {
	doc := a.cfg.Get()

	ch, err := a.t.Channel(chID)
	if err != nil {
		return errors.Wrap(err, "fetching channel")
	}

	for _, cat := range doc.RestrictedCategories {
		if ch.ParentID == cat {
			return ErrRestrictedCategory
		}
	}

	everyone := discord.Snowflake(doc.GuildID)
	ow := overwriteFor(ch, everyone)
	if ow.Deny.Has(discord.PermissionSendMessages) {
		return ErrAlreadySilenced
	}

	var prev *bool
	if ow.Allow.Has(discord.PermissionSendMessages) {
		v := true
		prev = &v
	}

	a.mu.Lock()
	if _, ok := a.restore[chID]; ok {
		a.mu.Unlock()
		return ErrAlreadySilenced
	}
	a.restore[chID] = prev
	a.mu.Unlock()

	err = a.t.EditChannelPermission(chID, everyone, api.EditChannelPermissionData{
		Type:  discord.OverwriteRole,
		Allow: ow.Allow &^ discord.PermissionSendMessages,
		Deny:  ow.Deny | discord.PermissionSendMessages,
	})
	if err != nil {
		a.mu.Lock()
		delete(a.restore, chID)
		a.mu.Unlock()
		return errors.Wrap(err, "editing channel permissions")
	}

	// staff keep an explicit send override for the duration
	staffID := discord.Snowflake(doc.Roles.Staff)
	sow := overwriteFor(ch, staffID)
	err = a.t.EditChannelPermission(chID, staffID, api.EditChannelPermissionData{
		Type:  discord.OverwriteRole,
		Allow: sow.Allow | discord.PermissionSendMessages,
		Deny:  sow.Deny &^ discord.PermissionSendMessages,
	})
	if err != nil {
		a.sugar.Errorf("Error granting staff send override in %v: %v", chID, err)
	}

	if d > 0 {
		a.mu.Lock()
		a.silenceTimers[chID] = time.AfterFunc(d, func() {
			err := a.Unsilence(nil, chID)
			if err != nil && err != ErrNotSilenced {
				a.sugar.Errorf("Error unsilencing %v: %v", chID, err)
			}
		})
		a.mu.Unlock()
	}

	a.log.Silenced(chID, true, staff, d)
	return nil
}

// Unsilence restores the @everyone overwrite saved by Silence. A channel
// without restore state returns ErrNotSilenced and has to be fixed by
// hand.
func (a *Actions) Unsilence(staff *discord.User, chID discord.ChannelID) error {
	a.mu.Lock()
	prev, ok := a.restore[chID]
	if !ok {
		a.mu.Unlock()
		return ErrNotSilenced
	}
	delete(a.restore, chID)
	if t, ok := a.silenceTimers[chID]; ok {
		t.Stop()
		delete(a.silenceTimers, chID)
	}
	a.mu.Unlock()

	doc := a.cfg.Get()
	ch, err := a.t.Channel(chID)
	if err != nil {
		a.mu.Lock()
		a.restore[chID] = prev
		a.mu.Unlock()
		return errors.Wrap(err, "fetching channel")
	}

	everyone := discord.Snowflake(doc.GuildID)
	ow := overwriteFor(ch, everyone)

	allow := ow.Allow &^ discord.PermissionSendMessages
	deny := ow.Deny &^ discord.PermissionSendMessages
	if prev != nil {
		if *prev {
			allow |= discord.PermissionSendMessages
		} else {
			deny |= discord.PermissionSendMessages
		}
	}

	err = a.t.EditChannelPermission(chID, everyone, api.EditChannelPermissionData{
		Type:  discord.OverwriteRole,
		Allow: allow,
		Deny:  deny,
	})
	if err != nil {
		a.mu.Lock()
		a.restore[chID] = prev
		a.mu.Unlock()
		return errors.Wrap(err, "editing channel permissions")
	}

	a.log.Silenced(chID, false, staff, 0)
	return nil
}

func overwriteFor(ch *discord.Channel, id discord.Snowflake) discord.Overwrite {
	for _, ow := range ch.Overwrites {
		if ow.ID == id {
			return ow
		}
	}
	return discord.Overwrite{ID: id, Type: discord.OverwriteRole}
}
