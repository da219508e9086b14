// Package commands implements the staff command surface.
package commands

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/bot"
	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/moderation"
)

type Bot struct {
	*bot.Bot
}

// staffPerms gates a command on the configured staff role.
type staffPerms struct {
	cfg *config.Config
}

func (p *staffPerms) String(_ bcr.Contexter) string { return "Staff" }

func (p *staffPerms) Check(ctx bcr.Contexter) (bool, error) {
	member := ctx.GetMember()
	if member == nil {
		return false, nil
	}
	staff := p.cfg.Get().Roles.Staff
	for _, r := range member.RoleIDs {
		if r == staff {
			return true, nil
		}
	}
	return false, nil
}

// Init registers all commands.
func Init(b *bot.Bot) {
	bot := &Bot{Bot: b}
	staff := &staffPerms{cfg: b.Config}

	bot.add(&bcr.Command{
		Name:    "warn",
		Summary: "Warn a user, with an optional reason.",
		Usage:   "<user> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.warn,
	})

	bot.add(&bcr.Command{
		Name:    "warnlog",
		Aliases: []string{"warns"},
		Summary: "Show a user's warnings.",
		Usage:   "<user>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.warnlog,
	})

	bot.add(&bcr.Command{
		Name:    "records",
		Aliases: []string{"recs"},
		Summary: "Show all of a user's moderation records.",
		Usage:   "<user|ID>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.records,
	})

	bot.add(&bcr.Command{
		Name:    "kick",
		Summary: "Kick a member, with an optional reason.",
		Usage:   "<member> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionKickMembers,
		Command:     bot.kick(false),
	})

	bot.add(&bcr.Command{
		Name:    "skick",
		Summary: "Kick a member without a public notice.",
		Usage:   "<member> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionKickMembers,
		Command:     bot.kick(true),
	})

	bot.add(&bcr.Command{
		Name:    "ban",
		Summary: "Ban a member or a bare ID, with an optional reason.",
		Usage:   "<member|ID> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionBanMembers,
		Command:     bot.ban(moderation.ActionOptions{RecordPunishment: true}),
	})

	bot.add(&bcr.Command{
		Name:    "sban",
		Summary: "Ban a member or a bare ID without a public notice.",
		Usage:   "<member|ID> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionBanMembers,
		Command:     bot.ban(moderation.ActionOptions{Silent: true}),
	})

	bot.add(&bcr.Command{
		Name:    "softban",
		Summary: "Ban and immediately unban a member, deleting their messages from the last 7 days.",
		Usage:   "<member> [reason...]",
		Args:    bcr.MinArgs(1),

		GuildOnly:   true,
		Permissions: discord.PermissionKickMembers,
		Command:     bot.softban,
	})

	bot.add(&bcr.Command{
		Name:    "mute",
		Summary: "Indefinitely mute a member.",
		Usage:   "<member>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.mute,
	})

	bot.add(&bcr.Command{
		Name:    "unmute",
		Summary: "Unmute a member.",
		Usage:   "<member>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.unmute,
	})

	bot.add(&bcr.Command{
		Name:    "silence",
		Aliases: []string{"sh"},
		Summary: "Silence the current channel so only staff can speak. The default time is 10 minutes.",
		Usage:   "[minutes]",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.silence,
	})

	bot.add(&bcr.Command{
		Name:    "unsilence",
		Aliases: []string{"unsh"},
		Summary: "Unsilence the current channel.",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.unsilence,
	})

	bot.addFilterCommands(staff)

	bot.add(&bcr.Command{
		Name:    "autokick",
		Aliases: []string{"ak"},
		Summary: "Show or set the minimum account age in days. 0 turns autokick off.",
		Usage:   "[days]",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.autokick,
	})

	bot.add(&bcr.Command{
		Name:    "liststatus",
		Summary: "List the statuses in the rotation.",

		OwnerOnly: true,
		Command:   bot.listStatus,
	})

	bot.add(&bcr.Command{
		Name:    "addstatus",
		Aliases: []string{"adst"},
		Summary: "Add a status to the rotation.",
		Usage:   "<status...>",
		Args:    bcr.MinArgs(1),

		OwnerOnly: true,
		Command:   bot.addStatus,
	})

	bot.add(&bcr.Command{
		Name:    "delstatus",
		Summary: "Delete a status from the rotation.",
		Usage:   "<number>",
		Args:    bcr.MinArgs(1),

		OwnerOnly: true,
		Command:   bot.delStatus,
	})

	bot.add(&bcr.Command{
		Name:    "reloadconfig",
		Summary: "Reload the configuration file.",

		OwnerOnly: true,
		Command:   bot.reloadConfig,
	})

	bot.add(&bcr.Command{
		Name:    "modhelp",
		Aliases: []string{"mhelp"},
		Summary: "Show an overview of the moderation commands.",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.modhelp,
	})

	bot.add(&bcr.Command{
		Name:    "stats",
		Aliases: []string{"ping"},
		Summary: "Show the bot's latency and other stats.",

		Command: bot.stats,
	})
}

// add registers a command, counting its invocations.
func (bot *Bot) add(c *bcr.Command) {
	inner := c.Command
	c.Command = func(ctx *bcr.Context) error {
		bot.Stats.IncCommand()
		return inner(ctx)
	}
	bot.Router.AddCommand(c)
}
