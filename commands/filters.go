package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/filter"
)

func (bot *Bot) addFilterCommands(staff *staffPerms) {
	bot.add(&bcr.Command{
		Name:    "listfilteredwords",
		Aliases: []string{"lfw"},
		Summary: "List the filtered words.",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.listFilters(filter.KindWord, "Filtered Words"),
	})

	bot.add(&bcr.Command{
		Name:    "listfilteredtokens",
		Aliases: []string{"lft"},
		Summary: "List the filtered tokens.",

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.listFilters(filter.KindToken, "Filtered Tokens"),
	})

	bot.add(&bcr.Command{
		Name:    "addfilteredword",
		Aliases: []string{"afw", "fw"},
		Summary: "Add a filtered word.",
		Usage:   "<word>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.addFilter(filter.KindWord, "Filter Word Modification"),
	})

	bot.add(&bcr.Command{
		Name:    "addfilteredtoken",
		Aliases: []string{"aft", "ft"},
		Summary: "Add a filtered token.",
		Usage:   "<token>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.addFilter(filter.KindToken, "Filter Token Modification"),
	})

	bot.add(&bcr.Command{
		Name:    "delfilteredword",
		Aliases: []string{"dfw"},
		Summary: "Delete a filtered word by its number.",
		Usage:   "<number>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.delFilter(filter.KindWord, "Filter Word Modification", "lfw"),
	})

	bot.add(&bcr.Command{
		Name:    "delfilteredtoken",
		Aliases: []string{"dft"},
		Summary: "Delete a filtered token by its number.",
		Usage:   "<number>",
		Args:    bcr.MinArgs(1),

		GuildOnly:         true,
		CustomPermissions: staff,
		Command:           bot.delFilter(filter.KindToken, "Filter Token Modification", "lft"),
	})
}

func (bot *Bot) filterList(kind filter.RuleKind) []string {
	f := bot.Config.Get().Filters
	switch kind {
	case filter.KindWord:
		return f.WordBlacklist
	case filter.KindToken:
		return f.TokenBlacklist
	default:
		return f.DomainBlacklist
	}
}

func (bot *Bot) listFilters(kind filter.RuleKind, title string) func(*bcr.Context) error {
	return func(ctx *bcr.Context) (err error) {
		rules := bot.filterList(kind)
		if len(rules) == 0 {
			_, err = ctx.Send("The list is empty.")
			return
		}

		fields := make([]discord.EmbedField, 0, len(rules))
		for i, r := range rules {
			fields = append(fields, discord.EmbedField{
				Name:  strconv.Itoa(i + 1),
				Value: fmt.Sprintf("`%v`", r),
			})
		}

		_, _, err = ctx.ButtonPages(
			bcr.FieldPaginator(title, "", bcr.ColourPurple, fields, 10),
			15*time.Minute)
		return
	}
}

func (bot *Bot) addFilter(kind filter.RuleKind, title string) func(*bcr.Context) error {
	return func(ctx *bcr.Context) (err error) {
		rule := strings.Trim(ctx.RawArgs, "` ")

		if err := bot.Config.AddFilterRule(kind, rule); err != nil {
			_, err = ctx.Replyc(bcr.ColourRed, "Couldn't add `%v`: %v", rule, err)
			return err
		}

		bot.ModLog.Notice(title, fmt.Sprintf("```diff\n+ %v```", rule), &ctx.Author)
		_, err = ctx.Sendf("Added `%v`.", rule)
		return
	}
}

func (bot *Bot) delFilter(kind filter.RuleKind, title, listCommand string) func(*bcr.Context) error {
	return func(ctx *bcr.Context) (err error) {
		n, cerr := strconv.Atoi(ctx.Args[0])
		if cerr != nil {
			_, err = ctx.Replyc(bcr.ColourRed, "Invalid number - do `%v%v` to view.", ctx.Prefix, listCommand)
			return
		}

		removed, err := bot.Config.DeleteFilterRule(kind, n-1)
		if errors.Is(err, config.ErrIndexOutOfRange) {
			_, err = ctx.Replyc(bcr.ColourRed, "Invalid number - do `%v%v` to view.", ctx.Prefix, listCommand)
			return
		}
		if err != nil {
			return bot.DB.ReportCtx(ctx, err)
		}

		bot.ModLog.Notice(title, fmt.Sprintf("```diff\n- %v```", removed), &ctx.Author)
		_, err = ctx.Sendf("Deleted `%v`.", removed)
		return
	}
}
