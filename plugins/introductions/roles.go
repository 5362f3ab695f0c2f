package introductions

import (
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/classifier"
	"github.com/diamondburned/arikawa/v3/discord"
	"sort"
	"strings"
)

// GuildTaxonomy builds a classifier.Taxonomy from the live roles of guild
func GuildTaxonomy(guild discord.GuildID, cfg bot.GuildConfig) (*classifier.Taxonomy, error) {
	roles, err := bot.Client.Roles(guild)
	if err != nil {
		return nil, bot.GenericError("GuildTaxonomy", "getting guild roles", err.Error())
	}

	return classifier.NewTaxonomy(SortRoles(roles), ClassifierOptions(cfg))
}

// SortRoles orders roles from the bottom of the role list to the top, so every header comes after its roles
func SortRoles(roles []discord.Role) []discord.Role {
	sorted := append([]discord.Role{}, roles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position == sorted[j].Position {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

// ClassifierOptions applies the guild's role settings over classifier.DefaultOptions
func ClassifierOptions(cfg bot.GuildConfig) classifier.Options {
	opts := classifier.DefaultOptions()
	r := cfg.Roles

	if len(r.Ignored) > 0 {
		opts.IgnoredRoles = append(opts.IgnoredRoles, r.Ignored...)
	}
	if len(r.HeaderMarker) > 0 {
		opts.HeaderMarker = r.HeaderMarker
	}
	for alias, name := range r.Aliases {
		opts.Aliases[strings.ToLower(alias)] = name
	}
	if len(r.LanguagesCategory) > 0 {
		opts.LanguagesCategory = r.LanguagesCategory
	}
	if r.MinRetainedLanguages > 0 {
		opts.MinRetainedLanguages = int(r.MinRetainedLanguages)
	}
	if cfg.Verification.Role != 0 {
		opts.IgnoredIDs = append(opts.IgnoredIDs, discord.RoleID(cfg.Verification.Role))
	}

	return opts
}
