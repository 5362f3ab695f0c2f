package introductions

import (
	"testing"

	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/classifier"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRoles(t *testing.T) {
	roles := []discord.Role{
		{ID: 30, Name: "~Experience", Position: 3},
		{ID: 10, Name: "@everyone", Position: 0},
		{ID: 22, Name: "Beginner", Position: 1},
		{ID: 21, Name: "Expert", Position: 1},
	}

	sorted := SortRoles(roles)
	ids := make([]discord.RoleID, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}

	assert.Equal(t, []discord.RoleID{10, 21, 22, 30}, ids)
	assert.Equal(t, discord.RoleID(30), roles[0].ID, "input is left untouched")
}

func TestClassifierOptions(t *testing.T) {
	cfg := bot.GuildConfig{
		Verification: bot.VerificationConfig{Role: 99},
		Roles: bot.RolesConfig{
			Ignored:              []string{"Muted"},
			HeaderMarker:         "==",
			Aliases:              map[string]string{"Golang": "go"},
			MinRetainedLanguages: 3,
		},
	}

	opts := ClassifierOptions(cfg)
	assert.Contains(t, opts.IgnoredRoles, "Muted")
	assert.Contains(t, opts.IgnoredIDs, discord.RoleID(99))
	assert.Equal(t, "==", opts.HeaderMarker)
	assert.Equal(t, "go", opts.Aliases["golang"])
	assert.Equal(t, "Languages", opts.LanguagesCategory)
	assert.Equal(t, 3, opts.MinRetainedLanguages)

	// Defaults are not shared between calls
	opts.Aliases["x"] = "y"
	_, ok := classifier.DefaultOptions().Aliases["x"]
	assert.False(t, ok)
}

func TestServerRolesClassify(t *testing.T) {
	// Roles as they come from the API, top of the list first
	roles := []discord.Role{
		{ID: 1, Name: "@everyone", Position: 0},
		{ID: 9, Name: "~Languages", Position: 8},
		{ID: 8, Name: "Python", Position: 7},
		{ID: 7, Name: "Go", Position: 6},
		{ID: 6, Name: "Rust", Position: 5},
		{ID: 5, Name: "~Experience", Position: 4},
		{ID: 4, Name: "Beginner", Position: 3},
		{ID: 3, Name: "Expert", Position: 2},
		{ID: 2, Name: "Unverified", Position: 1},
	}
	cfg := bot.GuildConfig{Verification: bot.VerificationConfig{Role: 2, Channel: 100}}

	tax, err := classifier.NewTaxonomy(SortRoles(roles), ClassifierOptions(cfg))
	require.NoError(t, err)
	assert.Equal(t, []string{"Experience", "Languages"}, tax.CategoryNames())

	res := classifier.Classify("Hi! I'm a beginner, I mostly write golang and python.", []discord.RoleID{2}, 2, tax)
	assert.Equal(t, classifier.Accept, res.Decision)
	assert.Equal(t, []discord.RoleID{2}, res.Remove)

	names := make([]string, 0)
	for _, r := range res.Add {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Beginner", "Go", "Python"}, names)
}

func TestUnverifiedMessage(t *testing.T) {
	assert.Equal(t, "Before you can send messages, please introduce yourself in <#42>", UnverifiedMessage(42))
	assert.Equal(t, "Before you can send messages, please introduce yourself in the introduction channel", UnverifiedMessage(0))
}

func TestDecisionReaction(t *testing.T) {
	assert.Equal(t, bot.CheckEmoji, DecisionReaction(classifier.Accept, ""))
	assert.Equal(t, discord.APIEmoji("🎉"), DecisionReaction(classifier.PartialRemoval, "%F0%9F%8E%89"))
	assert.Equal(t, discord.APIEmoji("party:123"), DecisionReaction(classifier.Accept, "a:party:123"))
	assert.Equal(t, bot.WarningEmoji, DecisionReaction(classifier.Reject, "%F0%9F%8E%89"))
	assert.Equal(t, bot.WarningEmoji, DecisionReaction(classifier.InsufficientCoverage, ""))
	assert.Equal(t, bot.WarningEmoji, DecisionReaction(classifier.Accept, "%zz"))
}

func TestEncodeReaction(t *testing.T) {
	assert.Equal(t, "%E2%9C%85", EncodeReaction("✅"))
	assert.Equal(t, "a:party:123", EncodeReaction("<a:party:123>"))
	assert.Equal(t, ":party:123", EncodeReaction("<:party:123>"))

	assert.Equal(t, discord.APIEmoji("party:123"), DecisionReaction(classifier.Accept, EncodeReaction("<:party:123>")))
}
