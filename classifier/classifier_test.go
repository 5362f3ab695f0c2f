package classifier

import (
	"errors"
	"testing"

	"github.com/5HT2/coding-bot/bot"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	roleEveryone     discord.RoleID = 1
	roleBeginner     discord.RoleID = 2
	roleIntermediate discord.RoleID = 3
	roleProfessional discord.RoleID = 4
	roleExperience   discord.RoleID = 5
	roleJavaScript   discord.RoleID = 6
	rolePython       discord.RoleID = 7
	roleGo           discord.RoleID = 8
	roleRust         discord.RoleID = 9
	roleJava         discord.RoleID = 10
	roleLanguages    discord.RoleID = 11
	roleModerator    discord.RoleID = 12
	roleUnverified   discord.RoleID = 13
	roleAdmin        discord.RoleID = 14
	roleMusic        discord.RoleID = 15
)

// testRoles is sorted by position, the same way the server lists them from the bottom up
func testRoles() []discord.Role {
	return []discord.Role{
		{ID: roleEveryone, Name: "@everyone", Position: 0},
		{ID: roleBeginner, Name: "Beginner", Position: 1},
		{ID: roleIntermediate, Name: "Intermediate", Position: 2},
		{ID: roleProfessional, Name: "Professional", Position: 3},
		{ID: roleExperience, Name: "~Experience", Position: 4},
		{ID: roleJavaScript, Name: "JavaScript", Position: 5},
		{ID: rolePython, Name: "Python", Position: 6},
		{ID: roleGo, Name: "Go", Position: 7},
		{ID: roleRust, Name: "Rust", Position: 8},
		{ID: roleJava, Name: "Java", Position: 9},
		{ID: roleLanguages, Name: "~Languages", Position: 10},
		{ID: roleModerator, Name: "Moderator", Position: 11},
		{ID: roleUnverified, Name: "Unverified", Position: 12},
		{ID: roleAdmin, Name: "Admin", Position: 13},
		{ID: roleMusic, Name: "Music", Position: 14},
	}
}

func testTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()

	opts := DefaultOptions()
	opts.IgnoredIDs = []discord.RoleID{roleUnverified}

	tax, err := NewTaxonomy(testRoles(), opts)
	require.NoError(t, err)
	return tax
}

func ids(roles []discord.Role) []discord.RoleID {
	return roleIDs(roles)
}

func TestNewTaxonomy(t *testing.T) {
	tax := testTaxonomy(t)

	assert.Equal(t, []string{"Experience", "Languages"}, tax.CategoryNames())

	categories := tax.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, []discord.RoleID{roleBeginner, roleIntermediate, roleProfessional}, ids(categories[0].Roles))
	assert.Equal(t, []discord.RoleID{roleJavaScript, rolePython, roleGo, roleRust, roleJava}, ids(categories[1].Roles))

	assert.True(t, tax.IsHeader(roleExperience))
	assert.True(t, tax.IsHeader(roleLanguages))
	assert.True(t, tax.IsIgnored(roleEveryone))
	assert.True(t, tax.IsIgnored(roleModerator))
	assert.True(t, tax.IsIgnored(roleAdmin))
	assert.True(t, tax.IsIgnored(roleUnverified))

	// Roles after the last header are assignable, but never required
	assert.Equal(t, []discord.RoleID{roleMusic}, ids(tax.Uncategorized()))
	r, ok := tax.Lookup("music")
	assert.True(t, ok)
	assert.Equal(t, roleMusic, r.ID)
}

func TestNewTaxonomyNoCategories(t *testing.T) {
	roles := []discord.Role{
		{ID: roleEveryone, Name: "@everyone"},
		{ID: rolePython, Name: "Python", Position: 1},
		{ID: roleRust, Name: "Rust", Position: 2},
	}

	_, err := NewTaxonomy(roles, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, bot.ErrConfiguration))

	opts := DefaultOptions()
	opts.HeaderMarker = " "
	_, err = NewTaxonomy(testRoles(), opts)
	assert.True(t, errors.Is(err, bot.ErrConfiguration))
}

func TestNewTaxonomyManagedAndDuplicates(t *testing.T) {
	roles := []discord.Role{
		{ID: 100, Name: "Python", Position: 1},
		{ID: 101, Name: "python", Position: 2},
		{ID: 102, Name: "SomeBot", Position: 3, Managed: true},
		{ID: 103, Name: "~Languages", Position: 4},
	}

	tax, err := NewTaxonomy(roles, DefaultOptions())
	require.NoError(t, err)

	r, ok := tax.Lookup("PYTHON")
	assert.True(t, ok)
	assert.Equal(t, discord.RoleID(100), r.ID)

	_, ok = tax.Lookup("somebot")
	assert.False(t, ok)
	assert.True(t, tax.IsIgnored(102))
	assert.Equal(t, []discord.RoleID{100}, ids(tax.Categories()[0].Roles))
}

func TestAliases(t *testing.T) {
	tax := testTaxonomy(t)

	for alias, target := range map[string]discord.RoleID{
		"js":       roleJavaScript,
		"JS":       roleJavaScript,
		"py":       rolePython,
		"golang":   roleGo,
		"begginer": roleBeginner,
		"beginer":  roleBeginner,
		"begener":  roleBeginner,
	} {
		r, ok := tax.Lookup(alias)
		if assert.True(t, ok, alias) {
			assert.Equal(t, target, r.ID, alias)
		}
	}

	// Targets that don't exist on the server are dropped
	_, ok := tax.Lookup("ts")
	assert.False(t, ok)
}

func TestAliasNeverShadowsRole(t *testing.T) {
	roles := append(testRoles(), discord.Role{ID: 50, Name: "JS", Position: 15})

	tax, err := NewTaxonomy(roles, DefaultOptions())
	require.NoError(t, err)

	r, ok := tax.Lookup("js")
	assert.True(t, ok)
	assert.Equal(t, discord.RoleID(50), r.ID)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"i", "know", "javascript", "python", "go"}, Tokenize("  I know -JavaScript, python. go: ", "-"))
	assert.Equal(t, []string{"python", "rust"}, Tokenize("🐍python rust🦀 🎉", "-"))
	assert.Equal(t, []string{}, Tokenize(" - , . ", "-"))
	assert.Equal(t, []string{"go", "python", "rust"}, Tokenize(".go ...python ;.rust.", "-"))
}

func TestDetectUniqueInOrder(t *testing.T) {
	tax := testTaxonomy(t)

	detected := tax.Detect("Rust, python and py again, then rust. Moderator Admin unverified ~Languages")
	assert.Equal(t, []discord.RoleID{roleRust, rolePython}, ids(detected))
}

func TestClassifyAccept(t *testing.T) {
	tax := testTaxonomy(t)

	res := Classify("Hi! I'm a beginner, I know js and Python.", []discord.RoleID{roleUnverified}, roleUnverified, tax)
	assert.Equal(t, Accept, res.Decision)
	assert.ElementsMatch(t, []discord.RoleID{roleBeginner, roleJavaScript, rolePython}, ids(res.Add))
	assert.Equal(t, []discord.RoleID{roleUnverified}, res.Remove)
	assert.Empty(t, res.Missing)
	assert.Contains(t, res.Reply, "you have automatically been assigned the following roles")
	assert.Contains(t, res.Reply, "- JavaScript")
}

func TestClassifyAcceptVerifiedMember(t *testing.T) {
	tax := testTaxonomy(t)

	// A member without the quarantine role never has it removed
	res := Classify("professional gopher, golang and rust", []discord.RoleID{roleProfessional}, roleUnverified, tax)
	assert.Equal(t, Accept, res.Decision)
	assert.ElementsMatch(t, []discord.RoleID{roleProfessional, roleGo, roleRust}, ids(res.Add))
	assert.Empty(t, res.Remove)
}

func TestClassifyNeverAddsHeadersOrIgnored(t *testing.T) {
	tax := testTaxonomy(t)

	res := Classify("Experience Languages ~Experience moderator admin beginner python music", nil, roleUnverified, tax)
	require.Equal(t, Accept, res.Decision)

	for _, r := range res.Add {
		assert.False(t, tax.IsHeader(r.ID), r.Name)
		assert.False(t, tax.IsIgnored(r.ID), r.Name)
	}
	assert.ElementsMatch(t, []discord.RoleID{roleBeginner, rolePython, roleMusic}, ids(res.Add))
}

func TestClassifyReject(t *testing.T) {
	tax := testTaxonomy(t)

	res := Classify("Hello I like python", []discord.RoleID{roleUnverified}, roleUnverified, tax)
	assert.Equal(t, Reject, res.Decision)
	assert.Empty(t, res.Add)
	assert.Empty(t, res.Remove)
	assert.Equal(t, []string{"Experience"}, res.Missing)
	assert.Contains(t, res.Reply, "**Experience**")

	res = Classify("hello everyone!", nil, roleUnverified, tax)
	assert.Equal(t, Reject, res.Decision)
	assert.Equal(t, []string{"Experience", "Languages"}, res.Missing)
	assert.Empty(t, res.Add)
}

func TestClassifyQuarantinedRemovalIsIntroduction(t *testing.T) {
	tax := testTaxonomy(t)

	res := Classify("-beginner python", []discord.RoleID{roleUnverified}, roleUnverified, tax)
	assert.Equal(t, Accept, res.Decision)
	assert.ElementsMatch(t, []discord.RoleID{roleBeginner, rolePython}, ids(res.Add))
	assert.Equal(t, []discord.RoleID{roleUnverified}, res.Remove)
}

func TestClassifyRemoval(t *testing.T) {
	tax := testTaxonomy(t)

	tests := []struct {
		name     string
		text     string
		current  []discord.RoleID
		decision Decision
		remove   []discord.RoleID
	}{
		{
			name:     "enough languages remain",
			text:     "-javascript -python",
			current:  []discord.RoleID{roleProfessional, roleJavaScript, rolePython, roleGo, roleRust, roleJava},
			decision: PartialRemoval,
			remove:   []discord.RoleID{roleJavaScript, rolePython},
		},
		{
			name:     "only two languages remain",
			text:     "-javascript -python",
			current:  []discord.RoleID{roleProfessional, roleJavaScript, rolePython, roleGo, roleRust},
			decision: InsufficientCoverage,
		},
		{
			name:     "one language remains",
			text:     "-js -py",
			current:  []discord.RoleID{roleProfessional, roleJavaScript, rolePython, roleGo},
			decision: InsufficientCoverage,
		},
		{
			name:     "category emptied",
			text:     "-professional",
			current:  []discord.RoleID{roleProfessional, roleJavaScript, rolePython, roleGo, roleRust},
			decision: InsufficientCoverage,
		},
		{
			name:     "experience swapped out while another remains",
			text:     "-beginner",
			current:  []discord.RoleID{roleBeginner, roleProfessional, roleJavaScript, rolePython, roleGo},
			decision: PartialRemoval,
			remove:   []discord.RoleID{roleBeginner},
		},
		{
			name:     "nothing detected",
			text:     "-please remove everything",
			current:  []discord.RoleID{roleProfessional, roleJavaScript, rolePython, roleGo},
			decision: Reject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.text, tt.current, roleUnverified, tax)
			assert.Equal(t, tt.decision, res.Decision, res.Reply)
			assert.Empty(t, res.Add)
			if tt.decision == PartialRemoval {
				assert.ElementsMatch(t, tt.remove, res.Remove)
			} else {
				assert.Empty(t, res.Remove)
			}
			assert.NotEmpty(t, res.Reply)
		})
	}
}

func TestClassifyCategoryOrderIndependent(t *testing.T) {
	// Same roles with the categories listed the other way around
	roles := []discord.Role{
		{ID: roleJavaScript, Name: "JavaScript", Position: 1},
		{ID: rolePython, Name: "Python", Position: 2},
		{ID: roleLanguages, Name: "~Languages", Position: 3},
		{ID: roleBeginner, Name: "Beginner", Position: 4},
		{ID: roleProfessional, Name: "Professional", Position: 5},
		{ID: roleExperience, Name: "~Experience", Position: 6},
	}
	tax, err := NewTaxonomy(roles, DefaultOptions())
	require.NoError(t, err)

	res := Classify("python", nil, roleUnverified, tax)
	assert.Equal(t, Reject, res.Decision)
	assert.Equal(t, []string{"Experience"}, res.Missing)

	res = Classify("beginner", nil, roleUnverified, tax)
	assert.Equal(t, Reject, res.Decision)
	assert.Equal(t, []string{"Languages"}, res.Missing)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "accept", Accept.String())
	assert.Equal(t, "reject", Reject.String())
	assert.Equal(t, "partial removal", PartialRemoval.String())
	assert.Equal(t, "insufficient coverage", InsufficientCoverage.String())
}
