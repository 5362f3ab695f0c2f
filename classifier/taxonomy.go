// Package classifier turns free-text introductions into role assignments.
//
// A server's roles are parsed into a Taxonomy: header roles (names starting with a marker,
// e.g. "~Languages") close a category made of every plain role listed since the previous
// header. Classify then checks that an introduction names at least one role of every category.
package classifier

import (
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"sort"
	"strings"
)

var (
	DefaultIgnoredRoles = []string{
		"@everyone",
		"Admin",
		"Moderator",
		"Merit Badge (lvl - Moderator)",
		"Merit Badge (lvl - Admin)",
		"Merit Badge (lvl - Owner)",
	}

	// DefaultAliases maps common shorthands and misspellings to the role name they stand for
	DefaultAliases = map[string]string{
		"js":           "javascript",
		"node":         "javascript",
		"nodejs":       "javascript",
		"ts":           "typescript",
		"py":           "python",
		"python3":      "python",
		"golang":       "go",
		"cpp":          "c++",
		"csharp":       "c#",
		"cs":           "c#",
		"rs":           "rust",
		"kt":           "kotlin",
		"rb":           "ruby",
		"begginer":     "beginner",
		"beginer":      "beginner",
		"begener":      "beginner",
		"begginner":    "beginner",
		"newbie":       "beginner",
		"intermidiate": "intermediate",
		"intermediat":  "intermediate",
		"pro":          "professional",
		"proffesional": "professional",
		"profesional":  "professional",
	}
)

// Options configures how a Taxonomy is built from a server's roles
type Options struct {
	IgnoredRoles         []string          // role names never considered, case-insensitive
	IgnoredIDs           []discord.RoleID  // e.g. the quarantine role
	HeaderMarker         string            // prefix marking a category header role
	RemovalMarker        string            // prefix marking a role removal request
	Aliases              map[string]string // [alias]role name
	LanguagesCategory    string            // category that must keep more than MinRetainedLanguages roles
	MinRetainedLanguages int
}

func DefaultOptions() Options {
	aliases := make(map[string]string, len(DefaultAliases))
	for k, v := range DefaultAliases {
		aliases[k] = v
	}

	return Options{
		IgnoredRoles:         append([]string{}, DefaultIgnoredRoles...),
		HeaderMarker:         "~",
		RemovalMarker:        "-",
		Aliases:              aliases,
		LanguagesCategory:    "Languages",
		MinRetainedLanguages: 2,
	}
}

type Category struct {
	Name  string
	Roles []discord.Role
}

// Contains returns if id is one of the category's roles
func (c Category) Contains(id discord.RoleID) bool {
	for _, r := range c.Roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Count returns how many of ids belong to the category
func (c Category) Count(ids []discord.RoleID) int {
	n := 0
	for _, id := range util.SliceUnique(ids) {
		if c.Contains(id) {
			n++
		}
	}
	return n
}

type Taxonomy struct {
	opts          Options
	categories    []Category
	uncategorized []discord.Role
	lookup        map[string]discord.Role // [lowercase name or alias]role
	headers       map[discord.RoleID]struct{}
	ignored       map[discord.RoleID]struct{}
}

type roleKind uint8

const (
	kindMember roleKind = iota
	kindHeader
	kindIgnored
)

// NewTaxonomy builds a Taxonomy from roles, which must be in listing order (lowest position first).
// It returns a configuration error if no category could be derived.
func NewTaxonomy(roles []discord.Role, opts Options) (*Taxonomy, error) {
	marker := strings.TrimSpace(opts.HeaderMarker)
	if len(marker) == 0 {
		return nil, bot.ConfigError("NewTaxonomy", "reading header marker", "header marker is empty")
	}

	ignoredNames := map[string]struct{}{"@everyone": {}}
	for _, name := range opts.IgnoredRoles {
		ignoredNames[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	t := &Taxonomy{
		opts:    opts,
		lookup:  make(map[string]discord.Role),
		headers: make(map[discord.RoleID]struct{}),
		ignored: make(map[discord.RoleID]struct{}),
	}

	// First pass: decide what every role is
	kinds := make([]roleKind, len(roles))
	for i, r := range roles {
		name := strings.TrimSpace(r.Name)
		_, ignoredName := ignoredNames[strings.ToLower(name)]

		switch {
		case r.Managed || ignoredName || util.SliceContains(opts.IgnoredIDs, r.ID):
			kinds[i] = kindIgnored
		case strings.HasPrefix(name, marker):
			kinds[i] = kindHeader
		default:
			kinds[i] = kindMember
		}
	}

	// Second pass: accumulate plain roles until a header closes the category
	pending := make([]discord.Role, 0)
	for i, r := range roles {
		switch kinds[i] {
		case kindIgnored:
			t.ignored[r.ID] = struct{}{}
		case kindHeader:
			t.headers[r.ID] = struct{}{}
			if len(pending) == 0 {
				continue
			}

			t.addCategory(headerName(r.Name, marker), pending)
			pending = make([]discord.Role, 0)
		case kindMember:
			key := normalize(r.Name)
			if len(key) == 0 {
				continue
			}
			if _, ok := t.lookup[key]; ok {
				continue // first role with a given name wins
			}

			t.lookup[key] = r
			pending = append(pending, r)
		}
	}
	t.uncategorized = pending

	if len(t.categories) == 0 {
		return nil, bot.ConfigError("NewTaxonomy", "building role categories",
			"no category found, name a role \""+marker+"Category\" above the roles it groups")
	}

	t.mergeAliases(opts.Aliases)
	return t, nil
}

func (t *Taxonomy) addCategory(name string, roles []discord.Role) {
	for n, c := range t.categories {
		if strings.EqualFold(c.Name, name) {
			t.categories[n].Roles = append(t.categories[n].Roles, roles...)
			return
		}
	}

	t.categories = append(t.categories, Category{Name: name, Roles: roles})
}

// mergeAliases adds aliases to lookup. An alias never shadows a role name, and is dropped if its role doesn't exist.
func (t *Taxonomy) mergeAliases(aliases map[string]string) {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		alias := normalize(k)
		if len(alias) == 0 {
			continue
		}
		if _, taken := t.lookup[alias]; taken {
			continue
		}
		if role, ok := t.lookup[normalize(aliases[k])]; ok {
			t.lookup[alias] = role
		}
	}
}

// Lookup resolves a single token (role name or alias) to its role
func (t *Taxonomy) Lookup(token string) (discord.Role, bool) {
	r, ok := t.lookup[normalize(token)]
	return r, ok
}

// Categories returns a copy of the categories in listing order
func (t *Taxonomy) Categories() []Category {
	c := make([]Category, len(t.categories))
	for n, category := range t.categories {
		c[n] = Category{Name: category.Name, Roles: append([]discord.Role{}, category.Roles...)}
	}
	return c
}

func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		names = append(names, c.Name)
	}
	return names
}

// Uncategorized returns the assignable roles listed after the last header
func (t *Taxonomy) Uncategorized() []discord.Role {
	return append([]discord.Role{}, t.uncategorized...)
}

func (t *Taxonomy) IsHeader(id discord.RoleID) bool {
	_, ok := t.headers[id]
	return ok
}

func (t *Taxonomy) IsIgnored(id discord.RoleID) bool {
	_, ok := t.ignored[id]
	return ok
}

// Detect returns the unique roles named in text, in the order they were first mentioned
func (t *Taxonomy) Detect(text string) []discord.Role {
	detected := make([]discord.Role, 0)
	seen := make(map[discord.RoleID]struct{})

	for _, token := range Tokenize(text, t.opts.RemovalMarker) {
		r, ok := t.lookup[token]
		if !ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}

		seen[r.ID] = struct{}{}
		detected = append(detected, r)
	}

	return detected
}

// IsRemoval returns if text is a role removal request
func (t *Taxonomy) IsRemoval(text string) bool {
	return len(t.opts.RemovalMarker) > 0 && strings.HasPrefix(strings.TrimSpace(text), t.opts.RemovalMarker)
}

// languages returns the category that has to keep more than MinRetainedLanguages roles, if there is one
func (t *Taxonomy) languages() (Category, bool) {
	if len(t.opts.LanguagesCategory) == 0 {
		return Category{}, false
	}

	for _, c := range t.categories {
		if strings.EqualFold(c.Name, t.opts.LanguagesCategory) {
			return c, true
		}
	}
	return Category{}, false
}

// missing returns the names of every category that ids has no role in.
// All categories are checked, so the result does not depend on category order.
func (t *Taxonomy) missing(ids []discord.RoleID) []string {
	names := make([]string, 0)
	for _, c := range t.categories {
		if c.Count(ids) == 0 {
			names = append(names, c.Name)
		}
	}
	return names
}

// Tokenize splits text on whitespace, then drops the removal marker, trailing punctuation and emoji from every word.
// Tokens are lowercased, and empty tokens are discarded.
func Tokenize(text, removalMarker string) []string {
	tokens := make([]string, 0)
	for _, f := range strings.Fields(text) {
		if len(removalMarker) > 0 {
			f = strings.TrimPrefix(f, removalMarker)
		}
		f = strings.TrimRight(strings.TrimLeft(f, ",.:;"), ",.:;")

		if f = normalize(f); len(f) > 0 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func normalize(s string) string {
	return strings.ToLower(util.StripEmoji(s))
}

func headerName(name, marker string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, marker)
	name = strings.TrimSuffix(name, marker)
	return strings.TrimSpace(util.StripEmoji(name))
}
