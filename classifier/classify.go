package classifier

import (
	"fmt"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"strings"
)

type Decision uint8

const (
	Reject Decision = iota
	Accept
	PartialRemoval
	InsufficientCoverage
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case PartialRemoval:
		return "partial removal"
	case InsufficientCoverage:
		return "insufficient coverage"
	default:
		return "reject"
	}
}

// Result is the outcome of classifying one message. Nothing is applied here, callers act on Add and Remove.
type Result struct {
	Decision Decision
	Detected []discord.Role
	Add      []discord.Role
	Remove   []discord.RoleID
	Missing  []string // category names without a role
	Reply    string
}

// Classify decides what should happen to a member with the current roles after they sent text.
// A quarantined member's message is always treated as an introduction, even if it starts with the removal marker.
func Classify(text string, current []discord.RoleID, quarantine discord.RoleID, t *Taxonomy) Result {
	detected := t.Detect(text)
	quarantined := quarantine.IsValid() && util.SliceContains(current, quarantine)

	if !quarantined && t.IsRemoval(text) {
		return t.classifyRemoval(detected, current)
	}

	missing := t.missing(roleIDs(detected))
	if len(missing) > 0 {
		return Result{
			Decision: Reject,
			Detected: detected,
			Add:      []discord.Role{},
			Missing:  missing,
			Reply:    t.rejectReply(detected, missing),
		}
	}

	res := Result{
		Decision: Accept,
		Detected: detected,
		Add:      detected,
		Remove:   []discord.RoleID{},
		Missing:  missing,
		Reply:    acceptReply(detected),
	}
	if quarantined {
		res.Remove = append(res.Remove, quarantine)
	}
	return res
}

func (t *Taxonomy) classifyRemoval(detected []discord.Role, current []discord.RoleID) Result {
	if len(detected) == 0 {
		return Result{
			Decision: Reject,
			Detected: detected,
			Add:      []discord.Role{},
			Reply:    "I couldn't find any roles to remove in your message. List the roles you want gone, e.g. `-python -rust`",
		}
	}

	remove := roleIDs(detected)
	after := make([]discord.RoleID, 0, len(current))
	for _, id := range current {
		if !util.SliceContains(remove, id) {
			after = append(after, id)
		}
	}

	missing := t.missing(after)
	enoughLanguages := true
	if languages, ok := t.languages(); ok {
		enoughLanguages = languages.Count(after) > t.opts.MinRetainedLanguages
	}

	if len(missing) > 0 || !enoughLanguages {
		reply := fmt.Sprintf("I can't remove those roles, you need to keep at least one role from each of %s",
			boldList(t.CategoryNames()))
		if len(t.opts.LanguagesCategory) > 0 {
			reply += fmt.Sprintf(", and more than %d roles from **%s**", t.opts.MinRetainedLanguages, t.opts.LanguagesCategory)
		}

		return Result{
			Decision: InsufficientCoverage,
			Detected: detected,
			Add:      []discord.Role{},
			Missing:  missing,
			Reply:    reply + ".",
		}
	}

	return Result{
		Decision: PartialRemoval,
		Detected: detected,
		Add:      []discord.Role{},
		Remove:   remove,
		Missing:  missing,
		Reply:    "I've removed the following roles:\n" + roleNames(detected),
	}
}

func acceptReply(roles []discord.Role) string {
	return "Hello, based on your introduction, you have automatically been assigned the following roles:\n" +
		roleNames(roles) +
		"\n\nIf you believe you are missing some roles or have received roles that do not apply to you, " +
		"please feel free to contact the moderation team."
}

func (t *Taxonomy) rejectReply(detected []discord.Role, missing []string) string {
	var sb strings.Builder
	sb.WriteString("Your introduction needs to mention at least one role from each of ")
	sb.WriteString(boldList(t.CategoryNames()))
	sb.WriteString(".\nYou are missing: ")
	sb.WriteString(boldList(missing))

	if len(detected) > 0 {
		sb.WriteString("\nSo far I found: ")
		sb.WriteString(strings.Join(namesOf(detected), ", "))
	}

	sb.WriteString("\nPlease try again with a new message.")
	return sb.String()
}

func roleIDs(roles []discord.Role) []discord.RoleID {
	ids := make([]discord.RoleID, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}

func namesOf(roles []discord.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

func roleNames(roles []discord.Role) string {
	return "- " + strings.Join(namesOf(roles), "\n- ")
}

func boldList(s []string) string {
	return "**" + strings.Join(s, "**, **") + "**"
}
