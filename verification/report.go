package verification

import (
	"fmt"
	"github.com/5HT2/coding-bot/util"
	"strings"
)

// Report is the outcome of one sweep. Sending it anywhere is up to the caller.
type Report struct {
	ID         string
	Fixable    []Member // quarantined with extra roles, never kicked
	Warned     []Member
	WarnFailed []Member // warning DM could not be delivered
	Excluded   []Member // introduced themselves, got verified or left during the delay
	Kicked     []Member
	FailedDM   []Member // kicked (or attempted) without receiving the rejoin DM
	KickFailed []Member
	Cancelled  bool
}

// Summary renders the report for a text channel
func (r Report) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Verification sweep** `%s`", r.ID))
	if r.Cancelled {
		sb.WriteString(" (cancelled before kicking)")
	}
	sb.WriteString("\n")

	writeList(&sb, "Kicked", r.Kicked)
	writeList(&sb, "Failed to DM", r.FailedDM)
	writeList(&sb, "Failed to kick", r.KickFailed)
	writeList(&sb, "Warned", r.Warned)
	writeList(&sb, "Warning not delivered", r.WarnFailed)
	writeList(&sb, "Excluded after warning", r.Excluded)
	writeList(&sb, "Fixable (quarantined with extra roles)", r.Fixable)

	return util.TruncateString(strings.TrimSpace(sb.String()), maxMessageLength, "...")
}

// Empty returns if the sweep found nothing to report
func (r Report) Empty() bool {
	return len(r.Fixable)+len(r.Warned)+len(r.WarnFailed)+len(r.Excluded)+
		len(r.Kicked)+len(r.FailedDM)+len(r.KickFailed) == 0
}

func writeList(sb *strings.Builder, title string, members []Member) {
	sb.WriteString(fmt.Sprintf("%s: %d", title, len(members)))
	if len(members) > 0 {
		sb.WriteString(" (")
		sb.WriteString(util.SliceJoin(members, ", ", func(m Member) *string {
			return &m.Name
		}))
		sb.WriteString(")")
	}
	sb.WriteString("\n")
}
