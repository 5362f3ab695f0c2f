package moderation

import (
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/util"
	"github.com/diamondburned/arikawa/v3/discord"
	"strconv"
	"strings"
	"time"
)

const (
	maxBanReason     = 510 // audit log reasons are capped at 512
	maxAuditLog      = 512
	maxFieldValue    = 1024
	tempbanMarker    = "tempban"
	userIDMinLength  = 15
	receiptEmbedsMax = 10 // per message
)

type lookupKind int

const (
	lookupReport  lookupKind = iota
	lookupUser               // reports issued by or against a user
	lookupSubject            // reports against a mentioned user
)

type lookupQuery struct {
	Kind lookupKind
	ID   int64
}

// NextReportID is one more than the highest existing report ID, so IDs are never reused after a recall
func NextReportID(reports []bot.IncidentReport) int64 {
	var max int64 = 0
	for _, r := range reports {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

func NewReport(reports []bot.IncidentReport, action, body string, issuer, subject discord.User, now time.Time) bot.IncidentReport {
	return bot.IncidentReport{
		ID:        NextReportID(reports),
		Action:    action,
		IssuerID:  int64(issuer.ID),
		Issuer:    issuer.Tag(),
		SubjectID: int64(subject.ID),
		Subject:   subject.Tag(),
		Body:      body,
		Time:      now,
	}
}

// BanReason replaces reasons that would not fit in the audit log with a pointer to the report
func BanReason(reason string, reportID int64) string {
	if len(reason) > maxBanReason {
		return fmt.Sprintf("Ban reason exceeded 512 characters. Please review report #%v", reportID)
	}
	return reason
}

// EncodeTempban marks a ban reason with its expiry, e.g. "tempban 1650000000 | spamming"
func EncodeTempban(expires time.Time, reason string) string {
	s := fmt.Sprintf("%s %v | %s", tempbanMarker, expires.Unix(), reason)
	return util.TruncateString(s, maxAuditLog, "...")
}

// ParseTempban is the inverse of EncodeTempban. ok is false for regular bans.
func ParseTempban(reason string) (expires time.Time, original string, ok bool) {
	if !strings.HasPrefix(reason, tempbanMarker+" ") {
		return time.Time{}, "", false
	}

	rest := strings.TrimPrefix(reason, tempbanMarker+" ")
	timestamp, original, _ := strings.Cut(rest, "|")

	unix, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil {
		return time.Time{}, "", false
	}

	return time.Unix(unix, 0), strings.TrimSpace(original), true
}

func TempbanExpired(reason string, now time.Time) bool {
	expires, _, ok := ParseTempban(reason)
	return ok && !now.Before(expires)
}

// HackbanReason is the reason used when a temporary ban is made permanent
func HackbanReason(comment, tempbanReason string) string {
	_, original, ok := ParseTempban(tempbanReason)
	if !ok {
		original = tempbanReason
	}

	return fmt.Sprintf("Tempban verified and converted to permaban. Additional comment: %s\nOriginal reason: %s", comment, original)
}

func parseLookup(arg string) (lookupQuery, *bot.Error) {
	if strings.HasPrefix(arg, "<@") {
		id, err := strconv.ParseInt(strings.Trim(arg, "<@!>"), 10, 64)
		if err != nil {
			return lookupQuery{}, bot.SyntaxError("parseLookup", arg)
		}
		return lookupQuery{Kind: lookupSubject, ID: id}, nil
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id < 1 {
		return lookupQuery{}, bot.GenericSyntaxError("parseLookup", arg, "expected a report ID, user ID or mention")
	}

	if len(arg) >= userIDMinLength {
		return lookupQuery{Kind: lookupUser, ID: id}, nil
	}
	return lookupQuery{Kind: lookupReport, ID: id}, nil
}

// findReports returns the reports matching q, oldest first
func findReports(reports []bot.IncidentReport, q lookupQuery) []bot.IncidentReport {
	found := make([]bot.IncidentReport, 0)
	for _, r := range reports {
		switch q.Kind {
		case lookupReport:
			if r.ID == q.ID {
				found = append(found, r)
			}
		case lookupUser:
			if r.IssuerID == q.ID || r.SubjectID == q.ID {
				found = append(found, r)
			}
		case lookupSubject:
			if r.SubjectID == q.ID {
				found = append(found, r)
			}
		}
	}
	return found
}

// removeReport returns reports without the one with id, and whether it was found
func removeReport(reports []bot.IncidentReport, id int64) ([]bot.IncidentReport, bool) {
	kept := make([]bot.IncidentReport, 0, len(reports))
	found := false
	for _, r := range reports {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	return kept, found
}

func ReceiptEmbed(r bot.IncidentReport, extra ...discord.EmbedField) discord.Embed {
	body := r.Body
	if len(body) == 0 {
		body = "No reason given"
	}

	fields := []discord.EmbedField{
		{Name: "Issued By:", Value: r.Issuer, Inline: true},
		{Name: "Subject:", Value: r.Subject, Inline: true},
		{Name: "Action", Value: r.Action, Inline: true},
		{Name: "Reason", Value: util.TruncateString(body, maxFieldValue, "..."), Inline: true},
	}

	embed := discord.Embed{
		Title:       "Incident Report",
		Description: fmt.Sprintf("Case Number: %v", r.ID),
		Fields:      append(fields, extra...),
		Color:       bot.ReportColor,
	}
	if !r.Time.IsZero() {
		embed.Timestamp = discord.NewTimestamp(r.Time)
	}
	return embed
}
