package moderation

import (
	"strings"
	"testing"
	"time"

	"github.com/5HT2/coding-bot/bot"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	issuer  = discord.User{ID: 100000000000000001, Username: "mod", Discriminator: "0001"}
	subject = discord.User{ID: 100000000000000002, Username: "troll", Discriminator: "0002"}
)

func testReports() []bot.IncidentReport {
	return []bot.IncidentReport{
		{ID: 1, Action: "Kick", IssuerID: int64(issuer.ID), SubjectID: int64(subject.ID)},
		{ID: 4, Action: "Ban", IssuerID: int64(issuer.ID), SubjectID: 3},
		{ID: 2, Action: "Warn", IssuerID: 3, SubjectID: int64(issuer.ID)},
	}
}

func TestNextReportID(t *testing.T) {
	assert.Equal(t, int64(1), NextReportID(nil))
	assert.Equal(t, int64(5), NextReportID(testReports()))

	// A recalled report's ID is not handed out again
	reports, ok := removeReport(testReports(), 4)
	require.True(t, ok)
	assert.Equal(t, int64(3), NextReportID(reports))
}

func TestNewReport(t *testing.T) {
	now := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewReport(testReports(), "Kick", "spam", issuer, subject, now)

	assert.Equal(t, int64(5), r.ID)
	assert.Equal(t, "mod#0001", r.Issuer)
	assert.Equal(t, "troll#0002", r.Subject)
	assert.Equal(t, int64(subject.ID), r.SubjectID)
	assert.Equal(t, now, r.Time)
}

func TestBanReason(t *testing.T) {
	assert.Equal(t, "spam", BanReason("spam", 3))

	long := strings.Repeat("a", 511)
	assert.Equal(t, "Ban reason exceeded 512 characters. Please review report #3", BanReason(long, 3))
	assert.Equal(t, strings.Repeat("a", 510), BanReason(strings.Repeat("a", 510), 3))
}

func TestTempbanEncoding(t *testing.T) {
	expires := time.Unix(1650000000, 0)
	reason := EncodeTempban(expires, "spamming | again")
	assert.Equal(t, "tempban 1650000000 | spamming | again", reason)

	parsed, original, ok := ParseTempban(reason)
	require.True(t, ok)
	assert.True(t, parsed.Equal(expires))
	assert.Equal(t, "spamming | again", original)

	_, _, ok = ParseTempban("being rude")
	assert.False(t, ok)
	_, _, ok = ParseTempban("tempban soon | x")
	assert.False(t, ok)

	assert.LessOrEqual(t, len(EncodeTempban(expires, strings.Repeat("a", 600))), 512)
}

func TestTempbanExpired(t *testing.T) {
	reason := EncodeTempban(time.Unix(1000, 0), "x")

	assert.False(t, TempbanExpired(reason, time.Unix(999, 0)))
	assert.True(t, TempbanExpired(reason, time.Unix(1000, 0)))
	assert.True(t, TempbanExpired(reason, time.Unix(5000, 0)))
	assert.False(t, TempbanExpired("regular ban", time.Unix(5000, 0)))
}

func TestHackbanReason(t *testing.T) {
	assert.Equal(t,
		"Tempban verified and converted to permaban. Additional comment: confirmed\nOriginal reason: raiding",
		HackbanReason("confirmed", EncodeTempban(time.Unix(1000, 0), "raiding")))
}

func TestParseLookup(t *testing.T) {
	tests := []struct {
		arg  string
		want lookupQuery
	}{
		{"4", lookupQuery{Kind: lookupReport, ID: 4}},
		{"#4", lookupQuery{Kind: lookupReport, ID: 4}},
		{"100000000000000002", lookupQuery{Kind: lookupUser, ID: 100000000000000002}},
		{"<@100000000000000002>", lookupQuery{Kind: lookupSubject, ID: 100000000000000002}},
		{"<@!100000000000000002>", lookupQuery{Kind: lookupSubject, ID: 100000000000000002}},
	}

	for _, tc := range tests {
		q, err := parseLookup(tc.arg)
		require.Nil(t, err, tc.arg)
		assert.Equal(t, tc.want, q, tc.arg)
	}

	_, err := parseLookup("troll")
	assert.NotNil(t, err)
	_, err = parseLookup("0")
	assert.NotNil(t, err)
}

func TestFindReports(t *testing.T) {
	ids := func(reports []bot.IncidentReport) []int64 {
		res := make([]int64, 0)
		for _, r := range reports {
			res = append(res, r.ID)
		}
		return res
	}

	reports := testReports()
	assert.Equal(t, []int64{4}, ids(findReports(reports, lookupQuery{Kind: lookupReport, ID: 4})))
	assert.Equal(t, []int64{1, 4, 2}, ids(findReports(reports, lookupQuery{Kind: lookupUser, ID: int64(issuer.ID)})))
	assert.Equal(t, []int64{2}, ids(findReports(reports, lookupQuery{Kind: lookupSubject, ID: int64(issuer.ID)})))
	assert.Empty(t, findReports(reports, lookupQuery{Kind: lookupReport, ID: 9}))
}

func TestRemoveReport(t *testing.T) {
	reports, ok := removeReport(testReports(), 9)
	assert.False(t, ok)
	assert.Len(t, reports, 3)

	reports, ok = removeReport(testReports(), 1)
	assert.True(t, ok)
	assert.Len(t, reports, 2)
}

func TestReceiptEmbed(t *testing.T) {
	r := NewReport(nil, "Temporary Ban", strings.Repeat("x", 2000), issuer, subject, time.Now())
	embed := ReceiptEmbed(r, discord.EmbedField{Name: "Target received warning DM", Value: "false"})

	assert.Equal(t, "Incident Report", embed.Title)
	assert.Equal(t, "Case Number: 1", embed.Description)
	assert.Equal(t, bot.ReportColor, embed.Color)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "Issued By:", embed.Fields[0].Name)
	assert.Equal(t, "mod#0001", embed.Fields[0].Value)
	assert.Equal(t, "Temporary Ban", embed.Fields[2].Value)
	assert.Len(t, embed.Fields[3].Value, 1024)
	assert.Equal(t, "Target received warning DM", embed.Fields[4].Name)

	empty := ReceiptEmbed(bot.IncidentReport{ID: 2, Action: "Warn"})
	assert.Equal(t, "No reason given", empty.Fields[3].Value)
	assert.False(t, empty.Timestamp.IsValid())
}
