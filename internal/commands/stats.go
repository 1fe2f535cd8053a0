package commands

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StatDef maps a leaderboard key to a tracker stat field.
type StatDef struct {
	Key   string // option value, e.g. "kd"
	Field string // tracker field, e.g. "kdRatio"
	Label string // display label, e.g. "K/D"
}

// Stats lists the leaderboard stats in menu order.
var Stats = []StatDef{
	{Key: "kd", Field: "kdRatio", Label: "K/D"},
	{Key: "spm", Field: "scorePerMinute", Label: "Score/Min"},
	{Key: "kpm", Field: "killsPerMinute", Label: "Kills/Min"},
	{Key: "kills", Field: "kills", Label: "Kills"},
	{Key: "wins", Field: "matchesWon", Label: "Wins"},
	{Key: "winrate", Field: "wlPercentage", Label: "Win %"},
	{Key: "hs", Field: "headshotPercentage", Label: "HS %"},
}

// LookupStat finds a stat by key.
func LookupStat(key string) (StatDef, bool) {
	for _, s := range Stats {
		if s.Key == key {
			return s, true
		}
	}
	return StatDef{}, false
}

var decimalFields = map[string]bool{
	"kdRatio":        true,
	"scorePerMinute": true,
	"killsPerMinute": true,
}

// numbers groups thousands with commas.
var numbers = message.NewPrinter(language.English)

// FormatStat renders value for field: percentages as "12.34%", ratios as
// "1,234.57", everything else as a truncated integer with thousands separators.
func FormatStat(value float64, field string) string {
	switch {
	case strings.Contains(field, "Percentage"):
		return numbers.Sprintf("%.2f%%", value)
	case decimalFields[field]:
		return numbers.Sprintf("%.2f", value)
	default:
		return numbers.Sprintf("%d", int64(math.Trunc(value)))
	}
}
