package teams

import (
	"strings"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// teamAliases maps lowercase nicknames and abbreviations to the full
// team name used by the odds vendor. The schedule vendor and the odds
// vendor disagree on a handful of names (notably the LA teams), so all
// cross-vendor comparisons go through Normalize.
var teamAliases = map[string]string{
	"hawks": "Atlanta Hawks", "atl": "Atlanta Hawks",
	"celtics": "Boston Celtics", "bos": "Boston Celtics",
	"nets": "Brooklyn Nets", "bkn": "Brooklyn Nets",
	"hornets": "Charlotte Hornets", "cha": "Charlotte Hornets",
	"bulls": "Chicago Bulls", "chi": "Chicago Bulls",
	"cavaliers": "Cleveland Cavaliers", "cavs": "Cleveland Cavaliers", "cle": "Cleveland Cavaliers",
	"mavericks": "Dallas Mavericks", "mavs": "Dallas Mavericks", "dal": "Dallas Mavericks",
	"nuggets": "Denver Nuggets", "den": "Denver Nuggets",
	"pistons": "Detroit Pistons", "det": "Detroit Pistons",
	"warriors": "Golden State Warriors", "gsw": "Golden State Warriors",
	"rockets": "Houston Rockets", "hou": "Houston Rockets",
	"pacers": "Indiana Pacers", "ind": "Indiana Pacers",
	"clippers": "Los Angeles Clippers", "lac": "Los Angeles Clippers", "la clippers": "Los Angeles Clippers",
	"lakers": "Los Angeles Lakers", "lal": "Los Angeles Lakers", "la lakers": "Los Angeles Lakers",
	"grizzlies": "Memphis Grizzlies", "mem": "Memphis Grizzlies",
	"heat": "Miami Heat", "mia": "Miami Heat",
	"bucks": "Milwaukee Bucks", "mil": "Milwaukee Bucks",
	"timberwolves": "Minnesota Timberwolves", "wolves": "Minnesota Timberwolves", "min": "Minnesota Timberwolves",
	"pelicans": "New Orleans Pelicans", "nop": "New Orleans Pelicans",
	"knicks": "New York Knicks", "nyk": "New York Knicks",
	"thunder": "Oklahoma City Thunder", "okc": "Oklahoma City Thunder",
	"magic": "Orlando Magic", "orl": "Orlando Magic",
	"76ers": "Philadelphia 76ers", "sixers": "Philadelphia 76ers", "phi": "Philadelphia 76ers",
	"suns": "Phoenix Suns", "phx": "Phoenix Suns",
	"blazers": "Portland Trail Blazers", "trail blazers": "Portland Trail Blazers", "por": "Portland Trail Blazers",
	"kings": "Sacramento Kings", "sac": "Sacramento Kings",
	"spurs": "San Antonio Spurs", "sas": "San Antonio Spurs",
	"raptors": "Toronto Raptors", "tor": "Toronto Raptors",
	"jazz": "Utah Jazz", "uta": "Utah Jazz",
	"wizards": "Washington Wizards", "was": "Washington Wizards",
}

// Normalize resolves any vendor form of a team name (full name,
// city-prefixed nickname, abbreviation) to the odds vendor's full name.
// Unknown names pass through unchanged.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if full, ok := teamAliases[key]; ok {
		return full
	}
	// Fall back to the nickname, the last word of a full name
	if i := strings.LastIndex(key, " "); i >= 0 {
		if full, ok := teamAliases[key[i+1:]]; ok {
			return full
		}
	}
	return name
}

func Match(a, b string) bool {
	return strings.EqualFold(Normalize(a), Normalize(b))
}

// FindEventOdds locates the odds event for a scheduled game by matching
// both team names. Returns nil when the vendor has no market for it.
func FindEventOdds(game models.Game, events []models.EventOdds) *models.EventOdds {
	for i := range events {
		if Match(game.HomeTeam.Name, events[i].HomeTeam) &&
			Match(game.AwayTeam.Name, events[i].AwayTeam) {
			return &events[i]
		}
	}
	return nil
}
