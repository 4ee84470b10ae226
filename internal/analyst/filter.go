package analyst

import "github.com/XavierBriggs/Oracle/pkg/models"

// FilterConfig bounds which underdogs are worth analyzing. The sweet
// spot is mid-size spreads and moneyline dogs in the +150 to +300 band.
type FilterConfig struct {
	MinSpread float64
	MaxSpread float64
	MinMLOdds int
	MaxMLOdds int
}

// DefaultFilterConfig returns the standard underdog filter bounds
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinSpread: 3.5,
		MaxSpread: 7.5,
		MinMLOdds: 150,
		MaxMLOdds: 300,
	}
}

// FilterUnderdog reports whether a book's line presents an underdog in
// the target range for the given bet type
func (f FilterConfig) FilterUnderdog(odds models.Odds, betType models.BetType) bool {
	if betType == models.BetTypeSpread {
		// The underdog side carries the positive spread
		spread := odds.AwaySpread
		if spread <= 0 {
			spread = odds.HomeSpread
		}
		if spread <= 0 {
			return false
		}
		return f.MinSpread <= spread && spread <= f.MaxSpread
	}

	ml := odds.AwayML
	if ml <= 0 {
		ml = odds.HomeML
	}
	if ml <= 0 {
		return false
	}
	return f.MinMLOdds <= ml && ml <= f.MaxMLOdds
}
