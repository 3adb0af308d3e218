// Package format renders counts, rates and durations for the console.
package format

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"
)

const secondsPerYear = 365.25 * 24 * 3600

// Rate formats a hash rate, e.g. "12.5 MH/s"
func Rate(hashesPerSec float64) string {
	return humanize.SIWithDigits(hashesPerSec, 2, "H/s")
}

// Count formats an operation count with thousands separators
func Count(n uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

// BigCount formats a search-space size with thousands separators
func BigCount(z *uint256.Int) string {
	return humanize.BigComma(z.ToBig())
}

// Duration formats whole seconds as "1h 2m 3s", "2m 3s" or "3s".
// Spans beyond a century are given in years.
func Duration(seconds float64) string {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		return "0s"
	case math.IsInf(seconds, 1):
		return "forever"
	case seconds >= 100*secondsPerYear:
		return humanize.CommafWithDigits(seconds/secondsPerYear, 0) + " years"
	}

	s := uint64(seconds)
	hours := s / 3600
	minutes := (s % 3600) / 60
	secs := s % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
