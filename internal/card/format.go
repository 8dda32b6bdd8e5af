package card

import (
	"math"
	"strconv"
	"time"
)

var countUnits = []string{"K", "M", "B", "T"}

// FormatCount renders n in compact English notation: 999, 1K, 1.2K, 12K, 123K, 1.2M.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	if n < 1000 {
		return strconv.Itoa(n)
	}
	v := float64(n)
	i := -1
	for v >= 1000 && i < len(countUnits)-1 {
		v /= 1000
		i++
	}
	if v < 10 {
		r := math.Round(v*10) / 10
		if r < 10 {
			return strconv.FormatFloat(r, 'f', -1, 64) + countUnits[i]
		}
		v = r
	}
	r := math.Round(v)
	if r >= 1000 && i < len(countUnits)-1 {
		return "1" + countUnits[i+1]
	}
	return strconv.Itoa(int(r)) + countUnits[i]
}

// formatDate renders t as M/D/YYYY in UTC.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format("1/2/2006")
}
