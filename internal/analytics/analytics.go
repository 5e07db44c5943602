// Package analytics derives channel signals from normalized video records.
// Every function here is pure: inputs are never mutated and any input,
// including an empty slice, yields a displayable string.
package analytics

import (
	"math"
	"math/big"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/grvbrk/tubepulse/internal/models"
)

const (
	LengthUnknown     = "Unknown"
	CadenceNeedsData  = "Needs data"
	CadenceIrregular  = "Irregular"
	CadenceMultiDaily = "Multiple uploads per day"
)

var durationHint = regexp.MustCompile(`(\d+):(\d+)`)

// AverageLength estimates the average video length from the first mm:ss hint
// found in each description. Records without a hint are left out.
func AverageLength(videos []models.Video) string {
	var total float64
	matched := 0

	for _, v := range videos {
		m := durationHint.FindStringSubmatch(v.Description)
		if m == nil {
			continue
		}
		total += parseGroup(m[1]) + parseGroup(m[2])/60
		matched++
	}

	if matched == 0 {
		return LengthUnknown
	}
	return formatOneDecimal(total/float64(matched)) + " min"
}

// Cadence estimates the average interval between uploads from publish
// timestamps. Timestamps that cannot be parsed are skipped.
func Cadence(videos []models.Video) string {
	if len(videos) < 2 {
		return CadenceNeedsData
	}

	instants := make([]time.Time, 0, len(videos))
	for _, v := range videos {
		if ts, ok := ParseTimestamp(v.PublishedAt); ok {
			instants = append(instants, ts)
		}
	}
	if len(instants) < 2 {
		return CadenceIrregular
	}

	// Most recent first; the caller's slice order is untouched.
	slices.SortFunc(instants, func(a, b time.Time) int { return b.Compare(a) })

	var sumMs float64
	for i := 0; i < len(instants)-1; i++ {
		sumMs += float64(instants[i].Sub(instants[i+1]).Milliseconds())
	}
	avgMs := sumMs / float64(len(instants)-1)
	days := avgMs / float64((24 * time.Hour).Milliseconds())

	switch {
	case math.IsNaN(days) || days <= 0:
		return CadenceIrregular
	case days < 1:
		return CadenceMultiDaily
	default:
		return formatOneDecimal(days) + " days per upload"
	}
}

// Summarize bundles the channel signals shown alongside a channel feed.
func Summarize(videos []models.Video) models.ChannelAnalytics {
	s := models.ChannelAnalytics{
		AvgLength:  AverageLength(videos),
		Cadence:    Cadence(videos),
		SampleSize: len(videos),
	}
	if len(videos) > 0 {
		s.LatestUpload = videos[0].Title
	}
	return s
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 shapes feeds publish. Values without a
// zone are read as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseGroup(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// formatOneDecimal rounds the exact binary value of v to one decimal place.
// Only exact ties round away from zero, so 2.15 (stored as 2.1499...) gives
// "2.1" while 9.25 gives "9.3".
func formatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, big.NewFloat(10))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	whole.Add(whole, big.NewInt(1))
	q, r := new(big.Int).QuoRem(whole, big.NewInt(10), new(big.Int))
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + q.String() + "." + r.String()
}
