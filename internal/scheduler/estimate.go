package scheduler

import (
	"math"

	"github.com/alexanderramin/rebound/internal/domain"
)

const (
	// MinDistortionSamples is the sample count below which a learned
	// average is reported as insufficient data.
	MinDistortionSamples = 5
	// DistortionThreshold is the relative gap between declared and learned
	// duration at which a tag or task is flagged.
	DistortionThreshold = 0.30
)

type DistortionInfo struct {
	Flag    bool
	Percent int // signed; positive means tasks run longer than declared
}

// IncrementalMean folds one more observation into a running mean.
// n is the sample count including the new observation and is floored to 1.
// Formula: new = (prior*(n-1) + actual) / n
func IncrementalMean(prior *float64, n int, actual int) float64 {
	if n < 1 {
		n = 1
	}
	if prior == nil {
		return float64(actual)
	}
	return (*prior*float64(n-1) + float64(actual)) / float64(n)
}

// Distortion compares a declared duration with a learned average.
// Returns nil when there is no learned average or too few samples.
func Distortion(expected int, actualAvg *float64, samples int) *DistortionInfo {
	if actualAvg == nil || samples < MinDistortionSamples || expected <= 0 {
		return nil
	}
	rel := (*actualAvg - float64(expected)) / float64(expected)
	return &DistortionInfo{
		Flag:    math.Abs(rel) >= DistortionThreshold,
		Percent: int(math.Round(rel * 100)),
	}
}

// BestSampledTag picks the tag of tags with the most samples in stats.
// Ties go to the lexically smallest tag.
func BestSampledTag(tags []string, stats map[string]domain.TagStat) (domain.TagStat, bool) {
	var best domain.TagStat
	found := false
	for _, tag := range tags {
		st, ok := stats[tag]
		if !ok || st.SampleCount == 0 {
			continue
		}
		if !found || st.SampleCount > best.SampleCount ||
			(st.SampleCount == best.SampleCount && st.Tag < best.Tag) {
			best = st
			found = true
		}
	}
	return best, found
}

// RoundMinutes rounds a fractional average to whole minutes, never below 1.
func RoundMinutes(avg float64) int {
	m := int(math.Round(avg))
	if m < 1 {
		return 1
	}
	return m
}
