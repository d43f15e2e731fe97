package scheduler

import (
	"testing"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestIncrementalMean_NoPrior(t *testing.T) {
	assert.Equal(t, 42.0, IncrementalMean(nil, 1, 42))
}

func TestIncrementalMean_FoldsObservation(t *testing.T) {
	// prior=30 over 2 samples, third sample 60
	// new = (30*2 + 60) / 3 = 40
	assert.InDelta(t, 40.0, IncrementalMean(fptr(30), 3, 60), 1e-9)
}

func TestIncrementalMean_FloorsN(t *testing.T) {
	assert.Equal(t, 50.0, IncrementalMean(fptr(10), 0, 50))
	assert.Equal(t, 50.0, IncrementalMean(fptr(10), -3, 50))
}

func TestIncrementalMean_SequenceMatchesArithmeticMean(t *testing.T) {
	samples := []int{25, 40, 55, 31, 47, 60}
	var avg *float64
	sum := 0
	for i, s := range samples {
		v := IncrementalMean(avg, i+1, s)
		avg = &v
		sum += s
	}
	assert.InDelta(t, float64(sum)/float64(len(samples)), *avg, 1e-9)
}

func TestDistortion_InsufficientData(t *testing.T) {
	assert.Nil(t, Distortion(30, nil, 10))
	assert.Nil(t, Distortion(30, fptr(60), MinDistortionSamples-1))
}

func TestDistortion_Flagged(t *testing.T) {
	info := Distortion(30, fptr(45), 5)
	require.NotNil(t, info)
	assert.True(t, info.Flag)
	assert.Equal(t, 50, info.Percent)

	info = Distortion(60, fptr(30), 8)
	require.NotNil(t, info)
	assert.True(t, info.Flag)
	assert.Equal(t, -50, info.Percent)
}

func TestDistortion_ThresholdBoundary(t *testing.T) {
	info := Distortion(100, fptr(130), 5)
	require.NotNil(t, info)
	assert.True(t, info.Flag, "exactly 30%% is flagged")

	info = Distortion(100, fptr(129), 5)
	require.NotNil(t, info)
	assert.False(t, info.Flag)
	assert.Equal(t, 29, info.Percent)
}

func TestBestSampledTag(t *testing.T) {
	stats := map[string]domain.TagStat{
		"math":  {Tag: "math", SampleCount: 4, AvgActualMinutes: 50},
		"essay": {Tag: "essay", SampleCount: 7, AvgActualMinutes: 80},
		"art":   {Tag: "art", SampleCount: 7, AvgActualMinutes: 20},
	}

	best, ok := BestSampledTag([]string{"math", "essay", "art"}, stats)
	require.True(t, ok)
	assert.Equal(t, "art", best.Tag, "ties go to the lexically smallest tag")

	_, ok = BestSampledTag([]string{"history"}, stats)
	assert.False(t, ok)
}

func TestRoundMinutes(t *testing.T) {
	assert.Equal(t, 43, RoundMinutes(42.5))
	assert.Equal(t, 1, RoundMinutes(0.2))
}
