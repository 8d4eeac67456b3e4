// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReviewSummaryEmpty(t *testing.T) {
	summary := ComputeReviewSummary(nil)

	assert.True(t, summary.IsNew)
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, 0.0, summary.Average)
	assert.Equal(t, 0, summary.Stars)
	for star := 1; star <= 5; star++ {
		assert.Equal(t, 0.0, summary.Histogram[star])
	}
}

func TestComputeReviewSummaryMean(t *testing.T) {
	summary := ComputeReviewSummary([]int{5, 4, 3})

	assert.False(t, summary.IsNew)
	assert.Equal(t, 3, summary.Count)
	assert.InDelta(t, 4.0, summary.Average, 0.0001)
	assert.Equal(t, 4, summary.Stars)
}

func TestComputeReviewSummaryTiesRoundUp(t *testing.T) {
	// 4.5 shows five stars
	summary := ComputeReviewSummary([]int{4, 5})
	assert.InDelta(t, 4.5, summary.Average, 0.0001)
	assert.Equal(t, 5, summary.Stars)

	// 3.5 shows four
	summary = ComputeReviewSummary([]int{3, 4})
	assert.Equal(t, 4, summary.Stars)

	// 4.4 rounds down
	summary = ComputeReviewSummary([]int{4, 4, 4, 4, 4, 5, 5, 4, 4, 5})
	assert.InDelta(t, 4.3, summary.Average, 0.0001)
	assert.Equal(t, 4, summary.Stars)
}

func TestComputeReviewSummaryHistogram(t *testing.T) {
	summary := ComputeReviewSummary([]int{5, 5, 4, 1})

	assert.InDelta(t, 50.0, summary.Histogram[5], 0.0001)
	assert.InDelta(t, 25.0, summary.Histogram[4], 0.0001)
	assert.InDelta(t, 0.0, summary.Histogram[3], 0.0001)
	assert.InDelta(t, 0.0, summary.Histogram[2], 0.0001)
	assert.InDelta(t, 25.0, summary.Histogram[1], 0.0001)
}

func TestComputeReviewSummarySingleRating(t *testing.T) {
	summary := ComputeReviewSummary([]int{1})

	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 1.0, summary.Average)
	assert.Equal(t, 1, summary.Stars)
	assert.InDelta(t, 100.0, summary.Histogram[1], 0.0001)
}
