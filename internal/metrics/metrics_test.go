package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		publishedAt string
		want        int
		wantErr     bool
	}{
		{name: "one year ago", publishedAt: "2023-06-01T12:00:00Z", want: 365},
		{name: "same moment", publishedAt: "2024-06-01T12:00:00Z", want: 0},
		{name: "future date floors to zero", publishedAt: "2024-07-01T00:00:00Z", want: 0},
		{name: "partial day rounds down", publishedAt: "2024-05-31T00:00:00Z", want: 1},
		{name: "offset timezone", publishedAt: "2024-05-30T12:00:00+02:00", want: 2},
		{name: "malformed", publishedAt: "not-a-date", want: 0, wantErr: true},
		{name: "empty", publishedAt: "", want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysSince(tt.publishedAt, now)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDailyAvgViews(t *testing.T) {
	assert.Equal(t, 5000.0, DailyAvgViews(5000, 0), "same-day video returns raw views")
	assert.Equal(t, 5000.0, DailyAvgViews(5000, -1))
	assert.Equal(t, 2500.0, DailyAvgViews(5000, 2))
	assert.Equal(t, 333.33, DailyAvgViews(1000, 3), "rounded to 2 decimals")
}

func TestImpactRatio(t *testing.T) {
	assert.Equal(t, 0.0, ImpactRatio(5000, 0), "zero subscribers is no signal")
	assert.Equal(t, 0.0, ImpactRatio(5000, -1))
	assert.Equal(t, 5.0, ImpactRatio(5000, 1000))
	assert.Equal(t, 0.2, ImpactRatio(100, 500))
	assert.Equal(t, 0.33, ImpactRatio(1, 3))
}

func TestLikeRatio(t *testing.T) {
	assert.Equal(t, 0.0, LikeRatio(10, 0))
	assert.Equal(t, 0.0, LikeRatio(10, -5))
	assert.Equal(t, 0.05, LikeRatio(50000, 1000000))
	assert.Equal(t, 0.3333, LikeRatio(1, 3), "rounded to 4 decimals")
	assert.Equal(t, 1.0, LikeRatio(100, 100))
}

func TestImpactLevelFor(t *testing.T) {
	assert.Equal(t, ImpactLevelHigh, ImpactLevelFor(5.0))
	assert.Equal(t, ImpactLevelHigh, ImpactLevelFor(3.0), "boundary is inclusive")
	assert.Equal(t, ImpactLevelMedium, ImpactLevelFor(2.99))
	assert.Equal(t, ImpactLevelMedium, ImpactLevelFor(1.0))
	assert.Equal(t, ImpactLevelLow, ImpactLevelFor(0.99))
	assert.Equal(t, ImpactLevelLow, ImpactLevelFor(0))
}
