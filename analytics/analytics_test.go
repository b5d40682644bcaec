package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRate(t *testing.T) {
	tests := []struct {
		name      string
		inquiries int64
		views     int64
		want      float64
	}{
		{name: "zero views yields zero, not a division error", inquiries: 10, views: 0, want: 0},
		{name: "zero inquiries", inquiries: 0, views: 500, want: 0},
		{name: "simple", inquiries: 5, views: 200, want: 2.5},
		{name: "rounded to one decimal", inquiries: 1, views: 3, want: 33.3},
		{name: "over 100 percent", inquiries: 300, views: 200, want: 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConversionRate(tt.inquiries, tt.views))
		})
	}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		// The previous==0 convention is 0, uniformly, even when the
		// current period has activity.
		{name: "zero previous", current: 50, previous: 0, want: 0},
		{name: "zero previous and zero current", current: 0, previous: 0, want: 0},
		{name: "fifty percent up", current: 150, previous: 100, want: 50},
		{name: "decline", current: 50, previous: 100, want: -50},
		{name: "flat", current: 7, previous: 7, want: 0},
		{name: "rounded", current: 4, previous: 3, want: 33.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Growth(tt.current, tt.previous))
		})
	}
}

func TestWithShare(t *testing.T) {
	groups := []GroupCount{
		{ID: "Mumbai", Count: 60},
		{ID: "Pune", Count: 30},
		{ID: "Nagpur", Count: 10},
	}

	shares := WithShare(groups, 100)
	require.Len(t, shares, 3)
	assert.Equal(t, 60.0, shares[0].Percentage)
	assert.Equal(t, 30.0, shares[1].Percentage)
	assert.Equal(t, 10.0, shares[2].Percentage)
	assert.Equal(t, "Mumbai", shares[0].ID)
	assert.Equal(t, int64(60), shares[0].Count)
}

func TestWithShareZeroTotal(t *testing.T) {
	shares := WithShare([]GroupCount{{ID: "Mumbai", Count: 5}}, 0)
	require.Len(t, shares, 1)
	assert.Equal(t, 0.0, shares[0].Percentage)
}

func TestWithShareEmpty(t *testing.T) {
	shares := WithShare(nil, 42)
	assert.NotNil(t, shares)
	assert.Empty(t, shares)
}

func TestWithShareRounding(t *testing.T) {
	shares := WithShare([]GroupCount{{ID: "Studio", Count: 1}}, 3)
	require.Len(t, shares, 1)
	assert.Equal(t, 33.3, shares[0].Percentage)
}
