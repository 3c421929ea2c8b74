package aging

import (
	"math"
	"testing"
	"time"

	"roomly/pkg/model"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want float64
	}{
		{
			name: "defaults",
			cfg:  Default(),
			want: 12,
		},
		{
			name: "zero span clamps to one",
			cfg:  Config{MaxWaitHours: 48, PriorityHigh: 3, PriorityLow: 3},
			want: 48,
		},
		{
			name: "inverted bounds use absolute span",
			cfg:  Config{MaxWaitHours: 48, PriorityHigh: 1, PriorityLow: 5},
			want: 12,
		},
		{
			name: "custom window",
			cfg:  Config{MaxWaitHours: 24, PriorityHigh: 5, PriorityLow: 1},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Factor(); got != tt.want {
				t.Errorf("Factor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	cfg := Default()

	tests := []struct {
		name  string
		entry *model.WaitingEntry
		want  float64
	}{
		{
			name:  "two hours of waiting",
			entry: &model.WaitingEntry{BasePriority: 1, CreatedAt: now.Add(-2 * time.Hour)},
			want:  1 + 2.0/12.0,
		},
		{
			name:  "just created",
			entry: &model.WaitingEntry{BasePriority: 1, CreatedAt: now},
			want:  1.0,
		},
		{
			name:  "created in the future clamps to zero wait",
			entry: &model.WaitingEntry{BasePriority: 2, CreatedAt: now.Add(time.Hour)},
			want:  2.0,
		},
		{
			name:  "full window gains the whole span",
			entry: &model.WaitingEntry{BasePriority: 1, CreatedAt: now.Add(-48 * time.Hour)},
			want:  5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.Score(tt.entry, now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	cfg := Default()
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	entry := &model.WaitingEntry{BasePriority: 1, CreatedAt: created}

	prev := cfg.Score(entry, created)
	for hours := 1; hours <= 72; hours++ {
		now := created.Add(time.Duration(hours) * time.Hour)
		got := cfg.Score(entry, now)
		if got < prev {
			t.Fatalf("score decreased from %v to %v at +%dh", prev, got, hours)
		}
		prev = got
	}
}
