package models

import (
	"testing"
	"time"
)

func TestEffectiveStatus(t *testing.T) {
	due := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status ContributionStatus
		now    time.Time
		grace  int
		want   ContributionStatus
	}{
		{
			name:   "pending before due date",
			status: ContributionPending,
			now:    due.AddDate(0, 0, -1),
			want:   ContributionPending,
		},
		{
			name:   "pending on due date",
			status: ContributionPending,
			now:    due,
			want:   ContributionPending,
		},
		{
			name:   "pending within grace",
			status: ContributionPending,
			now:    due.AddDate(0, 0, 3),
			grace:  3,
			want:   ContributionPending,
		},
		{
			name:   "late past grace",
			status: ContributionPending,
			now:    due.AddDate(0, 0, 4),
			grace:  3,
			want:   ContributionLate,
		},
		{
			name:   "late immediately with zero grace",
			status: ContributionPending,
			now:    due.AddDate(0, 0, 1),
			want:   ContributionLate,
		},
		{
			name:   "paid is sticky past the deadline",
			status: ContributionPaid,
			now:    due.AddDate(0, 1, 0),
			want:   ContributionPaid,
		},
		{
			name:   "verified is sticky",
			status: ContributionVerified,
			now:    due.AddDate(0, 1, 0),
			want:   ContributionVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contribution{DueDate: due, Status: tt.status}
			if got := c.EffectiveStatus(tt.now, tt.grace); got != tt.want {
				t.Errorf("EffectiveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}
