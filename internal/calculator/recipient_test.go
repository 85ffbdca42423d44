package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
)

func TestRecipientFixed(t *testing.T) {
	members := []models.RoundMember{
		{UserID: "carol", PayoutPosition: 3},
		{UserID: "alice", PayoutPosition: 1},
		{UserID: "bob", PayoutPosition: 2},
	}

	tests := []struct {
		cycle int
		want  string
	}{
		{0, "alice"},
		{1, "bob"},
		{2, "carol"},
		{3, "alice"}, // wraps around
	}

	for _, tt := range tests {
		got, err := Recipient(members, models.PayoutOrderFixed, 3, tt.cycle)
		if err != nil {
			t.Fatalf("Recipient(cycle=%d) failed: %v", tt.cycle, err)
		}
		if got.UserID != tt.want {
			t.Errorf("Recipient(cycle=%d) = %s, want %s", tt.cycle, got.UserID, tt.want)
		}
	}
}

func TestRecipientPartiallyFilledRound(t *testing.T) {
	t.Run("fixed order", func(t *testing.T) {
		// Only the organizer has joined a 3-member round. Slot 0 is
		// theirs; slots 1 and 2 must not wrap back onto them.
		members := []models.RoundMember{{UserID: "alice", PayoutPosition: 1}}

		got, err := Recipient(members, models.PayoutOrderFixed, 3, 0)
		if err != nil {
			t.Fatalf("Recipient(cycle=0) failed: %v", err)
		}
		if got.UserID != "alice" {
			t.Errorf("Recipient(cycle=0) = %s, want alice", got.UserID)
		}

		for cycle := 1; cycle <= 2; cycle++ {
			_, err := Recipient(members, models.PayoutOrderFixed, 3, cycle)
			if !apperrors.IsKind(err, apperrors.KindNotFound) {
				t.Errorf("Recipient(cycle=%d) = %v, want not-found for unheld slot", cycle, err)
			}
		}
	})

	t.Run("join order", func(t *testing.T) {
		t0 := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
		members := []models.RoundMember{
			{UserID: "alice", JoinedAt: t0},
			{UserID: "bob", JoinedAt: t0.Add(time.Hour)},
		}
		if _, err := Recipient(members, models.PayoutOrderRandom, 3, 2); !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("Recipient(cycle=2) = %v, want not-found for unheld slot", err)
		}
	})
}

func TestRecipientJoinOrder(t *testing.T) {
	t0 := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	members := []models.RoundMember{
		{UserID: "carol", JoinedAt: t0.Add(2 * time.Hour)},
		{UserID: "alice", JoinedAt: t0},
		{UserID: "bob", JoinedAt: t0.Add(time.Hour)},
	}

	wantOrder := []string{"alice", "bob", "carol"}
	for cycle, want := range wantOrder {
		got, err := Recipient(members, models.PayoutOrderRandom, 3, cycle)
		if err != nil {
			t.Fatalf("Recipient(cycle=%d) failed: %v", cycle, err)
		}
		if got.UserID != want {
			t.Errorf("Recipient(cycle=%d) = %s, want %s", cycle, got.UserID, want)
		}
	}

	t.Run("ties break by user ID", func(t *testing.T) {
		tied := []models.RoundMember{
			{UserID: "zoe", JoinedAt: t0},
			{UserID: "amy", JoinedAt: t0},
		}
		got, err := Recipient(tied, models.PayoutOrderRandom, 2, 0)
		if err != nil {
			t.Fatalf("Recipient failed: %v", err)
		}
		if got.UserID != "amy" {
			t.Errorf("Recipient(cycle=0) = %s, want amy", got.UserID)
		}
	})

	t.Run("every member selected once per rotation", func(t *testing.T) {
		seen := map[string]int{}
		for cycle := 0; cycle < len(members); cycle++ {
			got, err := Recipient(members, models.PayoutOrderRandom, 3, cycle)
			if err != nil {
				t.Fatalf("Recipient failed: %v", err)
			}
			seen[got.UserID]++
		}
		for _, m := range members {
			if seen[m.UserID] != 1 {
				t.Errorf("member %s selected %d times, want 1", m.UserID, seen[m.UserID])
			}
		}
	})
}

func TestRecipientErrors(t *testing.T) {
	if _, err := Recipient(nil, models.PayoutOrderFixed, 3, 0); !apperrors.IsKind(err, apperrors.KindState) {
		t.Errorf("empty member list: got %v, want state error", err)
	}
	members := []models.RoundMember{{UserID: "alice", PayoutPosition: 1}}
	if _, err := Recipient(members, models.PayoutOrderFixed, 3, -1); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("negative cycle index: got %v, want validation error", err)
	}
	if _, err := Recipient(members, models.PayoutOrderFixed, 0, 0); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("zero round size: got %v, want validation error", err)
	}
}

func TestNextPosition(t *testing.T) {
	tests := []struct {
		name  string
		order models.PayoutOrder
		count int
		want  int
	}{
		{"fixed first member", models.PayoutOrderFixed, 0, 1},
		{"fixed third member", models.PayoutOrderFixed, 2, 3},
		{"join order assigns none", models.PayoutOrderRandom, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextPosition(tt.order, tt.count); got != tt.want {
				t.Errorf("NextPosition(%s, %d) = %d, want %d", tt.order, tt.count, got, tt.want)
			}
		})
	}
}
