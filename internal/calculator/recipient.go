package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
)

// Recipient resolves which member receives the payout for the given
// cycle index. The rotation always spans the round's configured size,
// so numberOfMembers sets the modulus even while the round is still
// filling; a slot whose holder has not joined yet is an error, not a
// wraparound onto the members admitted so far. Under fixed order the
// recipient is the member whose payout position equals the slot plus
// one. Under "random" order the members are sorted ascending by join
// time (ties by user ID) and the recipient is sorted[slot]. Either way
// every member is selected exactly once over one full rotation.
func Recipient(members []models.RoundMember, order models.PayoutOrder, numberOfMembers, cycleIndex int) (models.RoundMember, error) {
	if numberOfMembers <= 0 {
		return models.RoundMember{}, apperrors.Validation("number of members must be positive")
	}
	if cycleIndex < 0 {
		return models.RoundMember{}, apperrors.Validation("cycle index must not be negative")
	}
	if len(members) == 0 {
		return models.RoundMember{}, apperrors.State("round has no members")
	}

	slot := cycleIndex % numberOfMembers

	if order == models.PayoutOrderFixed {
		want := slot + 1
		for _, m := range members {
			if m.PayoutPosition == want {
				return m, nil
			}
		}
		return models.RoundMember{}, apperrors.NotFound(fmt.Sprintf("no member holds payout position %d", want))
	}

	sorted := make([]models.RoundMember, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].JoinedAt.Equal(sorted[j].JoinedAt) {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].JoinedAt.Before(sorted[j].JoinedAt)
	})
	if slot >= len(sorted) {
		return models.RoundMember{}, apperrors.NotFound(fmt.Sprintf("no member holds rotation slot %d", slot+1))
	}
	return sorted[slot], nil
}

// NextPosition returns the payout position for the next admitted member.
// Positions only exist under fixed order; the first member (the
// participating organizer) gets position 1 and each admission takes the
// next rank. Zero means no position is assigned.
func NextPosition(order models.PayoutOrder, currentMemberCount int) int {
	if order != models.PayoutOrderFixed {
		return 0
	}
	return currentMemberCount + 1
}
