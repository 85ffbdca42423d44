package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/storage/sqlite"
)

// testNow is the frozen clock every service test runs at.
var testNow = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store         *sqlite.SQLiteStore
	rounds        *RoundService
	contributions *ContributionService
	proofs        *ProofService
	invites       *InviteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "rondo-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	recorder := notify.NewRecorder(store)
	notifier := notify.LogNotifier{}
	now := func() time.Time { return testNow }

	rounds := NewRoundService(store, recorder, notifier)
	rounds.now = now
	contributions := NewContributionService(store, rounds, recorder, notifier)
	contributions.now = now
	proofs := NewProofService(store, recorder, notifier)
	proofs.now = now
	invites := NewInviteService(store, recorder, notifier)
	invites.now = now

	return &testEnv{
		store:         store,
		rounds:        rounds,
		contributions: contributions,
		proofs:        proofs,
		invites:       invites,
	}
}

func (e *testEnv) createUser(t *testing.T, email string) string {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user.ID
}

func roundInput() CreateRoundInput {
	return CreateRoundInput{
		Name:                  "Office Susu",
		Currency:              "USD",
		ContributionAmount:    decimal.NewFromInt(50),
		Frequency:             models.FrequencyWeekly,
		NumberOfMembers:       3,
		PayoutOrder:           models.PayoutOrderFixed,
		StartType:             models.StartFuture,
		StartDate:             time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		GracePeriodDays:       3,
		Verification:          models.VerificationOptional,
		OrganizerParticipates: true,
	}
}

// fullRound creates a round, fills it with members and returns the
// member user IDs in join order (organizer first).
func (e *testEnv) fullRound(t *testing.T, organizerID string) (*RoundDetail, []string) {
	t.Helper()
	ctx := context.Background()

	detail, err := e.rounds.Create(ctx, organizerID, roundInput())
	if err != nil {
		t.Fatalf("Create round failed: %v", err)
	}

	userIDs := []string{organizerID}
	for _, email := range []string{"second@example.com", "third@example.com"} {
		userID := e.createUser(t, email)
		if _, err := e.invites.Redeem(ctx, userID, detail.InviteCode); err != nil {
			t.Fatalf("Redeem failed for %s: %v", email, err)
		}
		userIDs = append(userIDs, userID)
	}
	return detail, userIDs
}

func TestCreateRound(t *testing.T) {
	ctx := context.Background()

	t.Run("immediate start anchors to now", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")

		in := roundInput()
		in.StartType = models.StartImmediate
		in.StartDate = time.Time{}

		detail, err := env.rounds.Create(ctx, organizer, in)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !detail.Round.StartDate.Equal(testNow) {
			t.Errorf("StartDate = %v, want %v", detail.Round.StartDate, testNow)
		}
		if detail.InviteCode == "" {
			t.Error("Expected an invite code")
		}
		if detail.MemberCount != 1 {
			t.Errorf("MemberCount = %d, want 1 (participating organizer)", detail.MemberCount)
		}
	})

	t.Run("non-participating organizer holds no seat", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")

		in := roundInput()
		in.OrganizerParticipates = false

		detail, err := env.rounds.Create(ctx, organizer, in)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if detail.MemberCount != 0 {
			t.Errorf("MemberCount = %d, want 0", detail.MemberCount)
		}

		// The organizer still has full access.
		if _, err := env.rounds.Get(ctx, organizer, detail.Round.ID); err != nil {
			t.Errorf("Organizer Get failed: %v", err)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")

		in := roundInput()
		in.NumberOfMembers = 1
		if _, err := env.rounds.Create(ctx, organizer, in); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("Expected validation error for 1 member, got %v", err)
		}

		in = roundInput()
		in.ContributionAmount = decimal.Zero
		if _, err := env.rounds.Create(ctx, organizer, in); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("Expected validation error for zero amount, got %v", err)
		}
	})
}

func TestJoinViaInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("positions follow join order", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")
		detail, _ := env.fullRound(t, organizer)

		members, err := env.store.ListMembers(ctx, detail.Round.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("Got %d members, want 3", len(members))
		}
		positions := map[int]bool{}
		for _, m := range members {
			positions[m.PayoutPosition] = true
		}
		for want := 1; want <= 3; want++ {
			if !positions[want] {
				t.Errorf("No member holds payout position %d", want)
			}
		}
	})

	t.Run("full round rejects another member", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")
		detail, _ := env.fullRound(t, organizer)

		late := env.createUser(t, "late@example.com")
		_, err := env.invites.Redeem(ctx, late, detail.InviteCode)
		if !apperrors.IsKind(err, apperrors.KindConflict) {
			t.Errorf("Expected conflict joining a full round, got %v", err)
		}
	})

	t.Run("preview reports membership but never admits", func(t *testing.T) {
		env := newTestEnv(t)
		organizer := env.createUser(t, "org@example.com")
		detail, err := env.rounds.Create(ctx, organizer, roundInput())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		preview, err := env.invites.Preview(ctx, detail.InviteCode)
		if err != nil {
			t.Fatalf("Preview failed: %v", err)
		}
		if preview.MemberCount.Current != 1 || preview.MemberCount.Total != 3 {
			t.Errorf("MemberCount = %+v, want 1/3", preview.MemberCount)
		}

		count, _ := env.store.CountMembers(ctx, detail.Round.ID)
		if count != 1 {
			t.Errorf("Preview changed member count to %d", count)
		}
	})
}

func TestMarkPaidIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, _ := env.fullRound(t, organizer)

	views, err := env.contributions.ListForRound(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("ListForRound failed: %v", err)
	}
	var mine *ContributionView
	for i := range views {
		if views[i].UserID == organizer {
			mine = &views[i]
			break
		}
	}
	if mine == nil {
		t.Fatal("No contribution materialized for the organizer")
	}

	first, err := env.contributions.MarkPaid(ctx, organizer, mine.ID)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if first.EffectiveStatus != models.ContributionPaid {
		t.Errorf("Status = %s, want paid", first.EffectiveStatus)
	}

	second, err := env.contributions.MarkPaid(ctx, organizer, mine.ID)
	if err != nil {
		t.Fatalf("Second MarkPaid failed: %v", err)
	}
	if !second.PaidDate.Equal(first.PaidDate) {
		t.Errorf("PaidDate changed on repeat: %v -> %v", first.PaidDate, second.PaidDate)
	}

	t.Run("only the owner may mark", func(t *testing.T) {
		views, _ := env.contributions.ListForRound(ctx, organizer, detail.Round.ID)
		for _, v := range views {
			if v.UserID != organizer {
				_, err := env.contributions.MarkPaid(ctx, organizer, v.ID)
				if !apperrors.IsKind(err, apperrors.KindForbidden) {
					t.Errorf("Expected forbidden marking someone else's contribution, got %v", err)
				}
				return
			}
		}
	})
}

func TestProofWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, userIDs := env.fullRound(t, organizer)
	member := userIDs[1]

	views, err := env.contributions.ListForRound(ctx, member, detail.Round.ID)
	if err != nil {
		t.Fatalf("ListForRound failed: %v", err)
	}
	var contributionID string
	for _, v := range views {
		if v.UserID == member {
			contributionID = v.ID
			break
		}
	}
	if contributionID == "" {
		t.Fatal("No contribution materialized for the member")
	}

	t.Run("verified only through approval", func(t *testing.T) {
		if _, err := env.contributions.MarkPaid(ctx, member, contributionID); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		c, _ := env.store.GetContribution(ctx, contributionID)
		if c.Status == models.ContributionVerified {
			t.Fatal("Marking paid must not verify")
		}

		proof, err := env.proofs.Submit(ctx, member, contributionID, SubmitProofInput{
			Type: models.ProofImage,
			URL:  "https://storage.example.com/receipt.png",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if _, err := env.proofs.Approve(ctx, member, proof.ID); !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Errorf("Expected forbidden for non-organizer approval, got %v", err)
		}

		approved, err := env.proofs.Approve(ctx, organizer, proof.ID)
		if err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if approved.Status != models.ProofApproved {
			t.Errorf("Proof status = %s, want approved", approved.Status)
		}

		c, _ = env.store.GetContribution(ctx, contributionID)
		if c.Status != models.ContributionVerified {
			t.Errorf("Contribution status = %s, want verified", c.Status)
		}

		if _, err := env.proofs.Approve(ctx, organizer, proof.ID); !apperrors.IsKind(err, apperrors.KindState) {
			t.Errorf("Expected state error re-approving, got %v", err)
		}
	})

	t.Run("rejection keeps status and allows resubmission", func(t *testing.T) {
		var otherID string
		for _, v := range views {
			if v.UserID == member && v.ID != contributionID {
				otherID = v.ID
			}
		}
		if otherID == "" {
			// One cycle means one contribution per member; reuse a fresh member.
			other := userIDs[2]
			all, _ := env.contributions.ListForRound(ctx, other, detail.Round.ID)
			for _, v := range all {
				if v.UserID == other {
					otherID = v.ID
					member = other
					break
				}
			}
		}

		before, _ := env.store.GetContribution(ctx, otherID)

		proof, err := env.proofs.Submit(ctx, member, otherID, SubmitProofInput{
			Type:          models.ProofReference,
			ReferenceText: "TXN-2024-0042",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if _, err := env.proofs.Reject(ctx, organizer, proof.ID, ""); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("Expected validation error for empty reason, got %v", err)
		}

		rejected, err := env.proofs.Reject(ctx, organizer, proof.ID, "wrong reference")
		if err != nil {
			t.Fatalf("Reject failed: %v", err)
		}
		if rejected.Status != models.ProofRejected || rejected.RejectionReason != "wrong reference" {
			t.Errorf("Rejected proof = %+v", rejected)
		}

		after, _ := env.store.GetContribution(ctx, otherID)
		if after.Status != before.Status {
			t.Errorf("Contribution status changed on reject: %s -> %s", before.Status, after.Status)
		}

		resubmitted, err := env.proofs.Submit(ctx, member, otherID, SubmitProofInput{
			Type:          models.ProofReference,
			ReferenceText: "TXN-2024-0043",
		})
		if err != nil {
			t.Fatalf("Resubmit failed: %v", err)
		}
		current, err := env.proofs.Current(ctx, member, otherID)
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if current.ID != resubmitted.ID {
			t.Errorf("Current proof = %s, want resubmitted %s", current.ID, resubmitted.ID)
		}
	})
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, _ := env.fullRound(t, organizer)

	// now is Jan 10; the organizer's Jan 1 due date is past its Jan 4
	// deadline, the Jan 8 one is inside grace, Jan 15 is in the future.
	overview, err := env.rounds.Overview(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}

	progress := overview.ContributionProgress
	if progress.Total != 3 {
		t.Errorf("Total = %d, want 3", progress.Total)
	}
	if progress.Late != 1 {
		t.Errorf("Late = %d, want 1", progress.Late)
	}
	if progress.Pending != 2 {
		t.Errorf("Pending = %d, want 2", progress.Pending)
	}
	if overview.MemberCount.Current != 3 || overview.MemberCount.Total != 3 {
		t.Errorf("MemberCount = %+v, want 3/3", overview.MemberCount)
	}
	if overview.UserRole != string(models.RoleOrganizer) {
		t.Errorf("UserRole = %s, want organizer", overview.UserRole)
	}

	// The organizer's own contribution is overdue, so it wins.
	if overview.NextImportantDate == nil || !overview.NextImportantDate.Equal(testNow) {
		t.Errorf("NextImportantDate = %v, want now for overdue", overview.NextImportantDate)
	}

	t.Run("outsiders are rejected", func(t *testing.T) {
		outsider := env.createUser(t, "outsider@example.com")
		_, err := env.rounds.Overview(ctx, outsider, detail.Round.ID)
		if !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Errorf("Expected forbidden for outsider, got %v", err)
		}
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, _ := env.fullRound(t, organizer)

	dashboard, err := env.rounds.Dashboard(ctx, organizer)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dashboard.Status != "action-needed" {
		t.Errorf("Status = %s, want action-needed (overdue contribution)", dashboard.Status)
	}
	if dashboard.NextAction == nil || dashboard.NextAction.RoundID != detail.Round.ID {
		t.Errorf("NextAction = %+v, want round %s", dashboard.NextAction, detail.Round.ID)
	}

	t.Run("archived rounds stop signaling", func(t *testing.T) {
		if err := env.rounds.Archive(ctx, organizer, detail.Round.ID); err != nil {
			t.Fatalf("Archive failed: %v", err)
		}
		dashboard, err := env.rounds.Dashboard(ctx, organizer)
		if err != nil {
			t.Fatalf("Dashboard failed: %v", err)
		}
		if dashboard.Status != "healthy" {
			t.Errorf("Status = %s, want healthy after archive", dashboard.Status)
		}
		if dashboard.NextAction != nil {
			t.Errorf("NextAction = %+v, want none", dashboard.NextAction)
		}
	})
}

func TestArchive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, userIDs := env.fullRound(t, organizer)

	t.Run("members cannot archive", func(t *testing.T) {
		err := env.rounds.Archive(ctx, userIDs[1], detail.Round.ID)
		if !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("second archive is a state error", func(t *testing.T) {
		if err := env.rounds.Archive(ctx, organizer, detail.Round.ID); err != nil {
			t.Fatalf("Archive failed: %v", err)
		}
		err := env.rounds.Archive(ctx, organizer, detail.Round.ID)
		if !apperrors.IsKind(err, apperrors.KindState) {
			t.Errorf("Expected state error, got %v", err)
		}
	})
}

func TestCalendar(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	env.fullRound(t, organizer)

	entries, err := env.rounds.Calendar(ctx, organizer, "")
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}

	// One contribution of the caller's own plus three round payouts.
	var contributionEntries, payoutEntries int
	for _, e := range entries {
		switch e.EventType {
		case "contribution-due":
			contributionEntries++
		case "payout":
			payoutEntries++
		}
	}
	if contributionEntries != 1 {
		t.Errorf("Got %d contribution entries, want 1 (own only)", contributionEntries)
	}
	if payoutEntries != 3 {
		t.Errorf("Got %d payout entries, want 3", payoutEntries)
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Fatalf("Entries not ordered by date at %d", i)
		}
	}
}

func TestCompletePayout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, userIDs := env.fullRound(t, organizer)

	payouts, err := env.rounds.ListPayouts(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("ListPayouts failed: %v", err)
	}
	if len(payouts) != 3 {
		t.Fatalf("Got %d payouts, want 3", len(payouts))
	}
	want := decimal.NewFromInt(150)
	if !payouts[0].Amount.Equal(want) {
		t.Errorf("Pot = %s, want %s", payouts[0].Amount, want)
	}

	t.Run("members cannot complete", func(t *testing.T) {
		_, err := env.rounds.CompletePayout(ctx, userIDs[1], payouts[0].ID)
		if !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("complete once", func(t *testing.T) {
		done, err := env.rounds.CompletePayout(ctx, organizer, payouts[0].ID)
		if err != nil {
			t.Fatalf("CompletePayout failed: %v", err)
		}
		if done.Status != models.PayoutCompleted {
			t.Errorf("Status = %s, want completed", done.Status)
		}

		_, err = env.rounds.CompletePayout(ctx, organizer, payouts[0].ID)
		if !apperrors.IsKind(err, apperrors.KindState) {
			t.Errorf("Expected state error on repeat, got %v", err)
		}
	})
}

func TestPayoutRecipientsAfterLateJoins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")

	detail, err := env.rounds.Create(ctx, organizer, roundInput())
	if err != nil {
		t.Fatalf("Create round failed: %v", err)
	}

	// Listing while only the organizer has joined materializes the
	// schedule early. Slots for members who have not joined yet must
	// stay empty instead of being recorded against the organizer.
	payouts, err := env.rounds.ListPayouts(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("ListPayouts failed: %v", err)
	}
	if len(payouts) != 1 {
		t.Fatalf("Got %d payouts before the round filled, want 1", len(payouts))
	}
	if payouts[0].RecipientID != organizer {
		t.Errorf("First recipient = %s, want organizer", payouts[0].RecipientID)
	}

	userIDs := []string{organizer}
	for _, email := range []string{"second@example.com", "third@example.com"} {
		userID := env.createUser(t, email)
		if _, err := env.invites.Redeem(ctx, userID, detail.InviteCode); err != nil {
			t.Fatalf("Redeem failed for %s: %v", email, err)
		}
		userIDs = append(userIDs, userID)
	}

	payouts, err = env.rounds.ListPayouts(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("ListPayouts failed: %v", err)
	}
	if len(payouts) != 3 {
		t.Fatalf("Got %d payouts after the round filled, want 3", len(payouts))
	}

	recipients := map[string]bool{}
	for i, p := range payouts {
		recipients[p.RecipientID] = true
		if p.RecipientID != userIDs[i] {
			t.Errorf("Payout %d recipient = %s, want %s", i, p.RecipientID, userIDs[i])
		}
	}
	if len(recipients) != 3 {
		t.Errorf("Got %d distinct recipients across 3 payouts, want 3", len(recipients))
	}
}

func TestTimelineRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	organizer := env.createUser(t, "org@example.com")
	detail, _ := env.fullRound(t, organizer)

	events, err := env.rounds.Timeline(ctx, organizer, detail.Round.ID)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}

	types := map[string]int{}
	for _, e := range events {
		types[e.EventType]++
	}
	if types["round_created"] != 1 {
		t.Errorf("round_created events = %d, want 1", types["round_created"])
	}
	if types["member_joined"] != 2 {
		t.Errorf("member_joined events = %d, want 2", types["member_joined"])
	}
}
