package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/models"
	"github.com/mmynk/rondo/internal/notify"
	"github.com/mmynk/rondo/internal/storage"
)

// ProofService owns the proof sub-state-machine per contribution:
// none → pending → approved | rejected, with resubmission after
// rejection creating a new current proof.
type ProofService struct {
	store    storage.Store
	recorder *notify.Recorder
	notifier notify.Notifier
	now      func() time.Time
}

// NewProofService creates a new ProofService.
func NewProofService(store storage.Store, recorder *notify.Recorder, notifier notify.Notifier) *ProofService {
	return &ProofService{
		store:    store,
		recorder: recorder,
		notifier: notifier,
		now:      time.Now,
	}
}

// SubmitProofInput carries a new proof submission. Image and file proofs
// reference an object-storage URL; reference proofs carry free text. The
// platform never stores proof bytes.
type SubmitProofInput struct {
	Type          models.ProofType `json:"proof_type"`
	URL           string           `json:"proof_url,omitempty"`
	ReferenceText string           `json:"reference_text,omitempty"`
}

// Submit attaches a new pending proof to a contribution. Only the owning
// member may submit; the contribution status is left unchanged and the
// organizer is notified for review.
func (s *ProofService) Submit(ctx context.Context, userID, contributionID string, in SubmitProofInput) (*models.PaymentProof, error) {
	if !in.Type.Valid() {
		return nil, models.ErrInvalidProofType
	}
	if in.URL == "" && in.ReferenceText == "" {
		return nil, models.ErrProofRefRequired
	}

	contribution, err := s.store.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		return nil, apperrors.NotFound("contribution not found")
	}
	if contribution.UserID != userID {
		return nil, apperrors.Forbidden("only the owning member can submit a proof")
	}

	round, err := s.store.GetRound(ctx, contribution.RoundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}

	proof := &models.PaymentProof{
		ContributionID: contributionID,
		SubmittedBy:    userID,
		Type:           in.Type,
		URL:            in.URL,
		ReferenceText:  in.ReferenceText,
		Status:         models.ProofPending,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateProof(ctx, proof); err != nil {
		slog.Error("Submit proof failed", "contribution_id", contributionID, "error", err)
		return nil, err
	}

	s.recorder.Record(ctx, round.ID, userID, notify.ProofSubmitted{
		ContributionID: contributionID,
		ProofID:        proof.ID,
		ProofType:      string(proof.Type),
	})
	s.notifier.Notify(ctx, round.OrganizerID, "A payment proof is waiting for review")
	slog.Info("Proof submitted", "proof_id", proof.ID, "contribution_id", contributionID)

	return proof, nil
}

// Approve approves a pending proof and drives the contribution to
// verified. Organizer only; a proof that is no longer pending is a state
// conflict, so simultaneous approve and reject resolve to one winner.
func (s *ProofService) Approve(ctx context.Context, userID, proofID string) (*models.PaymentProof, error) {
	proof, round, err := s.loadForReview(ctx, userID, proofID)
	if err != nil {
		return nil, err
	}

	approved, err := s.store.ApproveProof(ctx, proofID, userID, s.now().UTC())
	if err != nil {
		slog.Error("Approve proof failed", "proof_id", proofID, "error", err)
		return nil, err
	}
	if !approved {
		return nil, apperrors.State("proof is not pending")
	}

	s.recorder.Record(ctx, round.ID, userID, notify.ProofApproved{
		ContributionID: proof.ContributionID,
		ProofID:        proofID,
	})
	s.notifier.Notify(ctx, proof.SubmittedBy, "Your payment proof was approved")
	slog.Info("Proof approved", "proof_id", proofID, "round_id", round.ID)

	return s.store.GetProof(ctx, proofID)
}

// Reject rejects a pending proof with a required reason. The
// contribution keeps its prior status; the member may resubmit.
func (s *ProofService) Reject(ctx context.Context, userID, proofID, reason string) (*models.PaymentProof, error) {
	if reason == "" {
		return nil, models.ErrReasonRequired
	}

	proof, round, err := s.loadForReview(ctx, userID, proofID)
	if err != nil {
		return nil, err
	}

	rejected, err := s.store.RejectProof(ctx, proofID, userID, s.now().UTC(), reason)
	if err != nil {
		slog.Error("Reject proof failed", "proof_id", proofID, "error", err)
		return nil, err
	}
	if !rejected {
		return nil, apperrors.State("proof is not pending")
	}

	s.recorder.Record(ctx, round.ID, userID, notify.ProofRejected{
		ContributionID: proof.ContributionID,
		ProofID:        proofID,
		Reason:         reason,
	})
	s.notifier.Notify(ctx, proof.SubmittedBy, "Your payment proof was rejected: "+reason)
	slog.Info("Proof rejected", "proof_id", proofID, "round_id", round.ID)

	return s.store.GetProof(ctx, proofID)
}

// Current returns the most recent proof for a contribution, visible to
// the owning member and the organizer.
func (s *ProofService) Current(ctx context.Context, userID, contributionID string) (*models.PaymentProof, error) {
	contribution, err := s.store.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		return nil, apperrors.NotFound("contribution not found")
	}
	round, err := s.store.GetRound(ctx, contribution.RoundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, apperrors.NotFound("round not found")
	}
	if contribution.UserID != userID && round.OrganizerID != userID {
		return nil, apperrors.Forbidden("not allowed to view this proof")
	}
	return s.store.GetCurrentProof(ctx, contributionID)
}

// loadForReview loads a proof and its round and verifies the caller is
// the round organizer.
func (s *ProofService) loadForReview(ctx context.Context, userID, proofID string) (*models.PaymentProof, *models.Round, error) {
	proof, err := s.store.GetProof(ctx, proofID)
	if err != nil {
		return nil, nil, err
	}
	if proof == nil {
		return nil, nil, apperrors.NotFound("proof not found")
	}

	contribution, err := s.store.GetContribution(ctx, proof.ContributionID)
	if err != nil {
		return nil, nil, err
	}
	if contribution == nil {
		return nil, nil, apperrors.NotFound("contribution not found")
	}

	round, err := s.store.GetRound(ctx, contribution.RoundID)
	if err != nil {
		return nil, nil, err
	}
	if round == nil {
		return nil, nil, apperrors.NotFound("round not found")
	}
	if round.OrganizerID != userID {
		return nil, nil, apperrors.Forbidden("only the organizer can review proofs")
	}

	return proof, round, nil
}
