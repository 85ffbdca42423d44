package models

import "time"

// ProofType describes the kind of evidence attached to a payment proof.
type ProofType string

const (
	// ProofImage is an uploaded screenshot or photo.
	ProofImage ProofType = "image"
	// ProofFile is an uploaded document.
	ProofFile ProofType = "file"
	// ProofReference is a free-text transaction reference.
	ProofReference ProofType = "reference"
)

// Valid reports whether the proof type is supported.
func (t ProofType) Valid() bool {
	return t == ProofImage || t == ProofFile || t == ProofReference
}

// ProofStatus is the review state of a payment proof.
type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

// PaymentProof is member-submitted evidence that a contribution was paid.
//
// A contribution may accumulate several proofs over time (resubmission
// after rejection); the current proof is the most recently created one.
// The platform stores only the object-storage URL or reference text,
// never the bytes.
type PaymentProof struct {
	// ID is the unique identifier for the proof (UUID format).
	ID string

	// ContributionID is the contribution this proof supports.
	ContributionID string

	// SubmittedBy is the member who submitted the proof.
	SubmittedBy string

	// Type is image, file or reference.
	Type ProofType

	// URL is the object-storage location for image/file proofs.
	URL string

	// ReferenceText is the transaction reference for reference proofs.
	ReferenceText string

	// Status is pending until the organizer approves or rejects.
	Status ProofStatus

	// ReviewedBy is the organizer who reviewed the proof; empty while pending.
	ReviewedBy string

	// ReviewedAt is when the review happened; zero while pending.
	ReviewedAt time.Time

	// RejectionReason is required on rejection, empty otherwise.
	RejectionReason string

	// CreatedAt orders proofs; the newest proof is the current one.
	CreatedAt time.Time
}
