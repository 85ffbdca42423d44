package models

import "github.com/mmynk/rondo/internal/apperrors"

var (
	ErrRoundNameRequired   = apperrors.Validation("round name is required")
	ErrCurrencyRequired    = apperrors.Validation("currency is required")
	ErrAmountNotPositive   = apperrors.Validation("contribution amount must be positive")
	ErrTooFewMembers       = apperrors.Validation("a round needs at least two members")
	ErrInvalidFrequency    = apperrors.Validation("unsupported contribution frequency")
	ErrInvalidPayoutOrder  = apperrors.Validation("unsupported payout order")
	ErrInvalidStartType    = apperrors.Validation("unsupported start type")
	ErrStartDateRequired   = apperrors.Validation("start date is required unless the round starts immediately")
	ErrNegativeGracePeriod = apperrors.Validation("grace period cannot be negative")
	ErrInvalidVerification = apperrors.Validation("unsupported payment verification mode")
	ErrInvalidProofType    = apperrors.Validation("unsupported proof type")
	ErrProofRefRequired    = apperrors.Validation("proof requires a URL or reference text")
	ErrReasonRequired      = apperrors.Validation("a rejection reason is required")
)
