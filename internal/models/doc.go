// Package models defines the core domain models for Rondo.
//
// # Models
//
//   - Round: one rotating savings circle with fixed membership and cadence
//   - RoundMember: a user's membership in a round, with an optional payout position
//   - Contribution: one member's obligation for one cycle
//   - PaymentProof: member-submitted evidence of payment, reviewed by the organizer
//   - Payout: the pooled amount owed to one member on one cycle
//   - InviteLink: a redeemable code admitting new members to a round
//   - TimelineEvent: an append-only activity record for a round
//   - User: a registered account
//
// # Design Principles
//
// 1. **Non-custodial**: the platform never moves money; contributions and
// payouts track obligations only.
// 2. **Derived state stays derived**: a contribution's "late" status is a
// function of stored status, due date, grace period and the caller's clock
// (see Contribution.EffectiveStatus). No model reads the wall clock itself.
// 3. **Avoid circular references**: relationships use ID strings, never
// pointers.
// 4. Money amounts use decimal.Decimal, never floats.
package models
