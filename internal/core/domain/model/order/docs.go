// Package order contains the Order aggregate root: the authoritative state
// machine for the delivery lifecycle.
//
// The aggregate tracks two coupled machines: the overall order Status and the
// rider-facing DeliveryStatus, plus the append-only assignment and status
// histories, the delivery OTP, the completion proof and the milestone
// timestamps. All mutation goes through guarded methods that check the acting
// role's authority and the current state; a stale pre-state yields a
// StateConflictError so concurrent actors are forced to re-read rather than
// silently clobber each other.
package order
