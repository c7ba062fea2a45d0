// Package cod contains the cash-on-delivery collection ledger entry.
// Collections are immutable once recorded and deduplicated by a
// client-generated idempotency key.
package cod
