// Package rider contains the rider aggregate: the person carrying orders.
// A rider toggles duty status, reports positions and carries at most one
// active order at a time. Dispatch only considers available riders.
package rider
