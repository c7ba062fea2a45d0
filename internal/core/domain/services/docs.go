// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the delivery system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - OfferDispatcher: picks the next rider to offer an order to
//   - OtpGenerator: produces delivery verification codes
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
