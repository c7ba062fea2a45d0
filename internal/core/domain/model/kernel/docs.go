// Package kernel provides core domain primitives shared across the delivery
// domain model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: a validated WGS84 coordinate with great-circle distance math
//   - NormalizeHeading: compass heading normalization into [0, 360)
//
// These primitives enforce their invariants at construction and are immutable,
// making them safe for concurrent use throughout the domain model.
package kernel
