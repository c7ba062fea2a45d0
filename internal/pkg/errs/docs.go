// Package errs provides the standardized error types used throughout the
// application.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Validation failures (required, invalid, out of range) map to bad requests
// at the HTTP edge. ObjectNotFoundError maps to not found. StateConflictError
// signals that an aggregate moved past the caller's expected pre-state and
// the caller must re-read. NotAuthorizedError covers wrong-role and
// wrong-rider access, and RiderNotAssignedError tells a rider their
// assignment is gone for good.
package errs
