// Package apperrors defines the structured error types and process exit
// codes shared by every run mode: configuration errors, validation
// errors on operands and widths, and the timeout/cancellation mapping
// used when a simulation run is cut short.
//
// Error types wrap their causes with fmt.Errorf %w semantics and
// implement Unwrap, so errors.Is and errors.As see through them.
package apperrors
