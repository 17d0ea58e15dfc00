// Package validation provides common validation utilities for configuration
// parameters and call arguments across the streamkit library.
//
// Configuration checks return errors that unwrap to ErrInvalidConfiguration.
// ValidateBitString checks stream elements and unwraps to ErrInvalidType so
// callers can tell a bad element from a bad setup.
package validation
