// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"errors"
	"fmt"
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrChainInvalid indicates that post-append validation detected a
	// hash or linkage mismatch.  The append is aborted and the chain state
	// is unchanged.
	ErrChainInvalid ErrorCode = iota

	// ErrMalformedMessage indicates a challenge message could not be
	// parsed into the expected structured form.
	ErrMalformedMessage

	// ErrDecode indicates a block payload could not be decoded.
	ErrDecode

	// ErrExpired indicates a challenge response arrived after the timing
	// window.
	ErrExpired

	// ErrInvalidSignature indicates a signature does not authenticate the
	// address over the message.
	ErrInvalidSignature

	// ErrInternal indicates the digest or verification capability itself
	// faulted.
	ErrInternal
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrChainInvalid:     "ErrChainInvalid",
	ErrMalformedMessage: "ErrMalformedMessage",
	ErrDecode:           "ErrDecode",
	ErrExpired:          "ErrExpired",
	ErrInvalidSignature: "ErrInvalidSignature",
	ErrInternal:         "ErrInternal",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a block or claim failed due to one of the ledger rules.  The
// caller can use type assertions or IsErrorCode to detect a specific
// violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human-readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// NewRuleError creates a RuleError given a set of arguments.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsErrorCode reports whether err is a RuleError, or wraps one, with the
// given error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var ruleErr RuleError
	return errors.As(err, &ruleErr) && ruleErr.ErrorCode == c
}
