// Package repository implements the domain operations over the JSON
// document store: draft orders, PIN credentials, sessions and the
// validated procurement snapshot. Sentinel errors let handlers map
// each failure to the right HTTP status and error code without
// inspecting strings.
package repository

import "errors"

// ErrUnknownDepartment is returned when an operation names a
// department outside the fixed set. The store is never touched.
var ErrUnknownDepartment = errors.New("unknown department")

// ErrValidation is returned on malformed input, such as a PIN that is
// not exactly four digits or an unknown scope name.
var ErrValidation = errors.New("validation error")

// ErrSetupDenied is returned when the setup secret does not match the
// configured value, or when no setup secret is configured at all.
var ErrSetupDenied = errors.New("setup denied")

// ErrSlotTaken is returned when a credential already occupies the
// requested slot. Slots are one-way: once created they can only be
// reset, never re-created.
var ErrSlotTaken = errors.New("slot already taken")

// ErrCapacityReached is returned when the configured maximum number
// of credentials already exists, regardless of a correct secret.
var ErrCapacityReached = errors.New("credential capacity reached")

// ErrAuthFailed is returned when a well-formed PIN matches no stored
// credential, and when a session token is unknown or expired.
var ErrAuthFailed = errors.New("authentication failed")
