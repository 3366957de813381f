// Package sanitizer normalizes user-supplied booking fields before they are
// validated and stored.
//
// All functions are idempotent. Invalid input is never an error here: it
// normalizes to the empty string and is rejected later by validation.
package sanitizer
