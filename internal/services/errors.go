// Package services implements the fortune orchestration logic. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; the
// handler layer translates them into HTTP statuses and stable error codes.
package services

import "errors"

// Client input errors. These are the only conditions that end a request
// early with a non-200 outcome; everything else degrades to a usable payload.
var (
	// ErrBirthdateRequired is returned when a date-dependent category
	// (today/saju) is requested without a birthdate.
	ErrBirthdateRequired = errors.New("birthdate is required")

	// ErrCoupleBirthdateRequired is returned when a compat request is
	// missing either participant's birthdate.
	ErrCoupleBirthdateRequired = errors.New("couple a/b birthdate required")

	// ErrNameRequired is returned when the name category is requested
	// without a name.
	ErrNameRequired = errors.New("name is required")

	// ErrUnknownCategory is returned for a category outside the accepted set.
	ErrUnknownCategory = errors.New("unknown category")
)
