package service

import "errors"

var (
	// ErrTagNotFound is returned when assigning a charge tag that does not exist.
	ErrTagNotFound = errors.New("assignment: charge tag not found")
	// ErrUserHasTag is returned when the user already owns a different tag.
	// The existing tag must be cleared first, never silently replaced.
	ErrUserHasTag = errors.New("assignment: user already has a charge tag")
	// ErrTagAssigned is returned when the tag is owned by another user.
	ErrTagAssigned = errors.New("assignment: charge tag already assigned")
	// ErrUserNotFound represents a missing user account.
	ErrUserNotFound = errors.New("account: user not found")
	// ErrLoginTaken is returned when a login name is already in use.
	ErrLoginTaken = errors.New("account: login name already in use")
	// ErrValidation wraps rejected input; checked before any store mutation.
	ErrValidation = errors.New("validation failed")
)
