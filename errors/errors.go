package errors

import "fmt"

var (
	// Validation and authentication
	ErrValidation         = fmt.Errorf("invalid input")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Access control
	ErrUserBanned       = fmt.Errorf("user is banned")
	ErrPermissionDenied = fmt.Errorf("permission denied")
	ErrNotAMember       = fmt.Errorf("not a member of this group")
	ErrInvalidOperation = fmt.Errorf("invalid operation")

	// Lookups
	ErrUserNotFound  = fmt.Errorf("user not found")
	ErrGroupNotFound = fmt.Errorf("group not found")
	ErrNotPending    = fmt.Errorf("no pending request for this user")

	// Conflicts
	ErrAlreadyMember = fmt.Errorf("already a member of this group")

	// Moderation
	ErrEmptyWords = fmt.Errorf("no words have been found")
)
