package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailNotVerified   = errors.New("email not verified")

	// Chat errors
	ErrConversationNotFound = errors.New("conversation not found")
	ErrRoomNotFound         = errors.New("chat room not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotMember            = errors.New("not a member of this room")
	ErrAlreadyMember        = errors.New("already a member of this room")
	ErrNotCreator           = errors.New("only the room admin can do this")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidTheme = errors.New("unknown chat theme")
	ErrEmptyContent = errors.New("message content is required")
)
