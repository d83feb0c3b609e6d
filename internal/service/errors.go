package service

import (
	"errors"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/models"
)

var (
	// ErrTaskNotFound is returned by get, update, complete and delete for unknown ids.
	ErrTaskNotFound = errors.New("task not found")
	// ErrIncompleteInput is returned when an update omits status or priority.
	ErrIncompleteInput = errors.New("status and priority are required")

	// ErrDuplicateIdentity is returned when the email or username is taken.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrIdentityNotFound is returned when no identity has the given email.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's input limit.
	ErrPasswordTooLong = auth.ErrPasswordTooLong

	// ErrInvalidEnumValue matches status and priority parse failures.
	ErrInvalidEnumValue = models.ErrInvalidEnumValue
	// ErrInvalidToken matches token verification failures.
	ErrInvalidToken = auth.ErrInvalidToken
)
