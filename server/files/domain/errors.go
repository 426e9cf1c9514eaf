package domain

import "errors"

// Error messages double as API response bodies, so they keep the exact
// casing clients already depend on.
var (
	ErrUnauthorized    = errors.New("Unauthorized")
	ErrMissingEmail    = errors.New("Missing email")
	ErrMissingPassword = errors.New("Missing password")
	ErrAlreadyExist    = errors.New("Already exist")

	ErrMissingName     = errors.New("Missing name")
	ErrMissingType     = errors.New("Missing type")
	ErrParentNotFound  = errors.New("Parent not found")
	ErrParentNotFolder = errors.New("Parent is not a folder")
	ErrNotFound        = errors.New("Not found")

	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
)
