package filestore

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("invalid file type")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidName     = errors.New("invalid file name")
)

// IsRejected reports whether err is an upload rejection (client error) rather than an I/O failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidMimeType) ||
		errors.Is(err, ErrEmptyFile)
}
