package internal

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrShortlinkExists     = errors.New("shortlink already exists")
	ErrLinkNotFound        = errors.New("link not found")
	ErrGenerationExhausted = errors.New("could not generate a free shortlink")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)
