package record

import (
	"errors"
)

var (
	ErrInvalidData = errors.New("invalid record data")
	ErrUnknownKind = errors.New("unknown record kind")
	ErrInvalidDate = errors.New("invalid date")
)
