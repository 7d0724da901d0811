package zx0

import "errors"

// Configuration errors returned by Compress and Config.Validate.
var (
	ErrEmptyInput   = errors.New("zx0: input is empty")
	ErrSkip         = errors.New("zx0: skip must leave at least one byte to compress")
	ErrShrinkFactor = errors.New("zx0: shrink factor out of range")
)
