package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrUpstream      = errors.New("upstream backend failed")
	ErrPromptMissing = errors.New("required prompt is missing")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limit exceeded")
)
