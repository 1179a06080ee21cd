package entity

import "errors"

// Error kinds. Adapters wrap the underlying cause so callers can match with errors.Is.
var (
	ErrFilesystem = errors.New("filesystem error")
	ErrDecode     = errors.New("decode error")
	ErrEncode     = errors.New("encode error")
	ErrUpload     = errors.New("upload error")
)
