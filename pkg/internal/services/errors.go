package services

import "errors"

// Rejections surfaced to the sending peer as HTTP 400; a missing addressed
// author is the only 404 and is issued by the route gate before dispatch. The
// sending peer owns retry decisions; none of these are retried locally.
var (
	ErrMalformedIdentifier    = errors.New("malformed identifier")
	ErrUnrecognizedPostFormat = errors.New("unrecognized post format")
	ErrUnsupportedMediaType   = errors.New("unsupported media type")
	ErrAddresseeMismatch      = errors.New("follow object does not match the addressed author")
	ErrTargetNotFound         = errors.New("target not found")
	ErrEmptyComment           = errors.New("comment must not be empty")
	ErrUnknownInboxObjectType = errors.New("unknown inbox object type")
)
