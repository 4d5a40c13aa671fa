package domain

import "errors"

var (
	ErrMalformedFrame  = errors.New("malformed frame")
	ErrUnknownKind     = errors.New("unknown message type")
	ErrInvalidRoomID   = errors.New("invalid chat room id")
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrInvalidStatus   = errors.New("invalid chat room status")
	ErrMissingField    = errors.New("missing required field")
	ErrMessageNotSaved = errors.New("message not saved")
)
