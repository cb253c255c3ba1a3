package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrStateDecode     = errors.New("state blob decode failed")
	ErrUnknownStrategy = errors.New("no strategy registered")
	ErrWSDisconnect    = errors.New("websocket disconnected")
)
