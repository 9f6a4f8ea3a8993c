package services

import "errors"

// Analysis service errors
var (
	// Document errors
	ErrNoDocumentsFound = errors.New("no documents found")
	ErrDocumentNotFound = errors.New("document not found")

	// Request errors
	ErrNoWindows = errors.New("no smoothing windows requested")

	// WebSocket errors
	ErrWebSocketUpgrade = errors.New("websocket upgrade failed")
	ErrWebSocketClosed  = errors.New("websocket connection closed")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
