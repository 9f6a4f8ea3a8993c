// Package events contains the event contract definitions for WebSocket
// communication in the FuelPulse analysis service.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Core analysis message - the primary event type
	MessageTypeAnalysisSnapshot MessageType = "analysis:snapshot"

	// System messages
	MessageTypeSystemStatus  MessageType = "system:status"
	MessageTypeSystemMetrics MessageType = "system:metrics"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"` // Message payload
}

// AnalysisSnapshot is pushed to every connected dashboard after a successful
// analysis run so open views refresh without polling. Full result payloads
// stay behind the REST API; the snapshot carries the headline numbers only.
type AnalysisSnapshot struct {
	Document        string    `json:"document"`
	Section         string    `json:"section"`
	Observations    int       `json:"observations"`
	SkippedRecords  int       `json:"skipped_records"`
	Windows         []int     `json:"windows"`
	Methods         []string  `json:"methods"`
	MeanConsumption float64   `json:"mean_consumption"`
	Summary         string    `json:"summary"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	BaseMessage
	Data struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
		Fatal   bool        `json:"fatal"`
	} `json:"data"`
}

// SystemStatusEvent represents a system status event
type SystemStatusEvent struct {
	BaseMessage
	Data struct {
		Status     string            `json:"status"` // healthy|degraded|unhealthy
		Components map[string]string `json:"components"`
		Uptime     string            `json:"uptime"`
		Version    string            `json:"version"`
	} `json:"data"`
}
