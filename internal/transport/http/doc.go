// Package http implements HTTP request handlers for the FuelPulse web service.
// It provides a thin layer between HTTP transport and business logic, following
// the clean architecture principle of keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//	5. Consistent patterns - standardized request/response handling
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handlers
//
// FillupHandler serves the analysis API under /api/fillup: document listing,
// observation extraction, smoothed series, insights, chart payloads and full
// analysis runs. HealthHandler serves /api/health and /api/version.
//
// # Error Handling
//
// Service errors map via errors.Is/errors.As to RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/document/section-not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "section \"Log\" not found",
//	    "instance": "/api/fillup/observations"
//	}
//
// Success responses use a {status, data, count} envelope.
//
// # Testing
//
// Handlers are tested using httptest with mock service dependencies.
package http
