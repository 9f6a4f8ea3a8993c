// Package services implements the business logic layer of the FuelPulse
// application. It provides a clean separation between HTTP handlers and the
// fillup pipeline, ensuring that business rules are centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Service Layer Responsibilities
//
// The service layer is responsible for:
//
//	- Request defaulting and validation
//	- Pipeline orchestration (load, extract, smooth, summarize)
//	- Cross-cutting concerns (logging, metrics, event push)
//	- Error handling and transformation
//
// # Available Services
//
// The package provides these core services:
//
//	- AnalysisService: runs the fillup analysis pipeline
//	- HealthService: provides system health checks
//
// # Error Handling
//
// Services return domain-specific errors that handlers transform into API
// responses:
//
//	- fillup.ErrSectionNotFound / ErrDocumentNotFound for missing resources
//	- fillup.ErrEmptySeries / InvalidObservationError for unprocessable data
//	- smoothing.ErrInvalidWindow for bad parameters
//
// # Testing
//
// Services are tested against real files in temporary directories; the
// WebSocket hub is the only mocked dependency.
package services
