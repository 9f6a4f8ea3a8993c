package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fuelcli/internal/errors"
	"fuelcli/internal/fillup"
	"fuelcli/internal/middleware"
	"fuelcli/internal/services"
	"fuelcli/internal/smoothing"
	apiv1 "fuelcli/pkg/contracts/api/v1"
)

// FillupHandler handles fillup analysis HTTP requests with RFC 7807 compliance
type FillupHandler struct {
	service      AnalysisServiceInterface
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFillupHandler creates a new fillup handler with RFC 7807 error handling
func NewFillupHandler(service AnalysisServiceInterface, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FillupHandler {
	return &FillupHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "fillup_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the fillup routes with proper Chi patterns
func (h *FillupHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/documents", h.GetDocuments)
	r.Get("/observations", h.GetObservations)
	r.Get("/series", h.GetSeries)
	r.Get("/insights", h.GetInsights)
	r.Get("/chart", h.GetChart)
	r.Post("/analyze", h.Analyze)

	return r
}

// GetDocuments handles GET /api/fillup/documents
func (h *FillupHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.logger.InfoContext(r.Context(), "listing documents",
		slog.String("request_id", reqID),
		slog.String("path", r.URL.Path),
	)

	docs, err := h.service.ListDocuments(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   docs,
		"count":  len(docs),
	})
}

// GetObservations handles GET /api/fillup/observations
func (h *FillupHandler) GetObservations(w http.ResponseWriter, r *http.Request) {
	req := documentRequestFromQuery(r)

	h.logger.InfoContext(r.Context(), "fetching observations",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("document", req.Document),
		slog.String("section", req.Section),
	)

	series, skipped, err := h.service.Observations(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"data":            series.Observations,
		"count":           series.Len(),
		"skipped_records": skipped,
	})
}

// GetSeries handles GET /api/fillup/series
func (h *FillupHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	req := apiv1.SeriesRequest{
		DocumentRequest: documentRequestFromQuery(r),
		Method:          r.URL.Query().Get("method"),
		Weighting:       r.URL.Query().Get("weighting"),
	}

	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("window", "window must be a valid integer"))
			return
		}
		req.Window = window
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "computing smoothed series",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("document", req.Document),
		slog.Int("window", req.Window),
		slog.String("method", req.Method),
	)

	series, err := h.service.Series(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series.Values),
	})
}

// GetInsights handles GET /api/fillup/insights
func (h *FillupHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	req := documentRequestFromQuery(r)

	h.logger.InfoContext(r.Context(), "computing insights",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("document", req.Document),
	)

	insights, err := h.service.Insights(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   insights,
	})
}

// GetChart handles GET /api/fillup/chart
func (h *FillupHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	req := apiv1.ChartRequest{
		DocumentRequest: documentRequestFromQuery(r),
		Methods:         queryList(r, "methods"),
		Weighting:       r.URL.Query().Get("weighting"),
	}

	windows, err := queryIntList(r, "windows")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("windows", "windows must be a comma-separated list of integers"))
		return
	}
	req.Windows = windows

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "building chart",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("document", req.Document),
		slog.Any("windows", req.Windows),
	)

	chart, err := h.service.Chart(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   chart,
		"count":  chart.PointCount(),
	})
}

// Analyze handles POST /api/fillup/analyze
func (h *FillupHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req apiv1.AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to decode analyze request",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "running analysis",
		slog.String("request_id", reqID),
		slog.String("document", req.Document),
		slog.String("section", req.Section),
		slog.Any("windows", req.Windows),
		slog.Any("methods", req.Methods),
	)

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Observations),
	})
}

// handleServiceError maps service errors to API errors before delegating to
// the RFC 7807 error handler.
func (h *FillupHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())

	h.logger.ErrorContext(r.Context(), "fillup request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("path", r.URL.Path),
	)

	var invalidObs *fillup.InvalidObservationError

	switch {
	case errors.Is(err, services.ErrNoDocumentsFound):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_DOCUMENTS_FOUND",
			"No analyzable documents found in the data directory",
		))

	case errors.Is(err, services.ErrDocumentNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"DOCUMENT_NOT_FOUND",
			"Fillup document not found",
			err.Error(),
		))

	case errors.Is(err, fillup.ErrSectionNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"SECTION_NOT_FOUND",
			"Log section not found in document",
			err.Error(),
		))

	case errors.Is(err, fillup.ErrEmptySeries):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusUnprocessableEntity,
			"EMPTY_SERIES",
			"No observations remain after filtering",
		))

	case errors.As(err, &invalidObs):
		h.errorHandler.HandleError(w, r, apierrors.InvalidObservationError(err))

	case errors.Is(err, smoothing.ErrInvalidWindow):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_WINDOW",
			"Window size must be at least 1",
			err.Error(),
		))

	case errors.Is(err, services.ErrNoWindows):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusBadRequest,
			"NO_WINDOWS",
			"No smoothing windows requested and none configured",
		))

	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_REQUEST",
			"Invalid request parameter",
			err.Error(),
		))

	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// documentRequestFromQuery builds the common document selector from query
// parameters.
func documentRequestFromQuery(r *http.Request) apiv1.DocumentRequest {
	q := r.URL.Query()
	return apiv1.DocumentRequest{
		Document: q.Get("document"),
		Format:   q.Get("format"),
		Section:  q.Get("section"),
	}
}

// queryList splits a comma-separated query parameter into trimmed values.
func queryList(r *http.Request, param string) []string {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// queryIntList splits a comma-separated query parameter into integers.
func queryIntList(r *http.Request, param string) ([]int, error) {
	parts := queryList(r, param)
	if len(parts) == 0 {
		return nil, nil
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
