package http

import (
	"context"

	"fuelcli/internal/dataprocessing"
	"fuelcli/internal/fillup"
	"fuelcli/internal/services"
	apiv1 "fuelcli/pkg/contracts/api/v1"
	"fuelcli/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the interface for fillup analysis operations
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, req apiv1.AnalyzeRequest) (*services.AnalysisResult, error)
	Series(ctx context.Context, req apiv1.SeriesRequest) (*services.SmoothedSeries, error)
	Chart(ctx context.Context, req apiv1.ChartRequest) (*domain.Chart, error)
	Observations(ctx context.Context, req apiv1.DocumentRequest) (*fillup.Series, []services.SkippedRecord, error)
	Insights(ctx context.Context, req apiv1.DocumentRequest) (fillup.Insights, error)
	ListDocuments(ctx context.Context) ([]dataprocessing.DocumentInfo, error)
}
