package fillup

import (
	"fmt"
	"time"
)

// trendSpan is the span of the exponential moving average behind
// Insights.ConsumptionTrend (alpha = 2/(span+1)).
const trendSpan = 20

// Insights is the descriptive summary of an observation series used by report
// output and the insights endpoint.
type Insights struct {
	Observations     int       `json:"observations"`
	FirstDate        time.Time `json:"first_date"`
	LastDate         time.Time `json:"last_date"`
	SpanDays         int       `json:"span_days"`
	TotalDistance    float64   `json:"total_distance"`
	MeanConsumption  float64   `json:"mean_consumption"`
	BestConsumption  float64   `json:"best_consumption"`
	WorstConsumption float64   `json:"worst_consumption"`
	TotalExtraFuel   float64   `json:"total_extra_fuel"`
	ConsumptionTrend float64   `json:"consumption_trend"`
}

// ComputeInsights derives summary statistics from a series. Lower consumption
// is better, so BestConsumption is the minimum. TotalDistance is the odometer
// difference between the last and first observation in date order.
func ComputeInsights(s *Series) Insights {
	if s == nil || len(s.Observations) == 0 {
		return Insights{}
	}

	first := s.Observations[0]
	last := s.Observations[len(s.Observations)-1]

	insights := Insights{
		Observations:     len(s.Observations),
		FirstDate:        first.Date,
		LastDate:         last.Date,
		SpanDays:         int(last.Date.Sub(first.Date).Hours() / 24),
		TotalDistance:    last.Odometer - first.Odometer,
		BestConsumption:  first.Consumption,
		WorstConsumption: first.Consumption,
	}

	var sum float64
	for _, obs := range s.Observations {
		sum += obs.Consumption
		if obs.Consumption < insights.BestConsumption {
			insights.BestConsumption = obs.Consumption
		}
		if obs.Consumption > insights.WorstConsumption {
			insights.WorstConsumption = obs.Consumption
		}
		if obs.Extra.Valid {
			insights.TotalExtraFuel += obs.Extra.Value
		}
	}
	insights.MeanConsumption = sum / float64(len(s.Observations))
	insights.ConsumptionTrend = exponentialTrend(s.Consumptions())

	return insights
}

// Summary renders a one-paragraph human-readable form for CLI output.
func (i Insights) Summary() string {
	if i.Observations == 0 {
		return "no observations"
	}
	return fmt.Sprintf(
		"%d fillups from %s to %s (%d days, %.0f distance): consumption mean %.2f, best %.2f, worst %.2f, trend %.2f, extra fuel %.1f",
		i.Observations,
		i.FirstDate.Format("2006-01-02"),
		i.LastDate.Format("2006-01-02"),
		i.SpanDays,
		i.TotalDistance,
		i.MeanConsumption,
		i.BestConsumption,
		i.WorstConsumption,
		i.ConsumptionTrend,
		i.TotalExtraFuel,
	)
}

// exponentialTrend computes an EMA over the ordered values, seeded with the
// first value.
func exponentialTrend(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / float64(trendSpan+1)
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}
