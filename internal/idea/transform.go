// internal/idea/transform.go
package idea

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Risk tier thresholds on profit margin, fixed at transform time.
const (
	lowRiskMarginPct  = 30
	highRiskMarginPct = 15
)

// riskLevelForMargin derives the tier once per model; a margin of exactly
// 30 is Low and exactly 15 is Medium.
func riskLevelForMargin(marginPct float64) string {
	switch {
	case marginPct >= lowRiskMarginPct:
		return "Low"
	case marginPct < highRiskMarginPct:
		return "High"
	default:
		return "Medium"
	}
}

// ToStoredIdea maps an analysis-service response to the stable local
// record. It always generates a fresh id (never reusing one from the
// response), defaults absent numerics to 0 and absent strings to "", and
// stamps both lifecycle timestamps to now.
func ToStoredIdea(resp *AnalysisResponse, extras UserFields) StoredIdea {
	now := time.Now().UTC().Format(time.RFC3339)

	models := make([]StoredBusinessModel, 0, len(resp.BusinessModelsSummary))
	for idx, m := range resp.BusinessModelsSummary {
		models = append(models, StoredBusinessModel{
			ID:              strconv.Itoa(idx + 1),
			Name:            m.Name,
			Description:     fmt.Sprintf("%s model", m.Name),
			RevenueDisplay:  fmt.Sprintf("%sK/mo projected", formatNumber(m.ProjectedRevenueK)),
			ProfitMargin:    fmt.Sprintf("%s%%", formatNumber(m.ProfitMarginPct)),
			TimeToBreakeven: fmt.Sprintf("%d months", m.BreakEvenMonths),
			RiskLevel:       riskLevelForMargin(m.ProfitMarginPct),
			RevenueK:        m.ProjectedRevenueK,
			MarginPct:       m.ProfitMarginPct,
			ChurnPct:        0,
		})
	}

	marketOpportunity := resp.MarketAnalysis.MarketOpportunity
	if marketOpportunity == "" {
		marketOpportunity = "Medium"
	}

	risks := resp.Risks
	if risks == nil {
		risks = []RiskItem{}
	}
	opportunities := resp.Opportunities
	if opportunities == nil {
		opportunities = []OpportunityItem{}
	}

	return StoredIdea{
		ID:           uuid.NewString(),
		Title:        extras.Title,
		Description:  extras.Description,
		Category:     extras.Category,
		Status:       "completed",
		SuccessScore: int(math.Round(resp.SuccessScore)),
		CreatedAt:    now,
		LastUpdated:  now,
		MarketAnalysis: StoredMarketAnalysis{
			MarketSizeUSD:     resp.MarketAnalysis.MarketSizeUSD,
			GrowthRatePct:     resp.MarketAnalysis.GrowthRatePct,
			TargetCustomers:   resp.MarketAnalysis.TargetCustomers,
			CompetitorCount:   resp.MarketAnalysis.CompetitorCount,
			MarketOpportunity: marketOpportunity,
		},
		BusinessModels: models,
		Risks:          risks,
		Opportunities:  opportunities,
	}
}

// FormatMarketSize renders a USD value with fixed unit thresholds:
// >=1e9 "$X.XB", >=1e6 "$X.XM", >=1e3 "$X.XK", else "$X".
func FormatMarketSize(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fK", value/1_000)
	default:
		return "$" + formatNumber(value)
	}
}

// formatNumber prints a float without trailing zeros (50, not 50.000000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
