// internal/daily/models.go
package daily

// The five fixed structured sections of a daily update. Optional numerics
// are pointers so an untouched field round-trips as null rather than 0.

type SalesDemand struct {
	UnitsSold        *int   `json:"units_sold"`
	NewOrders        *int   `json:"new_orders"`
	ProductAttention string `json:"product_attention"`
}

type CustomerEngagement struct {
	InquiriesFeedback string `json:"inquiries_feedback"`
	Visits            *int   `json:"visits"`
	NewFollowers      *int   `json:"new_followers"`
}

type MarketingOutreach struct {
	Posted  string   `json:"posted"`
	Channel string   `json:"channel"`
	Budget  *float64 `json:"budget"`
}

type OperationsSupply struct {
	Issues          string `json:"issues"`
	ProducedRestock *int   `json:"produced_restock"`
}

type ChallengesInsights struct {
	BiggestChallenge string `json:"biggest_challenge"`
	NewOpportunity   string `json:"new_opportunity"`
}

// UpdateInput is what the daily-update form submits.
type UpdateInput struct {
	Date               string             `json:"date"`
	SalesDemand        SalesDemand        `json:"sales_demand"`
	CustomerEngagement CustomerEngagement `json:"customer_engagement"`
	MarketingOutreach  MarketingOutreach  `json:"marketing_outreach"`
	OperationsSupply   OperationsSupply   `json:"operations_supply"`
	ChallengesInsights ChallengesInsights `json:"challenges_insights"`
}

// Record is the durable daily update. It is created optimistically on form
// submission; the analysis fields are attached later without changing
// identity or creation time.
type Record struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	UpdateInput

	AISummary     string   `json:"aiSummary,omitempty"`
	MomentumScore int      `json:"momentumScore,omitempty"`
	Risks         []string `json:"risks,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
	Actions       []string `json:"actions,omitempty"`
	Checklist     []string `json:"checklist,omitempty"`
}

// RecordID implements store.Record.
func (r Record) RecordID() string {
	return r.ID
}

// analyzeRequest is the wire shape of the daily analysis call. Historical
// records are stripped to the five sections so internal fields (id,
// summary) never leak to the analysis service.
type analyzeRequest struct {
	Update          UpdateInput            `json:"update"`
	Historical      []UpdateInput          `json:"historical"`
	PredictedDemand map[string]interface{} `json:"predicted_demand"`
}

// AnalysisResult is the successful daily analysis response.
type AnalysisResult struct {
	Summary       string   `json:"summary"`
	MomentumScore int      `json:"momentum_score"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	Actions       []string `json:"actions"`
	Checklist     []string `json:"checklist"`
}
