// internal/idea/models.go
package idea

// WizardForm is the mutable draft held by an active wizard instance. It is
// never persisted; fields stay free-text with no uniqueness constraints.
type WizardForm struct {
	Title         string
	Description   string
	Category      string
	Location      string
	Budget        string
	Timeline      string
	TargetMarket  string
	Competitors   string
	UniqueValue   string
	BusinessModel string
	VoiceInput    string
	Attachments   []AttachmentMeta
}

// AttachmentMeta describes a file picked during the wizard flow.
type AttachmentMeta struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MediaType  string `json:"type"`
	StorageKey string `json:"storageKey,omitempty"`
}

// RequestPayload is the read-only snapshot sent to the analysis service.
// Every optional field carries omitempty so empty draft fields are absent
// from the wire payload rather than present as empty strings.
type RequestPayload struct {
	Title             string `json:"title,omitempty"`
	Description       string `json:"description,omitempty"`
	Category          string `json:"category,omitempty"`
	Location          string `json:"location,omitempty"`
	BudgetRange       string `json:"budgetRange,omitempty"`
	TimelineRange     string `json:"timelineRange,omitempty"`
	TargetMarket      string `json:"target_market_customers,omitempty"`
	Competitors       string `json:"key_competitors,omitempty"`
	UniqueValue       string `json:"unique_value_proposition,omitempty"`
	RevenueModel      string `json:"revenue_model,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// ModelSummary is one business model as the analysis service reports it.
type ModelSummary struct {
	Name              string  `json:"name"`
	ProjectedRevenueK float64 `json:"projectedRevenueK"`
	ProfitMarginPct   float64 `json:"profitMarginPct"`
	BreakEvenMonths   int     `json:"breakEvenMonths"`
}

// MarketAnalysisResult is the market sub-record of the service response.
type MarketAnalysisResult struct {
	MarketSizeUSD     float64 `json:"marketSizeUSD"`
	GrowthRatePct     float64 `json:"growthRatePct"`
	TargetCustomers   string  `json:"targetCustomers"`
	CompetitorCount   int     `json:"competitorCount"`
	MarketOpportunity string  `json:"marketOpportunity"`
}

// RiskItem and OpportunityItem pass through the service response unchanged.
type RiskItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type OpportunityItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// AnalysisResponse is the opaque analysis-service payload consumed by the
// transformer. Absent fields decode to their zero values.
type AnalysisResponse struct {
	SuccessScore          float64              `json:"successScore"`
	MarketAnalysis        MarketAnalysisResult `json:"marketAnalysis"`
	BusinessModelsSummary []ModelSummary       `json:"businessModelsSummary"`
	Risks                 []RiskItem           `json:"risks"`
	Opportunities         []OpportunityItem    `json:"opportunities"`
}

// StoredBusinessModel is the durable child record derived from a
// ModelSummary. RiskLevel is computed once from the margin at transform
// time and never recomputed, keeping display stable across sessions.
type StoredBusinessModel struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	RevenueDisplay  string  `json:"revenueDisplay"`
	ProfitMargin    string  `json:"profitMargin"`
	TimeToBreakeven string  `json:"timeToBreakeven"`
	RiskLevel       string  `json:"riskLevel"`
	RevenueK        float64 `json:"revenueK"`
	MarginPct       float64 `json:"marginPct"`
	ChurnPct        float64 `json:"churnPct"`
}

// StoredMarketAnalysis is the durable market sub-record.
type StoredMarketAnalysis struct {
	MarketSizeUSD     float64 `json:"marketSizeUSD"`
	GrowthRatePct     float64 `json:"growthRatePct"`
	TargetCustomers   string  `json:"targetCustomers"`
	CompetitorCount   int     `json:"competitorCount"`
	MarketOpportunity string  `json:"marketOpportunity"`
}

// StoredIdea is the stable local record independent of the raw service
// response shape. ID is immutable once created; LastUpdated is
// monotonically non-decreasing; BusinessModels order is stable
// (first-generated first) and referenced positionally by views.
type StoredIdea struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Category       string                `json:"category,omitempty"`
	Status         string                `json:"status"`
	SuccessScore   int                   `json:"successScore"`
	CreatedAt      string                `json:"createdAt"`
	LastUpdated    string                `json:"lastUpdated"`
	MarketAnalysis StoredMarketAnalysis  `json:"marketAnalysis"`
	BusinessModels []StoredBusinessModel `json:"businessModels"`
	Risks          []RiskItem            `json:"risks"`
	Opportunities  []OpportunityItem     `json:"opportunities"`
}

// RecordID implements store.Record.
func (i StoredIdea) RecordID() string {
	return i.ID
}

// UserFields are the draft fields carried into the stored record verbatim
// rather than taken from the service response.
type UserFields struct {
	Title       string
	Description string
	Category    string
}
