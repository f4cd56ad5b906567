package domain

// Insight sources.
const (
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"
)

// Insight categories by audience.
const (
	CatWaste     = "waste"
	CatPantry    = "pantry"
	CatBudget    = "budget"
	CatEvents    = "events"
	CatStock     = "stock"
	CatSpoilage  = "spoilage"
	CatPromotion = "promotion"
	CatDemand    = "demand"
)

// Insight is a coaching or forecast snippet shown on a dashboard,
// produced either by the LLM pipeline or by the heuristic fallback.
type Insight struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Priority int    `json:"priority"` // 1 = highest, 3 = lowest
	Action   string `json:"action,omitempty"`
	Source   string `json:"source"`
}
