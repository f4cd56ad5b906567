package domain

// BuyerMetrics are 0..100 scores derived from a buyer profile.
type BuyerMetrics struct {
	WasteRisk      float64 `json:"wasteRisk"`
	PantryHealth   float64 `json:"pantryHealth"`
	BudgetHealth   float64 `json:"budgetHealth"`
	EventReadiness float64 `json:"eventReadiness"`
}

// SellerMetrics are 0..100 scores derived from a seller profile.
type SellerMetrics struct {
	SellThrough       float64 `json:"sellThrough"`
	SpoilageRisk      float64 `json:"spoilageRisk"`
	PromotionMomentum float64 `json:"promotionMomentum"`
	DemandConfidence  float64 `json:"demandConfidence"`
}

type BuyerDashboard struct {
	Metrics        BuyerMetrics `json:"metrics"`
	ItemCount      int          `json:"itemCount"`
	ExpiringCount  int          `json:"expiringCount"`
	ExpiredCount   int          `json:"expiredCount"`
	UpcomingEvents int          `json:"upcomingEvents"`
	Spent30dCents  int64        `json:"spent30dCents"`
	Offers         []StoreOffer `json:"offers"`
	Insights       []Insight    `json:"insights"`
}

type SellerDashboard struct {
	Metrics          SellerMetrics `json:"metrics"`
	SKUCount         int           `json:"skuCount"`
	LowStockCount    int           `json:"lowStockCount"`
	HighSpoilage     int           `json:"highSpoilageCount"`
	ActivePromotions int           `json:"activePromotions"`
	Insights         []Insight     `json:"insights"`
}
