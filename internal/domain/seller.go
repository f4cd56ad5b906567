package domain

import "time"

// Stock statuses relative to par level.
const (
	StockHealthy   = "HEALTHY"
	StockLow       = "LOW"
	StockOverstock = "OVERSTOCK"
	StockOut       = "OUT_OF_STOCK"
)

// Spoilage risk buckets for perishable SKUs.
const (
	SpoilageLow    = "LOW"
	SpoilageMedium = "MEDIUM"
	SpoilageHigh   = "HIGH"
	SpoilageNone   = "NONE" // non-perishable
)

type StoreInfo struct {
	Name string `json:"name"`
	Zip  string `json:"zip"`
}

type StockItem struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Stock        int    `json:"stock"`
	ParLevel     int    `json:"parLevel"`
	DaysOnHand   int    `json:"daysOnHand"`
	Perishable   bool   `json:"perishable"`
	MarginBps    int    `json:"marginBps"`
	Status       string `json:"status"`
	SpoilageRisk string `json:"spoilageRisk"`
}

type DemandSignal struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Source     string    `json:"source"`
	Direction  string    `json:"direction"` // UP | DOWN | FLAT
	Confidence float64   `json:"confidence"`
	ObservedAt time.Time `json:"observedAt"`
}

type Promotion struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	DiscountBps int       `json:"discountBps"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Redemptions int       `json:"redemptions"`
	Target      int       `json:"target"`
}

// Active reports whether the promotion window covers now.
func (p Promotion) Active(now time.Time) bool {
	return !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

type SalesSnapshot struct {
	WeekStart    time.Time `json:"weekStart"`
	UnitsSold    int       `json:"unitsSold"`
	RevenueCents int64     `json:"revenueCents"`
}

type SellerProfile struct {
	UserID        string          `json:"userId"`
	Store         StoreInfo       `json:"store"`
	Goals         []string        `json:"goals"`
	Inventory     []StockItem     `json:"inventory"`
	DemandSignals []DemandSignal  `json:"demandSignals"`
	Promotions    []Promotion     `json:"promotions"`
	Sales         []SalesSnapshot `json:"sales"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}

// StockStatus derives a SKU's status from stock vs par level.
func StockStatus(stock, parLevel int) string {
	switch {
	case stock <= 0:
		return StockOut
	case parLevel > 0 && stock < parLevel:
		return StockLow
	case parLevel > 0 && stock > 2*parLevel:
		return StockOverstock
	default:
		return StockHealthy
	}
}

// SpoilageBucket derives spoilage risk from days on hand. Non-perishable
// SKUs never spoil.
func SpoilageBucket(perishable bool, daysOnHand int) string {
	if !perishable {
		return SpoilageNone
	}
	switch {
	case daysOnHand >= 7:
		return SpoilageHigh
	case daysOnHand >= 4:
		return SpoilageMedium
	default:
		return SpoilageLow
	}
}

// Refresh recomputes derived stock fields.
func (p *SellerProfile) Refresh(now time.Time) {
	for i := range p.Inventory {
		it := &p.Inventory[i]
		it.Status = StockStatus(it.Stock, it.ParLevel)
		it.SpoilageRisk = SpoilageBucket(it.Perishable, it.DaysOnHand)
	}
}
