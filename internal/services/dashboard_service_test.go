package services_test

import (
	"math"
	"testing"
	"time"

	"shelfaware/internal/domain"
	"shelfaware/internal/services"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s: got %.2f, want %.2f", name, got, want)
	}
}

func TestBuyerMetrics_Empty(t *testing.T) {
	m := services.BuyerMetricsFor(&domain.BuyerProfile{}, now)
	approx(t, "wasteRisk", m.WasteRisk, 0)
	approx(t, "pantryHealth", m.PantryHealth, 100)
	approx(t, "budgetHealth", m.BudgetHealth, 100)
	approx(t, "eventReadiness", m.EventReadiness, 100)
}

func TestBuyerMetrics(t *testing.T) {
	p := &domain.BuyerProfile{
		Household: domain.Household{BudgetCents: 50000},
		Inventory: []domain.PantryItem{
			{Name: "Yogurt", Quantity: 1, ExpiresAt: now.Add(-time.Hour)},            // expired
			{Name: "Spinach", Quantity: 1, ExpiresAt: now.Add(24 * time.Hour)},       // expiring
			{Name: "Rice", Quantity: 2, ExpiresAt: now.Add(90 * 24 * time.Hour)},     // fresh
			{Name: "Beans", Quantity: 2, ExpiresAt: now.Add(90 * 24 * time.Hour)},    // fresh
			{Name: "Empty jar", Quantity: 0, ExpiresAt: now.Add(24 * time.Hour)},     // depleted, ignored
		},
		Purchases: []domain.Purchase{
			{TotalCents: 20000, PurchasedAt: now.Add(-5 * 24 * time.Hour)},
			{TotalCents: 99999, PurchasedAt: now.Add(-45 * 24 * time.Hour)}, // outside window
		},
		Events: []domain.Event{
			{Date: now.Add(5 * 24 * time.Hour), Items: []domain.EventItem{
				{Name: "Rice", Quantity: 1},
				{Name: "Cake", Quantity: 1},
			}},
			{Date: now.Add(-24 * time.Hour)}, // past, ignored
		},
	}

	m := services.BuyerMetricsFor(p, now)
	// 4 countable: 1 expired + 0.6*1 expiring over 4
	approx(t, "wasteRisk", m.WasteRisk, 100*1.6/4)
	approx(t, "pantryHealth", m.PantryHealth, 50)
	// spent 20000 of 50000 -> 60 health
	approx(t, "budgetHealth", m.BudgetHealth, 60)
	// one upcoming event, 1 of 2 items covered
	approx(t, "eventReadiness", m.EventReadiness, 50)
}

func TestSellerMetrics_Empty(t *testing.T) {
	m := services.SellerMetricsFor(&domain.SellerProfile{}, now)
	approx(t, "sellThrough", m.SellThrough, 0)
	approx(t, "spoilageRisk", m.SpoilageRisk, 0)
	approx(t, "promotionMomentum", m.PromotionMomentum, 0)
	approx(t, "demandConfidence", m.DemandConfidence, 0)
}

func TestSellerMetrics(t *testing.T) {
	p := &domain.SellerProfile{
		Inventory: []domain.StockItem{
			{SKU: "milk-1l", Stock: 20, Perishable: true, DaysOnHand: 8},   // high spoilage
			{SKU: "berries", Stock: 10, Perishable: true, DaysOnHand: 5},   // medium
			{SKU: "pasta", Stock: 30, Perishable: false, DaysOnHand: 40},   // not counted
		},
		Sales: []domain.SalesSnapshot{
			{WeekStart: now.Add(-7 * 24 * time.Hour), UnitsSold: 40},
			{WeekStart: now.Add(-60 * 24 * time.Hour), UnitsSold: 500}, // outside window
		},
		Promotions: []domain.Promotion{
			{SKU: "milk-1l", StartsAt: now.Add(-24 * time.Hour), EndsAt: now.Add(24 * time.Hour), Redemptions: 30, Target: 100},
			{SKU: "pasta", StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(48 * time.Hour), Redemptions: 0, Target: 10}, // not active yet
		},
		DemandSignals: []domain.DemandSignal{
			{SKU: "berries", Confidence: 0.9, ObservedAt: now.Add(-2 * 24 * time.Hour)},
			{SKU: "milk-1l", Confidence: 0.5, ObservedAt: now.Add(-10 * 24 * time.Hour)},
			{SKU: "pasta", Confidence: 1.0, ObservedAt: now.Add(-40 * 24 * time.Hour)}, // stale
		},
	}

	m := services.SellerMetricsFor(p, now)
	// 40 sold vs 60 on hand
	approx(t, "sellThrough", m.SellThrough, 40)
	// 2 perishables: 1 high + 0.5*1 medium
	approx(t, "spoilageRisk", m.SpoilageRisk, 75)
	// one active promo at 30% of target
	approx(t, "promotionMomentum", m.PromotionMomentum, 30)
	// (0.9+0.5)/2
	approx(t, "demandConfidence", m.DemandConfidence, 70)
}
