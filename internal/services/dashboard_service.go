package services

import (
	"context"
	"time"

	"shelfaware/internal/domain"
	"shelfaware/internal/repos"
)

// DashboardService assembles dashboard payloads: derived metrics, a few
// headline counts, zip-matched offers and coaching insights.
type DashboardService struct {
	Buyers   *BuyerService
	Sellers  *SellerService
	Offers   *repos.OfferRepo
	Insights *InsightService
	Now      func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DashboardService) Buyer(ctx context.Context, userID string) (*domain.BuyerDashboard, error) {
	p, err := s.Buyers.Get(userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	m := BuyerMetricsFor(p, now)

	var offers []domain.StoreOffer
	if p.Household.Zip != "" {
		offers, err = s.Offers.LiveByZip(p.Household.Zip, now)
		if err != nil {
			return nil, err
		}
	}
	if offers == nil {
		offers = []domain.StoreOffer{}
	}

	d := &domain.BuyerDashboard{
		Metrics:       m,
		ItemCount:     len(p.Inventory),
		Spent30dCents: spentSince(p.Purchases, now.Add(-30*24*time.Hour)),
		Offers:        offers,
	}
	for _, it := range p.Inventory {
		switch it.Status {
		case domain.ItemExpiring:
			d.ExpiringCount++
		case domain.ItemExpired:
			d.ExpiredCount++
		}
	}
	for _, ev := range p.Events {
		if !ev.Date.Before(now) {
			d.UpcomingEvents++
		}
	}

	d.Insights = s.Insights.ForBuyer(ctx, p, m, offers)
	return d, nil
}

func (s *DashboardService) Seller(ctx context.Context, userID string) (*domain.SellerDashboard, error) {
	p, err := s.Sellers.Get(userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	m := SellerMetricsFor(p, now)

	d := &domain.SellerDashboard{
		Metrics:  m,
		SKUCount: len(p.Inventory),
	}
	for _, it := range p.Inventory {
		if it.Status == domain.StockLow || it.Status == domain.StockOut {
			d.LowStockCount++
		}
		if it.SpoilageRisk == domain.SpoilageHigh {
			d.HighSpoilage++
		}
	}
	for _, pr := range p.Promotions {
		if pr.Active(now) {
			d.ActivePromotions++
		}
	}

	d.Insights = s.Insights.ForSeller(ctx, p, m)
	return d, nil
}

// BuyerMetricsFor derives the four buyer scores. All are 0..100.
func BuyerMetricsFor(p *domain.BuyerProfile, now time.Time) domain.BuyerMetrics {
	m := domain.BuyerMetrics{BudgetHealth: 100, EventReadiness: 100, PantryHealth: 100}

	var countable, fresh, expiring, expired int
	for _, it := range p.Inventory {
		st := domain.PantryStatus(it.Quantity, it.ExpiresAt, now)
		if st == domain.ItemDepleted {
			continue
		}
		countable++
		switch st {
		case domain.ItemFresh:
			fresh++
		case domain.ItemExpiring:
			expiring++
		case domain.ItemExpired:
			expired++
		}
	}
	if countable > 0 {
		m.WasteRisk = 100 * (float64(expired) + 0.6*float64(expiring)) / float64(countable)
		m.PantryHealth = 100 * float64(fresh) / float64(countable)
	}

	if p.Household.BudgetCents > 0 {
		spent := spentSince(p.Purchases, now.Add(-30*24*time.Hour))
		ratio := float64(spent) / float64(p.Household.BudgetCents)
		m.BudgetHealth = 100 * clamp01(1-ratio)
	}

	var upcoming int
	var readiness float64
	for _, ev := range p.Events {
		if ev.Date.Before(now) {
			continue
		}
		upcoming++
		if len(ev.Items) == 0 {
			readiness += 1
			continue
		}
		missing := p.ShoppingList(ev, now)
		readiness += float64(len(ev.Items)-len(missing)) / float64(len(ev.Items))
	}
	if upcoming > 0 {
		m.EventReadiness = 100 * readiness / float64(upcoming)
	}

	return m
}

// SellerMetricsFor derives the four seller scores. All are 0..100.
func SellerMetricsFor(p *domain.SellerProfile, now time.Time) domain.SellerMetrics {
	var m domain.SellerMetrics

	var sold int
	cutoff := now.Add(-28 * 24 * time.Hour)
	for _, snap := range p.Sales {
		if !snap.WeekStart.Before(cutoff) {
			sold += snap.UnitsSold
		}
	}
	var stock int
	for _, it := range p.Inventory {
		stock += it.Stock
	}
	if sold+stock > 0 {
		m.SellThrough = 100 * float64(sold) / float64(sold+stock)
	}

	var perishable, high, medium int
	for _, it := range p.Inventory {
		if !it.Perishable {
			continue
		}
		perishable++
		switch domain.SpoilageBucket(true, it.DaysOnHand) {
		case domain.SpoilageHigh:
			high++
		case domain.SpoilageMedium:
			medium++
		}
	}
	if perishable > 0 {
		m.SpoilageRisk = 100 * (float64(high) + 0.5*float64(medium)) / float64(perishable)
	}

	var active int
	var momentum float64
	for _, pr := range p.Promotions {
		if !pr.Active(now) {
			continue
		}
		active++
		if pr.Target > 0 {
			momentum += clamp01(float64(pr.Redemptions) / float64(pr.Target))
		} else if pr.Redemptions > 0 {
			momentum += 1
		}
	}
	if active > 0 {
		m.PromotionMomentum = 100 * momentum / float64(active)
	}

	var signals int
	var conf float64
	sigCutoff := now.Add(-30 * 24 * time.Hour)
	for _, sig := range p.DemandSignals {
		if sig.ObservedAt.Before(sigCutoff) {
			continue
		}
		signals++
		conf += sig.Confidence
	}
	if signals > 0 {
		m.DemandConfidence = 100 * conf / float64(signals)
	}

	return m
}

func spentSince(purchases []domain.Purchase, since time.Time) int64 {
	var total int64
	for _, pu := range purchases {
		if !pu.PurchasedAt.Before(since) {
			total += pu.TotalCents
		}
	}
	return total
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
