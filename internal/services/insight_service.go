package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shelfaware/internal/ai"
	"shelfaware/internal/domain"
	"shelfaware/internal/metrics"

	"github.com/google/uuid"
)

const buyerSystem = `You are a household food-waste and budget coach for a grocery app. ` +
	`Reply with JSON only, no markdown, no code fences: ` +
	`{"insights":[{"category":"waste|pantry|budget|events","title":"...","body":"one or two sentences","priority":1-3,"action":"short imperative, optional"}]}. ` +
	`At most 5 insights, most important first.`

const sellerSystem = `You are a demand and spoilage forecaster for an independent grocer. ` +
	`Reply with JSON only, no markdown, no code fences: ` +
	`{"insights":[{"category":"stock|spoilage|promotion|demand","title":"...","body":"one or two sentences","priority":1-3,"action":"short imperative, optional"}]}. ` +
	`At most 5 insights, most important first.`

// InsightService produces dashboard insights: LLM first, deterministic
// heuristics whenever the model is disabled, fails, or replies with
// nothing usable. Dashboards always get at least one insight.
type InsightService struct {
	AI  ai.Completer
	Now func() time.Time
}

func (s *InsightService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *InsightService) ForBuyer(ctx context.Context, p *domain.BuyerProfile, m domain.BuyerMetrics, offers []domain.StoreOffer) []domain.Insight {
	if ins := s.fromAI(ctx, buyerSystem, buyerPrompt(p, m, offers)); ins != nil {
		return ins
	}
	ins := finalize(buyerFallback(p, m, offers, s.now()), domain.SourceHeuristic)
	metrics.InsightsGenerated.WithLabelValues(domain.SourceHeuristic).Add(float64(len(ins)))
	return ins
}

func (s *InsightService) ForSeller(ctx context.Context, p *domain.SellerProfile, m domain.SellerMetrics) []domain.Insight {
	if ins := s.fromAI(ctx, sellerSystem, sellerPrompt(p, m)); ins != nil {
		return ins
	}
	ins := finalize(sellerFallback(p, m, s.now()), domain.SourceHeuristic)
	metrics.InsightsGenerated.WithLabelValues(domain.SourceHeuristic).Add(float64(len(ins)))
	return ins
}

func (s *InsightService) fromAI(ctx context.Context, system, prompt string) []domain.Insight {
	if s.AI == nil {
		return nil
	}
	text, err := s.AI.Complete(ctx, system, prompt)
	if err != nil {
		if !errors.Is(err, ai.ErrDisabled) {
			metrics.AIFailures.Inc()
			slog.Warn("ai completion failed, using heuristics", "err", err)
		}
		return nil
	}
	ins, err := ai.ParseInsights(text)
	if err != nil {
		metrics.AIFailures.Inc()
		slog.Warn("ai reply unusable, using heuristics", "err", err)
		return nil
	}
	ins = finalize(ins, domain.SourceAI)
	metrics.InsightsGenerated.WithLabelValues(domain.SourceAI).Add(float64(len(ins)))
	return ins
}

// finalize stamps ids and source and fills empty categories.
func finalize(ins []domain.Insight, source string) []domain.Insight {
	for i := range ins {
		ins[i].ID = uuid.NewString()
		ins[i].Source = source
		if ins[i].Category == "" {
			ins[i].Category = domain.CatPantry
		}
	}
	return ins
}

func buyerPrompt(p *domain.BuyerProfile, m domain.BuyerMetrics, offers []domain.StoreOffer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Household of %d in zip %q, monthly budget %d cents.\n",
		p.Household.Size, p.Household.Zip, p.Household.BudgetCents)
	if len(p.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s.\n", strings.Join(p.Goals, "; "))
	}
	fmt.Fprintf(&b, "Scores (0-100): wasteRisk=%.0f pantryHealth=%.0f budgetHealth=%.0f eventReadiness=%.0f.\n",
		m.WasteRisk, m.PantryHealth, m.BudgetHealth, m.EventReadiness)

	var expiring []string
	for _, it := range p.Inventory {
		if it.Status == domain.ItemExpiring || it.Status == domain.ItemExpired {
			expiring = append(expiring, fmt.Sprintf("%s (%s, %s)", it.Name, it.Category, strings.ToLower(it.Status)))
		}
		if len(expiring) == 8 {
			break
		}
	}
	if len(expiring) > 0 {
		fmt.Fprintf(&b, "At-risk items: %s.\n", strings.Join(expiring, ", "))
	}
	for _, ev := range p.Events {
		fmt.Fprintf(&b, "Event %q on %s for %d guests, %d items planned.\n",
			ev.Name, ev.Date.Format("2006-01-02"), ev.GuestCount, len(ev.Items))
	}
	for _, o := range offers {
		fmt.Fprintf(&b, "Local offer: %s (%s, %d%% off).\n", o.Title, o.Category, o.DiscountBps/100)
	}
	return b.String()
}

func sellerPrompt(p *domain.SellerProfile, m domain.SellerMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Store %q in zip %q, %d SKUs tracked.\n", p.Store.Name, p.Store.Zip, len(p.Inventory))
	if len(p.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s.\n", strings.Join(p.Goals, "; "))
	}
	fmt.Fprintf(&b, "Scores (0-100): sellThrough=%.0f spoilageRisk=%.0f promotionMomentum=%.0f demandConfidence=%.0f.\n",
		m.SellThrough, m.SpoilageRisk, m.PromotionMomentum, m.DemandConfidence)

	var risky []string
	for _, it := range p.Inventory {
		if it.SpoilageRisk == domain.SpoilageHigh || it.Status == domain.StockLow || it.Status == domain.StockOut {
			risky = append(risky, fmt.Sprintf("%s [%s, spoilage %s, stock %d/par %d]",
				it.SKU, it.Status, it.SpoilageRisk, it.Stock, it.ParLevel))
		}
		if len(risky) == 8 {
			break
		}
	}
	if len(risky) > 0 {
		fmt.Fprintf(&b, "Attention SKUs: %s.\n", strings.Join(risky, ", "))
	}
	for _, sig := range p.DemandSignals {
		fmt.Fprintf(&b, "Demand signal: %s %s (%s, confidence %.2f).\n", sig.SKU, sig.Direction, sig.Source, sig.Confidence)
	}
	for _, pr := range p.Promotions {
		fmt.Fprintf(&b, "Promotion on %s: %d%% off, %d/%d redemptions.\n", pr.SKU, pr.DiscountBps/100, pr.Redemptions, pr.Target)
	}
	return b.String()
}

func buyerFallback(p *domain.BuyerProfile, m domain.BuyerMetrics, offers []domain.StoreOffer, now time.Time) []domain.Insight {
	var out []domain.Insight

	var expiring, expired []string
	for _, it := range p.Inventory {
		switch it.Status {
		case domain.ItemExpiring:
			if len(expiring) < 3 {
				expiring = append(expiring, it.Name)
			}
		case domain.ItemExpired:
			if len(expired) < 3 {
				expired = append(expired, it.Name)
			}
		}
	}

	if m.WasteRisk >= 40 && len(expiring) > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatWaste,
			Title:    "Use these before they turn",
			Body:     fmt.Sprintf("%s will expire within days. Plan meals around them first.", strings.Join(expiring, ", ")),
			Priority: 1,
			Action:   "Cook expiring items first",
		})
	}
	if len(expired) > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatWaste,
			Title:    "Expired items in the pantry",
			Body:     fmt.Sprintf("%s already expired. Clear them out so counts stay honest.", strings.Join(expired, ", ")),
			Priority: 2,
			Action:   "Remove expired items",
		})
	}
	if m.BudgetHealth < 40 && p.Household.BudgetCents > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatBudget,
			Title:    "Budget is running hot",
			Body:     "Recent purchases have used most of this month's grocery budget.",
			Priority: 1,
			Action:   "Shop from the pantry this week",
		})
	}
	if m.EventReadiness < 70 {
		for _, ev := range p.Events {
			if ev.Date.Before(now) {
				continue
			}
			missing := p.ShoppingList(ev, now)
			if len(missing) > 0 {
				out = append(out, domain.Insight{
					Category: domain.CatEvents,
					Title:    fmt.Sprintf("%q still needs %d items", ev.Name, len(missing)),
					Body:     "The derived shopping list has gaps your pantry can't cover.",
					Priority: 2,
					Action:   "Review the shopping list",
				})
				break
			}
		}
	}
	if len(offers) > 0 && len(out) < ai.MaxInsights {
		o := offers[0]
		out = append(out, domain.Insight{
			Category: domain.CatBudget,
			Title:    "A local offer matches your zip",
			Body:     fmt.Sprintf("%s is running near you (%d%% off).", o.Title, o.DiscountBps/100),
			Priority: 3,
		})
	}
	if len(out) == 0 {
		out = append(out, domain.Insight{
			Category: domain.CatPantry,
			Title:    "Pantry is in good shape",
			Body:     "Nothing is expiring soon and spending is on track. Keep logging purchases to keep forecasts sharp.",
			Priority: 3,
		})
	}
	if len(out) > ai.MaxInsights {
		out = out[:ai.MaxInsights]
	}
	return out
}

func sellerFallback(p *domain.SellerProfile, m domain.SellerMetrics, now time.Time) []domain.Insight {
	var out []domain.Insight

	var risky []string
	for _, it := range p.Inventory {
		if it.SpoilageRisk == domain.SpoilageHigh && len(risky) < 3 {
			risky = append(risky, it.SKU)
		}
	}
	if m.SpoilageRisk >= 40 && len(risky) > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatSpoilage,
			Title:    "High spoilage risk on the shelf",
			Body:     fmt.Sprintf("%s have been sitting too long. Markdown or donate before they're a write-off.", strings.Join(risky, ", ")),
			Priority: 1,
			Action:   "Run a markdown",
		})
	}

	var low []string
	for _, it := range p.Inventory {
		if (it.Status == domain.StockLow || it.Status == domain.StockOut) && len(low) < 3 {
			low = append(low, it.SKU)
		}
	}
	if len(low) > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatStock,
			Title:    "Below par and losing sales",
			Body:     fmt.Sprintf("%s are under par level. Reorder before the weekend rush.", strings.Join(low, ", ")),
			Priority: 1,
			Action:   "Reorder under-par SKUs",
		})
	}
	if m.SellThrough < 30 && len(p.Inventory) > 0 {
		out = append(out, domain.Insight{
			Category: domain.CatStock,
			Title:    "Sell-through is lagging",
			Body:     "Stock is outpacing recent sales. Consider trimming the next order or promoting slow movers.",
			Priority: 2,
		})
	}

	var activePromos int
	for _, pr := range p.Promotions {
		if pr.Active(now) {
			activePromos++
		}
	}
	if activePromos > 0 && m.PromotionMomentum < 30 {
		out = append(out, domain.Insight{
			Category: domain.CatPromotion,
			Title:    "Promotions aren't landing",
			Body:     "Active promotions are well short of their redemption targets. Better placement or a deeper discount may help.",
			Priority: 2,
			Action:   "Reposition the promo display",
		})
	}
	if m.DemandConfidence >= 60 {
		for _, sig := range p.DemandSignals {
			if sig.Direction == "UP" {
				out = append(out, domain.Insight{
					Category: domain.CatDemand,
					Title:    fmt.Sprintf("Demand is building for %s", sig.SKU),
					Body:     fmt.Sprintf("A confident %s signal suggests stocking up ahead of the trend.", strings.ToLower(sig.Source)),
					Priority: 2,
					Action:   "Increase the next order",
				})
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, domain.Insight{
			Category: domain.CatStock,
			Title:    "Steady week",
			Body:     "Stock levels, spoilage and promotions all look healthy. Keep demand signals flowing in.",
			Priority: 3,
		})
	}
	if len(out) > ai.MaxInsights {
		out = out[:ai.MaxInsights]
	}
	return out
}
