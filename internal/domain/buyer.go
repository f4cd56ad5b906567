package domain

import (
	"strings"
	"time"
)

// Pantry item statuses. Status is always derived from quantity and
// expiration; it is recomputed before every persist and never trusted
// from client input.
const (
	ItemFresh    = "FRESH"
	ItemExpiring = "EXPIRING"
	ItemExpired  = "EXPIRED"
	ItemDepleted = "DEPLETED"
)

// ExpiringWindow is how far ahead an item counts as EXPIRING.
const ExpiringWindow = 3 * 24 * time.Hour

type Household struct {
	Size         int    `json:"size"`
	Zip          string `json:"zip"`
	BudgetCents  int64  `json:"budgetCents"` // monthly grocery budget, 0 = unset
	DietaryNotes string `json:"dietaryNotes,omitempty"`
}

type PantryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	ExpiresAt time.Time `json:"expiresAt"`
	Status    string    `json:"status"`
}

type Purchase struct {
	ID          string    `json:"id"`
	StoreName   string    `json:"storeName"`
	TotalCents  int64     `json:"totalCents"`
	ItemCount   int       `json:"itemCount"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

type EventItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Event struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Date       time.Time   `json:"date"`
	GuestCount int         `json:"guestCount"`
	Items      []EventItem `json:"items"`
}

type BuyerProfile struct {
	UserID      string       `json:"userId"`
	Household   Household    `json:"household"`
	Goals       []string     `json:"goals"`
	Inventory   []PantryItem `json:"inventory"`
	Purchases   []Purchase   `json:"purchases"`
	Events      []Event      `json:"events"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// PantryStatus derives an item's status from quantity and expiration.
func PantryStatus(qty float64, expiresAt, now time.Time) string {
	if qty <= 0 {
		return ItemDepleted
	}
	if expiresAt.IsZero() {
		return ItemFresh
	}
	if expiresAt.Before(now) {
		return ItemExpired
	}
	if expiresAt.Sub(now) <= ExpiringWindow {
		return ItemExpiring
	}
	return ItemFresh
}

// Refresh recomputes every derived field on the profile.
func (p *BuyerProfile) Refresh(now time.Time) {
	for i := range p.Inventory {
		it := &p.Inventory[i]
		it.Status = PantryStatus(it.Quantity, it.ExpiresAt, now)
	}
}

// ShoppingList returns the event items not covered by usable pantry
// stock (name-insensitive match, expired/depleted items don't count).
func (p *BuyerProfile) ShoppingList(ev Event, now time.Time) []EventItem {
	missing := make([]EventItem, 0, len(ev.Items))
	for _, want := range ev.Items {
		if !p.covers(want, now) {
			missing = append(missing, want)
		}
	}
	return missing
}

func (p *BuyerProfile) covers(want EventItem, now time.Time) bool {
	for _, it := range p.Inventory {
		if !strings.EqualFold(it.Name, want.Name) {
			continue
		}
		st := PantryStatus(it.Quantity, it.ExpiresAt, now)
		if st == ItemExpired || st == ItemDepleted {
			continue
		}
		if it.Quantity >= want.Quantity {
			return true
		}
	}
	return false
}
