package domain

import "time"

// StoreOffer is a zip-scoped promotional record. Offers are read-only
// through the API; they are seeded from disk or the built-in demo set.
type StoreOffer struct {
	ID          string    `json:"id"`
	Zip         string    `json:"zip"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	DiscountBps int       `json:"discountBps"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
}

// Live reports whether the offer window covers now.
func (o StoreOffer) Live(now time.Time) bool {
	return !now.Before(o.StartsAt) && now.Before(o.EndsAt)
}
