package repos

import (
	"time"

	"shelfaware/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OfferRepo struct{ db *sqlx.DB }

func NewOfferRepo(db *sqlx.DB) *OfferRepo { return &OfferRepo{db: db} }

type offerRow struct {
	ID          string `db:"id"`
	Zip         string `db:"zip"`
	Title       string `db:"title"`
	Category    string `db:"category"`
	DiscountBps int    `db:"discount_bps"`
	StartsAt    string `db:"starts_at"`
	EndsAt      string `db:"ends_at"`
}

func (row offerRow) toDomain() domain.StoreOffer {
	starts, _ := time.Parse(time.RFC3339, row.StartsAt)
	ends, _ := time.Parse(time.RFC3339, row.EndsAt)
	return domain.StoreOffer{
		ID:          row.ID,
		Zip:         row.Zip,
		Title:       row.Title,
		Category:    row.Category,
		DiscountBps: row.DiscountBps,
		StartsAt:    starts,
		EndsAt:      ends,
	}
}

// ByZip returns offers for a ZIP ordered by discount, best first.
func (r *OfferRepo) ByZip(zip string) ([]domain.StoreOffer, error) {
	var rows []offerRow
	err := r.db.Select(&rows, `
		SELECT id, zip, title, category, discount_bps, starts_at, ends_at
		FROM offers
		WHERE zip = ?
		ORDER BY discount_bps DESC, id
	`, zip)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StoreOffer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// LiveByZip filters ByZip down to offers whose window covers now.
func (r *OfferRepo) LiveByZip(zip string, now time.Time) ([]domain.StoreOffer, error) {
	all, err := r.ByZip(zip)
	if err != nil {
		return nil, err
	}
	live := all[:0]
	for _, o := range all {
		if o.Live(now) {
			live = append(live, o)
		}
	}
	return live, nil
}
