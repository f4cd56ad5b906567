package repos

import (
	"encoding/json"
	"time"

	"shelfaware/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ProfileRepo persists buyer and seller profiles as one JSON document
// per user. Callers get sql.ErrNoRows when no profile exists yet.
type ProfileRepo struct{ DB *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

func (r *ProfileRepo) Buyer(userID string) (*domain.BuyerProfile, error) {
	doc, err := r.doc(userID, domain.RoleBuyer)
	if err != nil {
		return nil, err
	}
	var p domain.BuyerProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) Seller(userID string) (*domain.SellerProfile, error) {
	doc, err := r.doc(userID, domain.RoleSeller)
	if err != nil {
		return nil, err
	}
	var p domain.SellerProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) SaveBuyer(p *domain.BuyerProfile) error {
	return r.save(p.UserID, domain.RoleBuyer, p)
}

func (r *ProfileRepo) SaveSeller(p *domain.SellerProfile) error {
	return r.save(p.UserID, domain.RoleSeller, p)
}

func (r *ProfileRepo) doc(userID, role string) (string, error) {
	var doc string
	err := r.DB.Get(&doc, `SELECT doc FROM profiles WHERE user_id=? AND role=?`, userID, role)
	if err != nil {
		return "", err
	}
	return doc, nil
}

func (r *ProfileRepo) save(userID, role string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(`
		INSERT INTO profiles(user_id,role,doc,updated_at)
		VALUES(?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET role=excluded.role, doc=excluded.doc, updated_at=excluded.updated_at
	`, userID, role, string(doc), time.Now().UTC().Format(time.RFC3339))
	return err
}
