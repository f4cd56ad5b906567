package services

import (
	"database/sql"
	"errors"
	"time"

	"shelfaware/internal/domain"
	"shelfaware/internal/repos"

	"github.com/google/uuid"
)

// SellerService owns seller-profile mutations, mirroring BuyerService.
type SellerService struct {
	Profiles *repos.ProfileRepo
	Now      func() time.Time
}

func (s *SellerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *SellerService) Get(userID string) (*domain.SellerProfile, error) {
	p, err := s.Profiles.Seller(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Refresh(s.now())
	return p, nil
}

func (s *SellerService) UpdateProfile(userID string, store domain.StoreInfo, goals []string) (*domain.SellerProfile, error) {
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		p.Store = store
		if goals != nil {
			p.Goals = goals
		}
		return nil
	})
}

// UpsertStock replaces the SKU's row if present, appends otherwise.
// Status and spoilage risk are derived, never taken from the request.
func (s *SellerService) UpsertStock(userID string, item domain.StockItem) (*domain.SellerProfile, error) {
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		for i, it := range p.Inventory {
			if it.SKU == item.SKU {
				p.Inventory[i] = item
				return nil
			}
		}
		p.Inventory = append(p.Inventory, item)
		return nil
	})
}

func (s *SellerService) RemoveStock(userID, sku string) (*domain.SellerProfile, error) {
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		for i, it := range p.Inventory {
			if it.SKU == sku {
				p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *SellerService) AddSignal(userID string, sig domain.DemandSignal) (*domain.SellerProfile, error) {
	sig.ID = uuid.NewString()
	if sig.ObservedAt.IsZero() {
		sig.ObservedAt = s.now()
	}
	if sig.Confidence < 0 {
		sig.Confidence = 0
	}
	if sig.Confidence > 1 {
		sig.Confidence = 1
	}
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		p.DemandSignals = append(p.DemandSignals, sig)
		return nil
	})
}

func (s *SellerService) AddPromotion(userID string, promo domain.Promotion) (*domain.SellerProfile, error) {
	promo.ID = uuid.NewString()
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		p.Promotions = append(p.Promotions, promo)
		return nil
	})
}

func (s *SellerService) RemovePromotion(userID, promoID string) (*domain.SellerProfile, error) {
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		for i, pr := range p.Promotions {
			if pr.ID == promoID {
				p.Promotions = append(p.Promotions[:i], p.Promotions[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *SellerService) AddSales(userID string, snap domain.SalesSnapshot) (*domain.SellerProfile, error) {
	if snap.WeekStart.IsZero() {
		snap.WeekStart = s.now()
	}
	return s.mutate(userID, func(p *domain.SellerProfile) error {
		p.Sales = append(p.Sales, snap)
		return nil
	})
}

func (s *SellerService) mutate(userID string, fn func(*domain.SellerProfile) error) (*domain.SellerProfile, error) {
	p, err := s.Profiles.Seller(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	now := s.now()
	p.Refresh(now)
	p.LastUpdated = now
	if err := s.Profiles.SaveSeller(p); err != nil {
		return nil, err
	}
	return p, nil
}
