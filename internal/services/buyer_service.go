package services

import (
	"database/sql"
	"errors"
	"time"

	"shelfaware/internal/domain"
	"shelfaware/internal/repos"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// BuyerService owns every buyer-profile mutation. Each one recomputes
// derived item statuses and refreshes lastUpdated before persisting.
type BuyerService struct {
	Profiles *repos.ProfileRepo
	Now      func() time.Time // test hook, defaults to time.Now UTC
}

func (s *BuyerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *BuyerService) Get(userID string) (*domain.BuyerProfile, error) {
	p, err := s.Profiles.Buyer(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Refresh(s.now())
	return p, nil
}

// UpdateProfile upserts household attributes and goals.
func (s *BuyerService) UpdateProfile(userID string, household domain.Household, goals []string) (*domain.BuyerProfile, error) {
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		p.Household = household
		if goals != nil {
			p.Goals = goals
		}
		return nil
	})
}

// AddItem appends a pantry item; id and status are assigned server-side.
func (s *BuyerService) AddItem(userID string, item domain.PantryItem) (*domain.BuyerProfile, error) {
	item.ID = uuid.NewString()
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		p.Inventory = append(p.Inventory, item)
		return nil
	})
}

func (s *BuyerService) RemoveItem(userID, itemID string) (*domain.BuyerProfile, error) {
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		for i, it := range p.Inventory {
			if it.ID == itemID {
				p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *BuyerService) AddPurchase(userID string, purchase domain.Purchase) (*domain.BuyerProfile, error) {
	purchase.ID = uuid.NewString()
	if purchase.PurchasedAt.IsZero() {
		purchase.PurchasedAt = s.now()
	}
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		p.Purchases = append(p.Purchases, purchase)
		return nil
	})
}

func (s *BuyerService) AddEvent(userID string, ev domain.Event) (*domain.BuyerProfile, error) {
	ev.ID = uuid.NewString()
	if ev.Items == nil {
		ev.Items = []domain.EventItem{}
	}
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		p.Events = append(p.Events, ev)
		return nil
	})
}

func (s *BuyerService) RemoveEvent(userID, eventID string) (*domain.BuyerProfile, error) {
	return s.mutate(userID, func(p *domain.BuyerProfile) error {
		for i, ev := range p.Events {
			if ev.ID == eventID {
				p.Events = append(p.Events[:i], p.Events[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// ShoppingList returns the event items not covered by usable pantry stock.
func (s *BuyerService) ShoppingList(userID, eventID string) ([]domain.EventItem, error) {
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	for _, ev := range p.Events {
		if ev.ID == eventID {
			return p.ShoppingList(ev, s.now()), nil
		}
	}
	return nil, ErrNotFound
}

func (s *BuyerService) mutate(userID string, fn func(*domain.BuyerProfile) error) (*domain.BuyerProfile, error) {
	p, err := s.Profiles.Buyer(userID)
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
	if err := s.Profiles.SaveBuyer(p); err != nil {
		return nil, err
	}
	return p, nil
}
