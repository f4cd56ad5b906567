package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shelfaware/internal/domain"
	"shelfaware/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
	ErrBadToken   = errors.New("invalid or expired token")
)

type AuthService struct {
	Users    *repos.UserRepo
	Profiles *repos.ProfileRepo
	Secret   []byte
	TokenTTL time.Duration
}

// Signup creates the account and provisions an empty role-appropriate
// profile in the same flow, then returns a signed access token.
func (s *AuthService) Signup(email, password, role, name string) (*domain.User, string, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	if err := s.ensureProfile(u); err != nil {
		return nil, "", err
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies credentials and provisions a profile on first login
// for accounts that predate profile provisioning.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	if err := s.ensureProfile(u); err != nil {
		return nil, "", err
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// UserFromToken validates a bearer token and loads its user.
func (s *AuthService) UserFromToken(tokenStr string) (*domain.User, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrBadToken
	}
	u, err := s.Users.ByID(sub)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}

func (s *AuthService) issueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *AuthService) ensureProfile(u *domain.User) error {
	now := time.Now().UTC()
	switch u.Role {
	case domain.RoleBuyer:
		if _, err := s.Profiles.Buyer(u.ID); errors.Is(err, sql.ErrNoRows) {
			return s.Profiles.SaveBuyer(&domain.BuyerProfile{
				UserID:      u.ID,
				Goals:       []string{},
				Inventory:   []domain.PantryItem{},
				Purchases:   []domain.Purchase{},
				Events:      []domain.Event{},
				LastUpdated: now,
			})
		} else if err != nil {
			return err
		}
	case domain.RoleSeller:
		if _, err := s.Profiles.Seller(u.ID); errors.Is(err, sql.ErrNoRows) {
			return s.Profiles.SaveSeller(&domain.SellerProfile{
				UserID:        u.ID,
				Goals:         []string{},
				Inventory:     []domain.StockItem{},
				DemandSignals: []domain.DemandSignal{},
				Promotions:    []domain.Promotion{},
				Sales:         []domain.SalesSnapshot{},
				LastUpdated:   now,
			})
		} else if err != nil {
			return err
		}
	}
	return nil
}
