package handlers

import (
	"github.com/jmoiron/sqlx"

	"shelfaware/internal/ai"
	"shelfaware/internal/config"
	"shelfaware/internal/repos"
	"shelfaware/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler   *AuthHandler
	BuyerHandler  *BuyerHandler
	SellerHandler *SellerHandler
	OfferHandler  *OfferHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	profileRepo := repos.NewProfileRepo(db)
	offerRepo := repos.NewOfferRepo(db)

	authSvc := &services.AuthService{
		Users:    userRepo,
		Profiles: profileRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}
	buyerSvc := &services.BuyerService{Profiles: profileRepo}
	sellerSvc := &services.SellerService{Profiles: profileRepo}
	insightSvc := &services.InsightService{
		AI: ai.NewClient(ai.Config{
			APIKey:  cfg.AIAPIKey,
			URL:     cfg.AIAPIURL,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
		}),
	}
	dashSvc := &services.DashboardService{
		Buyers:   buyerSvc,
		Sellers:  sellerSvc,
		Offers:   offerRepo,
		Insights: insightSvc,
	}

	return &Deps{
		Auth:          authSvc,
		AuthHandler:   &AuthHandler{Auth: authSvc},
		BuyerHandler:  &BuyerHandler{Buyers: buyerSvc, Dash: dashSvc},
		SellerHandler: &SellerHandler{Sellers: sellerSvc, Dash: dashSvc},
		OfferHandler:  &OfferHandler{Offers: offerRepo},
	}
}
