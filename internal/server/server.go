package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/overbid-backend/internal/config"
	"github.com/shinyyama/overbid-backend/internal/handler"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	appmw "github.com/shinyyama/overbid-backend/internal/middleware"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"github.com/shinyyama/overbid-backend/internal/service"
	"github.com/shinyyama/overbid-backend/internal/signing"
	"gorm.io/gorm"
)

type Server struct {
	e   *echo.Echo
	dep service.Deployment
}

func New(cfg *config.Config, db *gorm.DB) (*Server, error) {
	dep, err := service.NewDeployment(cfg.ProgramID)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, rid string) {
			c.SetRequest(c.Request().WithContext(reqctx.WithRID(c.Request().Context(), rid)))
		},
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", signing.HeaderSigner, signing.HeaderSignature, signing.HeaderTimestamp},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(cfg.AllowedOriginSuffix),
	}))

	seq := ledger.NewSequencer(db)
	collectionSvc := service.NewCollectionService(seq, dep)
	issuanceSvc := service.NewIssuanceService(seq, dep)
	auctionSvc := service.NewAuctionService(seq, dep, cfg.BidIncrementHint)
	redemptionSvc := service.NewRedemptionService(seq, dep)
	assetSvc := service.NewAssetService(seq, cfg.BidIncrementHint)
	walletSvc := service.NewWalletService(seq, cfg.EnableAirdrop)

	collectionHandler := handler.NewCollectionHandler(collectionSvc)
	assetHandler := handler.NewAssetHandler(issuanceSvc, assetSvc)
	auctionHandler := handler.NewAuctionHandler(auctionSvc)
	redemptionHandler := handler.NewRedemptionHandler(redemptionSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)

	signer := appmw.NewSignerMiddleware(cfg.RequireSignatures, cfg.SignatureWindow, repository.NewSignatureRepository(db))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    cfg.GitSHA,
			"build_time": cfg.BuildTime,
			"collection": dep.Address,
		})
	})

	api := e.Group("/api")
	api.POST("/collection", collectionHandler.Initialize, signer.RequireSigner)
	api.GET("/collection", collectionHandler.Get)
	api.POST("/assets", assetHandler.Issue, signer.RequireSigner)
	api.GET("/assets/:address", assetHandler.Get)
	api.POST("/assets/:address/bids", auctionHandler.Bid, signer.RequireSigner)
	api.GET("/assets/:address/bids", assetHandler.ListBids)
	api.POST("/assets/:address/redeem", redemptionHandler.Redeem, signer.RequireSigner)
	api.POST("/assets/:address/transfer", assetHandler.Transfer, signer.RequireSigner)
	api.GET("/wallets/:address", walletHandler.Get)
	api.GET("/wallets/:address/redemptions", redemptionHandler.ListByHolder)
	if cfg.EnableAirdrop {
		api.POST("/wallets/:address/airdrop", walletHandler.Airdrop)
	}

	return &Server{e: e, dep: dep}, nil
}

// allowOrigin accepts localhost on any port and any https host ending in suffix.
func allowOrigin(suffix string) func(origin string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		if suffix != "" && strings.HasSuffix(u.Hostname(), suffix) {
			return true, nil
		}
		return false, nil
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Deployment() service.Deployment {
	return s.dep
}
