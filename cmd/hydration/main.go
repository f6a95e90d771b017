package main

import (
	"context"
	"errors"
	"net/http"

	adapthttp "hydration/internal/adapter/http"
	"hydration/internal/adapter/postgres"
	"hydration/internal/app"
	"hydration/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	intakeSvc := app.NewIntakeService(db)
	authSvc := app.NewAuthService(db, postgres.NewSessionRepo(db))

	oidcConfig, err := buildOIDC(context.Background(), cfg)
	if err != nil {
		logger.Fatal("oidc setup", zap.Error(err))
	}

	h := adapthttp.New(intakeSvc, authSvc, oidcConfig, logger).Handler()
	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}

func buildOIDC(ctx context.Context, cfg config.Config) (adapthttp.OIDCConfig, error) {
	if cfg.OIDCIssuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
