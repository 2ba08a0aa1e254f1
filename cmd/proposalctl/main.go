// Package main provides proposalctl, an operator tool for the saved
// proposals of a proposalcraft deployment.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/proposalcraft/proposalcraft-backend/config"
	"github.com/proposalcraft/proposalcraft-backend/internal/bootstrap"
	"github.com/proposalcraft/proposalcraft-backend/internal/logger"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/repository"
	"github.com/proposalcraft/proposalcraft-backend/internal/proposals/templates"
)

const (
	Version = "0.1.0"
	appName = "proposalctl"
)

func main() {
	if err := rootCmd(defaultEnv()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env opens the collaborators a command needs. Tests swap it out.
type env struct {
	openRepo    func(ctx context.Context) (repository.ProposalRepository, func(), error)
	loadCatalog func() (*templates.Catalog, error)
}

func defaultEnv() env {
	return env{
		openRepo: func(ctx context.Context) (repository.ProposalRepository, func(), error) {
			cfg, err := loadConfig()
			if err != nil {
				return nil, nil, err
			}
			st, err := bootstrap.OpenStorage(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return st.Repo, st.Close, nil
		},
		loadCatalog: func() (*templates.Catalog, error) {
			cfg, err := loadConfig()
			if err != nil {
				return nil, err
			}
			return templates.Load(cfg.Storage.TemplatesFile)
		},
	}
}

// loadConfig reads the API configuration and keeps logs on stderr quiet
// unless LOG_LEVEL asks otherwise.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	if _, err := logger.New(cfg.App.Environment, level); err != nil {
		zap.L().Warn("logger setup failed", zap.Error(err))
	}
	return cfg, nil
}
