package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"helpdesk-system/backend/config"
	"helpdesk-system/backend/internal/repository"
	"helpdesk-system/backend/internal/service"
	"helpdesk-system/backend/pkg/database"
	"helpdesk-system/backend/pkg/jwt"
	applogger "helpdesk-system/backend/pkg/logger"
	"helpdesk-system/backend/pkg/redis"
)

// app holds the dependencies every subcommand shares.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client // nil when redis is unavailable
	jwtMgr *jwt.Manager
	svc    *service.Service
}

// newApp loads config, connects the database and wires the services.
// withRedis also connects redis; a failure there only disables the token
// blacklist and login rate limit.
func newApp(withRedis bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, db: db, jwtMgr: jwt.NewManager(&cfg.Auth)}

	if withRedis {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token blacklist and login rate limit disabled", zap.Error(err))
		} else {
			a.rdb = rdb
		}
	}

	// a nil *redis.Client inside the interface would not compare equal to nil
	var blacklist service.TokenBlacklist
	if a.rdb != nil {
		blacklist = a.rdb
	}

	a.svc = service.NewService(cfg, repository.NewRepository(db), a.jwtMgr, blacklist, logger)
	return a, nil
}

func (a *app) migrate() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return database.RunMigrations(sqlDB, a.logger)
}

func (a *app) close() {
	if sqlDB, _ := a.db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	_ = a.logger.Sync()
}
