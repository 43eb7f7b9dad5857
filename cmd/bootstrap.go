package cmd

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meinhoongagan/therapy-booking/config"
	"github.com/meinhoongagan/therapy-booking/db"
	"github.com/meinhoongagan/therapy-booking/logger"
)

type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: conn}, nil
}

func (r *runtime) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		sqlDB.Close()
	}
	r.log.Sync()
}
