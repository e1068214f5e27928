package postgres

import (
	"log"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.DashboardConfig) *gorm.DB {
	dsn := cfg.DashboardDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.DashboardDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DashboardDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db
}
