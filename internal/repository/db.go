package repository

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prokura/procure-backend/constants"
	"github.com/prokura/procure-backend/internal/common"
	"github.com/prokura/procure-backend/internal/entity"
)

type Config struct {
	Driver string // sqlite | mysql | postgres
	DSN    string
}

// Open connects to the configured database, migrates the schema, and seeds
// the commodity-group table.
func Open(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "local.db"
		}
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	logger.Info("connecting to database", "driver", cfg.Driver)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}

	if err := db.AutoMigrate(
		&entity.CommodityGroup{},
		&entity.ProcurementRequest{},
		&entity.OrderLine{},
		&entity.Attachment{},
		&entity.StatusEvent{},
	); err != nil {
		return nil, common.WrapError(err, "migrate")
	}

	if err := seedCommodityGroups(db); err != nil {
		return nil, common.WrapError(err, "seed commodity groups")
	}

	logger.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

func seedCommodityGroups(db *gorm.DB) error {
	rows := make([]entity.CommodityGroup, 0, len(constants.CommodityGroups))
	for _, g := range constants.CommodityGroups {
		rows = append(rows, entity.CommodityGroup{ID: g.ID, Category: g.Category, Name: g.Name})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
