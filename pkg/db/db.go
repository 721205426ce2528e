// Package db opens the shared gorm handle.
package db

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/kongfuworld/settlement/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	prometheusplugin "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Provide(SQLDB),
)

func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN)
	case "postgres", "":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gdb.Use(otelgorm.NewPlugin()); err != nil {
		return nil, err
	}
	if cfg.Database.Driver != "sqlite" {
		if err := gdb.Use(prometheusplugin.New(prometheusplugin.Config{
			DBName:          "settlement",
			RefreshInterval: 15,
		})); err != nil {
			return nil, err
		}
	}

	return gdb, nil
}

func SQLDB(gdb *gorm.DB) (*sql.DB, error) {
	return gdb.DB()
}
