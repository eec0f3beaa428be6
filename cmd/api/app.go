package main

import (
	"context"
	"fmt"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/notify"
	mysqlrepo "github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/repository/mysql"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/config"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/cache"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/db"
	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"
	settingsuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/settings"
	sweepuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/sweep"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app holds everything the subcommands share.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	rdb      *redis.Client
	loans    *mysqlrepo.LoanRepository
	fines    *mysqlrepo.FineRepository
	ledger   *fineuc.Usecase
	sweep    *sweepuc.Usecase
	settings *settingsuc.Usecase
}

// redisPinger adapts *redis.Client to the health check.
type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	settingsRepo := mysqlrepo.NewSettingsRepository(gdb)
	cfgUC := settingsuc.NewUsecase(settingsRepo, fineuc.CheckSetting)
	if err := cfgUC.Seed(ctx, fineuc.DefaultSettings()); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("open redis %s: %w", cfg.RedisAddr, err)
	}

	a := &app{
		cfg:      cfg,
		db:       gdb,
		rdb:      rdb,
		loans:    mysqlrepo.NewLoanRepository(gdb),
		fines:    mysqlrepo.NewFineRepository(gdb),
		settings: cfgUC,
	}

	ledger := fineuc.NewUsecase(
		mysqlrepo.NewGormUoW(gdb),
		a.loans,
		a.fines,
		mysqlrepo.NewUserRepository(gdb),
		settingsRepo,
		notify.NewRedisPublisher(rdb, cfg.NotifyStream),
	)
	a.ledger = ledger
	a.sweep = sweepuc.NewUsecase(a.loans, a.fines, ledger, cfg.SweepPerLoanTimeout.Duration)
	return a, nil
}

func (a *app) Close() {
	_ = a.rdb.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
