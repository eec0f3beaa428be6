package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpadp "github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/http"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/lock"
	idempotency "github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/middleware"
	"github.com/mosessifuna20/gatimbi-library-portal/internal/adapter/notify"
	sweepuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/sweep"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background workers",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	h := httpadp.NewHandler().
		WithDependency("mysql", sqlDB).
		WithDependency("redis", redisPinger{rdb: a.rdb})

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, h,
		httpadp.NewFineHandler(a.ledger),
		httpadp.NewAdminHandler(a.sweep, a.ledger, a.settings),
		idempotency.IdempotencyMiddleware(a.rdb, a.cfg.IdempotencyTTL()),
	)

	var wg sync.WaitGroup
	if a.cfg.SweepEnabled {
		runner := sweepuc.NewRunner(a.sweep, a.ledger, lock.NewRedisLocker(a.rdb), a.cfg.SweepInterval.Duration)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Start(ctx)
		}()
	}
	if a.cfg.NotifyWorker {
		consumer := notify.NewConsumer(a.rdb, notify.LogSender{}, a.cfg.NotifyStream, a.cfg.NotifyGroup, a.cfg.NotifyConsumer)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil {
				log.Printf("notify: consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + a.cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	wg.Wait()
	return nil
}
