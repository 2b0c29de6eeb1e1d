package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quickplate/quickplate/config"
	"github.com/quickplate/quickplate/database"
	"github.com/quickplate/quickplate/middlewares"
	"github.com/quickplate/quickplate/server"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Panicf("invalid configuration, error: %v", err)
	}
	middlewares.Init(cfg)

	if err := database.ConnectAndMigrate(cfg.DB); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Println("migration is successful")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	svr := server.SetupRoutes()
	go func() {
		if err := svr.Run(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("server stopped, error: %v", err)
		}
	}()
	logrus.Printf("listening on :%s", cfg.HTTPPort)

	<-done

	logrus.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeOut); err != nil {
		logrus.WithError(err).Error("failed to stop server cleanly!")
	}
	if err := database.Shutdown(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}
	logrus.Info("system is shut ..zzz")
}
