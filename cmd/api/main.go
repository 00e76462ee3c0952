package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"marketlens/backend-go/internal/config"
	"marketlens/backend-go/internal/handlers"
	internalhttp "marketlens/backend-go/internal/http"
	"marketlens/backend-go/internal/services"
)

func main() {
	_ = godotenv.Load(
		".env",
		".env.local",
		"../.env",
		"../.env.local",
		"backend-go/.env",
		"backend-go/.env.local",
	)
	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(getLogLevel()); err == nil {
		logrus.SetLevel(lvl)
	}

	cache := services.NewCache(cfg)
	api := handlers.New(cfg, cache, clockwork.NewRealClock())
	h := internalhttp.NewRouter(cfg, api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logrus.WithField("addr", srv.Addr).Info("marketlens backend listening")
	if err := srv.ListenAndServe(); err != nil {
		logrus.Fatal(err)
	}
}

func getLogLevel() string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
