package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dailymd-dev/dailymd/internal/config"
	"github.com/dailymd-dev/dailymd/internal/email"
	"github.com/dailymd-dev/dailymd/internal/handler"
	"github.com/dailymd-dev/dailymd/internal/jwt"
	"github.com/dailymd-dev/dailymd/internal/logger"
	"github.com/dailymd-dev/dailymd/internal/router"
	"github.com/dailymd-dev/dailymd/internal/service"
	"github.com/dailymd-dev/dailymd/internal/storage/pg"
)

func main() {
	// Local development secrets; absence is fine in deployed environments.
	_ = godotenv.Load()

	configFolder := os.Getenv("CONFIG_FOLDER")
	if configFolder == "" {
		configFolder = "./config"
	}
	cfg := config.MustLoad(configFolder)

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	storage, err := pg.New(&cfg.Public.Pg)
	if err != nil {
		logger.Log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	mailer := email.New(&cfg.Private.Email, cfg.Public.SiteURL)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	users := service.NewUser(storage, mailer, jwtService)
	blogs := service.NewBlog(storage)
	subscriptions := service.NewSubscription(storage)
	resets := service.NewReset(storage, mailer)

	h := handler.New(users, blogs, subscriptions, resets)
	r := router.New(h, jwtService)

	addr := ":" + cfg.Public.Port
	logger.Log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
