package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/homestead/homestead-go/internal/config"
	"github.com/homestead/homestead-go/internal/content"
	"github.com/homestead/homestead-go/internal/convertkit"
	"github.com/homestead/homestead-go/internal/discord"
	"github.com/homestead/homestead-go/internal/email"
	"github.com/homestead/homestead-go/internal/handler"
	"github.com/homestead/homestead-go/internal/middleware"
	"github.com/homestead/homestead-go/internal/repository"
	"github.com/homestead/homestead-go/internal/service"
	"github.com/homestead/homestead-go/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	secure := cfg.Env == "production"

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(context.Background(), db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	mailer := email.NewMailer(cfg.Email)
	tagger := convertkit.NewClient(cfg.ConvertKitAPIKey, cfg.ConvertKitTagID)
	discordClient := discord.NewClient(cfg.DiscordClientID, cfg.DiscordClientSecret)

	authService := service.NewAuthService(users, mailer, tagger, cfg.SessionSecret, cfg.MagicLinkExpiry)
	profileService := service.NewProfileService(users, discordClient)

	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionExpiry, secure)
	logins := session.NewLoginStore(cfg.SessionSecret, cfg.MagicLinkExpiry, secure)

	contentStore := content.NewStore(cfg.ContentDir)

	authHandler := handler.NewAuthHandler(authService, sessions, logins, cfg.BaseURL)
	profileHandler := handler.NewProfileHandler(profileService, authService, discordClient, cfg.BaseURL)
	contentHandler := handler.NewContentHandler(contentStore, cfg.BaseURL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CurrentUser(sessions, authService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", contentHandler.HandleHome)
	r.Get("/blog/rss.xml", contentHandler.HandleRSS)
	r.Get("/blog/{slug}", contentHandler.HandlePage(content.BlogDir))
	r.Get("/workshops/{slug}", contentHandler.HandlePage("workshops"))

	// Token-minting routes carry a per-IP rate limit.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Get("/login", middleware.RequireAnonymous(authHandler.HandleLoginPage))
		r.Post("/login", middleware.RequireAnonymous(authHandler.HandleLoginSubmit))
		r.Get("/magic", middleware.RequireAnonymous(authHandler.HandleMagic))
	})

	r.Get("/signup", middleware.RequireAnonymous(authHandler.HandleSignupPage))
	r.Post("/signup", middleware.RequireAnonymous(authHandler.HandleSignupSubmit))
	r.Get("/logout", authHandler.HandleLogout)

	r.Get("/me", middleware.RequireUser(profileHandler.HandleProfilePage))
	r.Post("/me", middleware.RequireUser(profileHandler.HandleProfileSubmit))
	r.Get("/discord/callback", middleware.RequireUser(profileHandler.HandleDiscordCallback))

	r.Get("/{slug}", contentHandler.HandlePage("pages"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
