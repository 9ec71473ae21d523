package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/config"
	"github.com/nickfinder/nickfinder-api/internal/domain/auth"
	"github.com/nickfinder/nickfinder-api/internal/domain/block"
	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/domain/conversation"
	"github.com/nickfinder/nickfinder-api/internal/domain/friendship"
	"github.com/nickfinder/nickfinder-api/internal/domain/game"
	"github.com/nickfinder/nickfinder-api/internal/domain/gate"
	"github.com/nickfinder/nickfinder-api/internal/domain/moderation"
	"github.com/nickfinder/nickfinder-api/internal/domain/notification"
	"github.com/nickfinder/nickfinder-api/internal/domain/poke"
	"github.com/nickfinder/nickfinder-api/internal/domain/profile"
	"github.com/nickfinder/nickfinder-api/internal/domain/user"
	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/database"
	"github.com/nickfinder/nickfinder-api/internal/pkg/email"
	"github.com/nickfinder/nickfinder-api/internal/pkg/i18n"
	"github.com/nickfinder/nickfinder-api/internal/pkg/imaging"
	"github.com/nickfinder/nickfinder-api/internal/pkg/jwt"
	pkgresponse "github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Nick Finder API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	bundle := i18n.NewBundle(cfg.DefaultLocale)

	emailService := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer emailService.Close()

	// Avatar storage is optional: without credentials uploads return
	// an error but everything else works.
	var store storage.Storage
	if cfg.S3AccessKey != "" {
		s3Store, err := storage.NewS3Storage(storage.Config{
			S3Endpoint:  cfg.S3Endpoint,
			S3Region:    cfg.S3Region,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			PublicURL:   cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
		store = s3Store
	}
	processor := imaging.NewProcessor(85)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	gameRepo := game.NewRepository(db)
	characterRepo := character.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	friendshipRepo := friendship.NewRepository(db)
	blockRepo := block.NewRepository(db)
	pokeRepo := poke.NewRepository(db)
	conversationRepo := conversation.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)

	// ---------- Interaction gate ----------
	gateChecker := gate.NewChecker(blockRepo, friendshipRepo, pokeRepo)

	// ---------- WebSocket hub ----------
	hub := conversation.NewHub(redis)
	go hub.Run()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, redis)
	resetService := auth.NewPasswordResetService(redis, emailService, cfg.FrontendURL)
	characterService := character.NewService(characterRepo, gameRepo, store, processor, cfg.SlugSecret)
	profileService := profile.NewService(profileRepo, userRepo, friendshipRepo)
	notificationService := notification.NewService(notificationRepo, hub)
	friendshipService := friendship.NewService(friendshipRepo, characterService, gateChecker, notificationService)
	blockService := block.NewService(blockRepo, characterService)
	pokeLimiter := poke.NewRedisLimiter(redis, cfg.PokeDailyLimit)
	pokeService := poke.NewService(pokeRepo, characterService, gateChecker, pokeLimiter, notificationService)
	conversationService := conversation.NewService(conversationRepo, characterService, gateChecker, hub, notificationService)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	cleanup := notification.NewCleanupJob(notificationRepo, 90*24*time.Hour)
	go cleanup.Start(jobCtx, time.Hour)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService, resetService)
	gameHandler := game.NewHandler(gameRepo)
	characterHandler := character.NewHandler(characterService)
	profileHandler := profile.NewHandler(profileService)
	friendshipHandler := friendship.NewHandler(friendshipService)
	blockHandler := block.NewHandler(blockService, bundle)
	pokeHandler := poke.NewHandler(pokeService, bundle)
	conversationHandler := conversation.NewHandler(conversationService, hub, redis, cfg.AllowedOrigins)
	notificationHandler := notification.NewHandler(notificationService)
	moderationHandler := moderation.NewHandler(moderationRepo)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuthMiddleware := middleware.OptionalAuth(jwtService)
	superuserMiddleware := middleware.RequireSuperuser()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Locale(bundle))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(conversationHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/games", gameHandler.Routes(authMiddleware, superuserMiddleware))
		r.Mount("/characters", characterHandler.Routes(authMiddleware,
			friendshipHandler.ListFriends, blockHandler.ListBlocked))
		r.Mount("/profile", profileHandler.Routes(authMiddleware, optionalAuthMiddleware))
		r.Mount("/friendships", friendshipHandler.Routes(authMiddleware))
		r.Mount("/blocks", blockHandler.Routes(authMiddleware))
		r.Mount("/pokes", pokeHandler.Routes(authMiddleware))
		r.Mount("/conversations", conversationHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/moderation", moderationHandler.Routes(authMiddleware, superuserMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopJobs()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
