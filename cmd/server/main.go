package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gameflow/api/internal/cache"
	"github.com/gameflow/api/internal/config"
	"github.com/gameflow/api/internal/database"
	"github.com/gameflow/api/internal/handler"
	"github.com/gameflow/api/internal/jobs"
	"github.com/gameflow/api/internal/middleware"
	"github.com/gameflow/api/internal/repository"
	"github.com/gameflow/api/internal/service"
	"github.com/gameflow/api/internal/storage"
	"github.com/gameflow/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the catalog cache: Redis when configured, in-process otherwise
	var catalogCache cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		catalogCache = redisCache
		slog.Info("using redis catalog cache", slog.String("addr", cfg.Redis.Addr))
	} else {
		catalogCache = cache.NewMemory()
		slog.Info("using in-process catalog cache")
	}
	defer func() { _ = catalogCache.Close() }()

	// Initialize avatar storage
	avatarStore, err := storage.NewDisk(cfg.Storage.AvatarDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		slog.Error("failed to initialize avatar storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	gameRepo := repository.NewGameRepository(db)
	metaRepo := repository.NewMetadataRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize event hub for real-time updates
	hub := service.NewLibraryHub()
	defer hub.Close()

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})

	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		GameRepo: gameRepo,
		MetaRepo: metaRepo,
		Cache:    catalogCache,
		CacheTTL: cfg.Catalog.CacheTTL,
	})

	libraryService := service.NewLibraryService(service.LibraryServiceConfig{
		LibraryRepo: libraryRepo,
		GameRepo:    gameRepo,
		Hub:         hub,
	})

	profileService := service.NewProfileService(service.ProfileServiceConfig{
		ProfileRepo: profileRepo,
		Avatars:     avatarStore,
		Hub:         hub,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100, // 100 requests per minute
		Window: time.Minute,
		Burst:  20, // Allow bursts up to 20
	})
	defer rateLimiter.Stop()

	// Background refresh token cleanup
	tokenCleanup := jobs.NewTokenCleanup(tokenRepo, 1*time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	gamesHandler := handler.NewGamesHandler(catalogService)
	libraryHandler := handler.NewLibraryHandler(libraryService)
	profileHandler := handler.NewProfileHandler(profileService)
	eventsHandler := handler.NewEventsHandler(hub)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", authHandler.Refresh)

	// Auth endpoints (protected)
	authMiddleware := middleware.Auth(tokenService)
	optionalAuth := middleware.OptionalAuth(tokenService)
	mux.Handle("POST /v1/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /v1/auth/password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword)))

	// Catalog endpoints (public)
	mux.HandleFunc("GET /v1/games", gamesHandler.List)
	mux.HandleFunc("GET /v1/games/metadata", gamesHandler.Metadata)
	mux.HandleFunc("GET /v1/games/newest", gamesHandler.Newest)
	mux.HandleFunc("GET /v1/games/top-rated", gamesHandler.TopRated)
	mux.HandleFunc("GET /v1/games/trending", gamesHandler.Trending)
	mux.HandleFunc("GET /v1/games/slug/{slug}", gamesHandler.GetBySlug)
	mux.HandleFunc("GET /v1/games/{id}", gamesHandler.Get)

	// Library endpoints. Reads tolerate anonymous callers and yield an
	// empty library; writes require authentication.
	mux.Handle("GET /v1/library", optionalAuth(http.HandlerFunc(libraryHandler.List)))
	mux.Handle("POST /v1/library", authMiddleware(http.HandlerFunc(libraryHandler.Add)))
	mux.Handle("PATCH /v1/library/{id}", authMiddleware(http.HandlerFunc(libraryHandler.Update)))
	mux.Handle("DELETE /v1/library/{id}", authMiddleware(http.HandlerFunc(libraryHandler.Remove)))
	mux.Handle("GET /v1/library/game/{gameId}", optionalAuth(http.HandlerFunc(libraryHandler.GetForGame)))
	mux.Handle("DELETE /v1/library/game/{gameId}", authMiddleware(http.HandlerFunc(libraryHandler.RemoveByGame)))

	// SSE events endpoint
	mux.Handle("GET /v1/events/stream", authMiddleware(http.HandlerFunc(eventsHandler.Stream)))

	// Profile endpoints (auth required)
	mux.Handle("GET /v1/profile", authMiddleware(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PATCH /v1/profile", authMiddleware(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /v1/profile/avatar", authMiddleware(http.HandlerFunc(profileHandler.UploadAvatar)))

	// Serve uploaded avatars
	mux.Handle("GET /avatars/", http.StripPrefix("/avatars/", http.FileServer(http.Dir(cfg.Storage.AvatarDir))))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
