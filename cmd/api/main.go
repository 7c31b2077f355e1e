package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"devops-gateway/internal/config"
	"devops-gateway/internal/db"
	"devops-gateway/internal/github"
	apihttp "devops-gateway/internal/http"
	"devops-gateway/internal/identity"
	"devops-gateway/internal/llm"
	"devops-gateway/internal/repository"
	"devops-gateway/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(ctxPing, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	profileRepo := repository.NewPgProfileRepository(pool)
	conversationRepo := repository.NewPgConversationRepository(pool)

	var (
		refreshStore      service.RefreshTokenStore
		verificationCache service.VerificationCache
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			refreshStore = service.NewRedisRefreshTokenStore(redisClient)
			verificationCache = service.NewRedisVerificationCache(redisClient)
		}
		cancel()
	}
	if verificationCache == nil {
		verificationCache = service.NewMemoryVerificationCache()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		refreshStore,
	)

	var remoteVerifier identity.Verifier
	if cfg.IdentityBaseURL != "" {
		remoteVerifier = identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, 5*time.Second)
	} else {
		logger.Warn("identity provider not configured, legacy token fallback disabled")
	}
	verifier := service.NewTokenVerifier(
		logger,
		jwtSvc,
		remoteVerifier,
		profileRepo,
		verificationCache,
		time.Duration(cfg.IdentityCacheTTLSeconds)*time.Second,
	)

	llmClient := llm.NewFoundryClient(
		cfg.FoundryEndpoint,
		cfg.FoundryAPIKey,
		cfg.FoundryDeployment,
		cfg.FoundryAPIVersion,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)

	promptBuilder := service.NewPromptBuilder(service.DefaultSystemPrompt)
	agentSvc := service.NewAgentService(logger, llmClient, conversationRepo, promptBuilder, cfg.HistoryWindow)
	accountSvc := service.NewAccountService(logger, profileRepo)
	deploySvc := service.NewDeploymentService(logger, github.NewClient(cfg.GitHubToken))

	authHandler := apihttp.NewAuthHandler(logger, accountSvc, jwtSvc)
	chatHandler := apihttp.NewChatHandler(logger, agentSvc)
	deployHandler := apihttp.NewDeploymentsHandler(logger, deploySvc)
	router := apihttp.NewRouter(logger, verifier, authHandler, chatHandler, deployHandler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
