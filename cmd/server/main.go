package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clubhub/clubhub-api/docs"
	"github.com/clubhub/clubhub-api/internal/api"
	"github.com/clubhub/clubhub-api/internal/core/ports"
	"github.com/clubhub/clubhub-api/internal/core/service"
	"github.com/clubhub/clubhub-api/internal/infrastructure/config"
	"github.com/clubhub/clubhub-api/internal/infrastructure/db/memory"
	"github.com/clubhub/clubhub-api/internal/infrastructure/db/mongo"
	"github.com/clubhub/clubhub-api/internal/infrastructure/db/redis"
	"github.com/clubhub/clubhub-api/internal/infrastructure/identity"
	"github.com/clubhub/clubhub-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// repositories is the storage backend selected by STORE_DRIVER.
type repositories struct {
	users    ports.UserRepository
	clubs    ports.ClubRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	db       *gomongo.Database
	close    func(context.Context) error
}

// @title ClubHub API
// @version 0.1
// @description School club hub: clubs, posts, threaded comments and user profiles.
// @BasePath /api/v0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clubhub-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repos, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	var (
		rdb     *goredis.Client
		limiter ports.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = redis.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
		log.Info().Str("addr", cfg.Redis.Addr).Int("max", cfg.RateLimit.Max).Dur("window", cfg.RateLimit.Window).Msg("rate limiting enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, rate limiting disabled")
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	limits := cfg.DomainLimits()
	policy := cfg.EmailPolicy()

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		APIPrefix:   cfg.APIPrefix,
		Clubs:       service.NewClubService(repos.clubs, repos.users, repos.posts, limits, logger.Component("clubs")),
		Posts:       service.NewPostService(repos.posts, repos.clubs, repos.users, repos.comments, limits, logger.Component("posts")),
		Comments:    service.NewCommentService(repos.comments, repos.posts, repos.users, limits, logger.Component("comments")),
		Users:       service.NewUserService(repos.users, repos.clubs, repos.posts, repos.comments, policy, logger.Component("users")),
		Verifier:    verifier,
		EmailPolicy: policy,
		APIKeyHash:  cfg.APIKeyHash,
		RateLimiter: limiter,
		Mongo:       repos.db,
		Redis:       rdb,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("prefix", cfg.APIPrefix).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &repositories{
			users:    s.Users,
			clubs:    s.Clubs,
			posts:    s.Posts,
			comments: s.Comments,
			close:    func(context.Context) error { return nil },
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	r := mongo.NewRepositories(db)
	if err := r.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
	return &repositories{
		users:    r.Users,
		clubs:    r.Clubs,
		posts:    r.Posts,
		comments: r.Comments,
		db:       db,
		close:    client.Disconnect,
	}, nil
}

func newVerifier(ctx context.Context, cfg *config.Config) (ports.TokenVerifier, error) {
	if cfg.Auth.Provider == config.AuthJWT {
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret), nil
	}
	return identity.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentials)
}
