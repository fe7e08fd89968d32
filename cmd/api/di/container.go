package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github-users-service/cmd/api/infrastructure"
	"github-users-service/internal/adapter/cache"
	"github-users-service/internal/adapter/db"
	"github-users-service/internal/adapter/github"
	ginhandler "github-users-service/internal/adapter/gin/handler"
	cachedsource "github-users-service/internal/adapter/source/cached"
	"github-users-service/internal/config"
	syncer "github-users-service/internal/sync"
	"github-users-service/internal/usecase/user"
	"github-users-service/internal/viewmodel"
	redisclient "github-users-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Store       *db.Store
	Mediator    *syncer.Mediator
	UserUC      user.Usecase
	ViewModel   *viewmodel.ViewModel
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	gormDB, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.Migrate(gormDB, cfg.DB.SchemaVersion, l); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := db.NewStore(gormDB, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	var userCache cache.UserCache
	if rdb != nil {
		userCache = cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
	}

	ghClient := github.NewClient(github.ClientConfig{
		BaseURL: cfg.GitHub.BaseURL,
		Timeout: time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second,
	}, l)
	remote := cachedsource.New(ghClient, userCache, l)

	mediator := syncer.NewMediator(remote, store, cfg.GitHub.PageSize, l)
	userUC := user.New(remote, store, userCache, l)
	vm := viewmodel.New(userUC, mediator, store, l)
	ginHandler := ginhandler.NewUserHandler(userUC, mediator, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          gormDB,
		RedisClient: rdb,
		Store:       store,
		Mediator:    mediator,
		UserUC:      userUC,
		ViewModel:   vm,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
