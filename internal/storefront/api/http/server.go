package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"food-ordering/internal/storefront/api/http/handle"
	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/xpkg/config"
	"food-ordering/internal/xpkg/logger"
	"food-ordering/internal/xpkg/rabbitmq"

	brokermessage "food-ordering/internal/storefront/adapter/broker_message"
	"food-ordering/internal/storefront/adapter/cache"
	database "food-ordering/internal/storefront/adapter/db"
	"food-ordering/internal/storefront/adapter/uploads"
	xdb "food-ordering/internal/xpkg/db"

	"github.com/redis/go-redis/v9"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	mux       *http.ServeMux
	cfg       *config.Config
	srv       *http.Server
	webParams *core.WebParams
	mylog     logger.Logger
	db        core.IDB
	mb        core.IPublisher
	rdb       *redis.Client
	images    core.IImageStore
	uploadDir string
	ctx       context.Context
	appCtx    context.Context
	mu        sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, webParams *core.WebParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:       ctx,
		appCtx:    appCtx,
		cfg:       cfg,
		webParams: webParams,
		mylog:     mylog,
		mux:       http.NewServeMux(),
	}
}

// Run connects the backing services, registers routes and listens. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := s.initializeRabbitMQ(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}

	if err := s.initializeRedis(); err != nil {
		mylog.Action("redis_connection_failed").Error("Failed to connect to redis", err)
		return err
	}

	if err := s.initializeUploads(); err != nil {
		mylog.Action("uploads_init_failed").Error("Failed to initialize uploads", err)
		return err
	}

	handler := s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.webParams.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.webParams.Port, "strict_transitions", s.cfg.Orders.StrictTransitions)
	mylog.Info("server is running")

	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			s.mylog.Action("redis_close_failed").Error("Failed to close redis", err)
			return fmt.Errorf("redis close: %w", err)
		}
		s.mylog.Action("redis_closed").Info("Redis closed")
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	db, err := xdb.Start(s.appCtx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

// initializeRabbitMQ is optional: without a rabbitmq section events are dropped.
func (s *Server) initializeRabbitMQ() error {
	if s.cfg.RMQ == nil {
		s.mylog.Action("mb_disabled").Warn("No rabbitmq configured, order events are discarded")
		s.mb = brokermessage.Discard{}
		return nil
	}
	mb, err := rabbitmq.New(s.appCtx, *s.cfg.RMQ, s.mylog, 0)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = brokermessage.NewPublisher(mb, s.mylog)
	s.mylog.Action("mb_connected").Info("Successful message broker connection")
	return nil
}

func (s *Server) initializeRedis() error {
	if s.cfg.Redis == nil {
		s.mylog.Action("redis_disabled").Warn("No redis configured, carts are kept in memory and the menu is not cached")
		return nil
	}
	rdb, err := cache.Connect(s.appCtx, s.cfg.Redis, s.mylog)
	if err != nil {
		return err
	}
	s.rdb = rdb
	return nil
}

func (s *Server) initializeUploads() error {
	up := s.cfg.Uploads
	switch up.Driver {
	case config.UploadsS3:
		store, err := uploads.NewS3Store(s.appCtx, up.S3, up.MaxBytes)
		if err != nil {
			return err
		}
		s.images = store
	default:
		store, err := uploads.NewLocalStore(up.Dir, up.URLPrefix, up.MaxBytes)
		if err != nil {
			return err
		}
		s.images = store
		s.uploadDir = store.Dir()
	}
	return nil
}

// Configure builds repositories and services and registers the routes.
func (s *Server) Configure() http.Handler {
	storeRepo := database.NewStoreRepo(s.db, s.mylog)
	itemRepo := database.NewItemRepo(s.db, s.mylog)
	userRepo := database.NewUserRepo(s.db, s.mylog)
	orderRepo := database.NewOrderRepo(s.db, s.mylog)

	var (
		carts core.ICartStore = cache.NewMemoryCartStore()
		menu  core.IMenuCache
	)
	if s.rdb != nil {
		carts = cache.NewRedisCartStore(s.rdb, core.SessionTTL)
		menu = cache.NewRedisMenuCache(s.rdb, core.MenuCacheTTL)
	}

	svc := handle.Services{
		Auth:      services.NewAuthService(userRepo, s.cfg.Auth.Secret, s.cfg.Auth.TokenTTL, s.mylog),
		Directory: services.NewDirectoryService(storeRepo, userRepo, s.mylog),
		Catalog:   services.NewCatalogService(itemRepo, menu, s.images, s.mylog),
		Cart:      services.NewCartService(carts, itemRepo, s.mylog),
		Orders: services.NewOrderService(orderRepo, itemRepo, carts, s.mb, services.OrderOptions{
			StrictTransitions:   s.cfg.Orders.StrictTransitions,
			DefaultCustomerName: s.cfg.Orders.CustomerName,
		}, s.mylog),
	}

	prefix := s.cfg.Uploads.URLPrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return handle.Routes(s.mux, svc, handle.RouteOptions{
		Admin: handle.AdminOptions{
			SecureCookies:  s.cfg.Auth.SecureCookies,
			LoginPerMinute: s.cfg.Auth.LoginPerMinute,
			MaxUploadBytes: s.cfg.Uploads.MaxBytes,
		},
		UploadsDir:    s.uploadDir,
		UploadsPrefix: prefix,
		Health:        s.health,
	}, s.mylog)
}

func (s *Server) health(ctx context.Context) error {
	if err := s.db.IsAlive(ctx); err != nil {
		return err
	}
	if s.rdb != nil {
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
