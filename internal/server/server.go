package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"intranet/internal/config"
	"intranet/internal/crypto"
	"intranet/internal/handler"
	"intranet/internal/metrics"
	"intranet/internal/middleware"
	"intranet/internal/policy"
	"intranet/internal/repository"
	"intranet/internal/service"
	"intranet/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Deps are the collaborators the server is assembled from. Storage can be
// PostgreSQL-backed repositories or the in-memory store.
type Deps struct {
	Config      *config.Config
	Departments repository.DepartmentRepository
	Employees   repository.EmployeeRepository
	News        repository.NewsRepository
	Logger      *zap.Logger
	AccessLog   *logrus.Logger
	Metrics     *metrics.Metrics
}

type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewServer(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.AccessLog == nil {
		deps.AccessLog = logrus.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	handler.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(deps.AccessLog, deps.Metrics))

	s := &Server{
		router:  router,
		cfg:     deps.Config,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
	if err := s.setupRoutes(deps); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes(deps Deps) error {
	cfg := s.cfg

	chartRoles, err := cfg.ChartRoles()
	if err != nil {
		return err
	}
	authz := policy.New(chartRoles...)
	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(deps.Employees, deps.Departments, hasher, codec, s.logger)
	employeeService := service.NewEmployeeService(deps.Employees, authz, s.logger)
	newsService := service.NewNewsService(deps.News, authz, nil, s.logger)
	chartService := service.NewChartService(deps.News, authz, s.logger)
	departmentService := service.NewDepartmentService(deps.Departments)

	// Initialize handlers
	cookie := handler.CookieSettings{
		Name:   cfg.Auth.CookieName,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
	}
	authHandler := handler.NewAuthHandler(authService, cookie, s.metrics, s.logger)
	employeeHandler := handler.NewEmployeeHandler(employeeService, s.metrics, s.logger)
	newsHandler := handler.NewNewsHandler(newsService, s.metrics, s.logger)
	chartHandler := handler.NewChartHandler(chartService, s.metrics, s.logger)
	departmentHandler := handler.NewDepartmentHandler(departmentService, s.logger)

	loginLimit, err := middleware.RateLimit(cfg.Auth.LoginRate)
	if err != nil {
		return fmt.Errorf("failed to configure login rate limit: %w", err)
	}

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Public routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/login", loginLimit, authHandler.Login)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/logout", authHandler.Logout)
	s.router.GET("/api/departments", departmentHandler.List)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(codec, cfg.Auth.CookieName, s.metrics, s.logger))
	{
		authRequired.GET("/auth/verify-token", authHandler.VerifyToken)

		authRequired.GET("/employees", employeeHandler.List)
		authRequired.PUT("/employees", employeeHandler.Update)
		authRequired.DELETE("/employees", employeeHandler.Delete)
		authRequired.GET("/profile", employeeHandler.Profile)

		authRequired.GET("/news", newsHandler.List)
		authRequired.POST("/news", newsHandler.Create)

		authRequired.GET("/charts", chartHandler.NewsPerDepartment)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
