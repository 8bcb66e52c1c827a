package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/elections/internal/api/controller"
	"github.com/ougirez/elections/internal/pkg/logger"
	"github.com/ougirez/elections/internal/pkg/store"
	"github.com/ougirez/elections/internal/service/auth"
	"github.com/ougirez/elections/internal/service/lock"
	"github.com/ougirez/elections/internal/service/recap"
	"github.com/ougirez/elections/internal/service/region"
	"github.com/ougirez/elections/internal/service/submission"
	"github.com/ougirez/elections/internal/service/user"
)

type Config struct {
	Secret         string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type APIService struct {
	router         *echo.Echo
	authService    *auth.Service
	requestTimeout time.Duration
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router, mainly for httptest.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(store store.Store, cfg Config) (*APIService, error) {
	svc := &APIService{
		router:         echo.New(),
		requestTimeout: requestTimeout(cfg.RequestTimeout),
	}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.ERROR)
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(svc.RequestContextMiddleware)
	svc.router.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infow(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String())
			return nil
		},
	}))
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	userService := user.NewUserService(store)
	svc.authService = auth.NewService(store, userService, cfg.Secret)
	lockService := lock.NewLockService(store)

	cntrl := controller.NewController(
		svc.authService,
		submission.NewSubmissionService(store, svc.authService),
		recap.NewRecapService(store),
		region.NewRegionService(store, svc.authService, lockService),
	)

	svc.router.GET("/health", cntrl.Health)

	api := svc.router.Group("/api/v1", svc.IdentityMiddleware)
	api.GET("/health", cntrl.Health)

	api.POST("/participations/validate", cntrl.ValidateParticipation)
	api.GET("/participations/departments", cntrl.ListDepartmentParticipations)
	api.POST("/participations/departments", cntrl.SubmitDepartmentParticipation, svc.AuthMiddleware)

	api.GET("/me/scope", cntrl.GetScope, svc.AuthMiddleware)

	departments := api.Group("/departments")
	departments.GET("", cntrl.ListDepartments)
	departments.POST("/submit-results", cntrl.SubmitDepartmentResults, svc.AuthMiddleware)
	departments.GET("/:code/status", cntrl.GetDepartmentStatus)
	departments.GET("/:code/recap", cntrl.GetRecap)

	communes := api.Group("/communes")
	communes.GET("/participation", cntrl.GetCommuneStatus)
	communes.POST("/participation", cntrl.SubmitCommuneParticipation, svc.AuthMiddleware)

	api.GET("/regions", cntrl.ListRegions)
	api.GET("/parties", cntrl.ListParties)
	api.GET("/candidates", cntrl.ListCandidates)

	return svc, nil
}
