package setup

import (
	"net/http"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/app/background"
	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func InitializeHTTPServer(deps *Dependencies, ucs *UseCases) *http.Server {
	if deps.Config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Logger.With(zap.String("component", "http"))

	router := handlers.NewRouter(handlers.Handlers{
		Dashboard: handlers.NewDashboardHandler(ucs.Dashboard, ucs.Settings, deps.Registry, deps.DefaultQuery, deps.Queries, deps.Metrics, log),
		Settings:  handlers.NewSettingsHandler(ucs.Settings, log),
		Layout:    handlers.NewLayoutHandler(ucs.Layout, log),
		Metrics:   promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}),
	}, log)

	return &http.Server{
		Addr:              deps.Config.HTTPServer.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func InitializeGRPCServer(deps *Dependencies) *grpc.Server {
	s := grpc.NewServer()
	deps.Health.Register(s)
	return s
}

func InitializeBackgroundTasks(deps *Dependencies, ucs *UseCases) *background.BackgroundTasks {
	return background.NewBackgroundTasks(
		ucs.RateCache,
		deps.Queries,
		deps.Config.RateProvider.WarmInterval,
		deps.Logger.With(zap.String("component", "background")),
	)
}
