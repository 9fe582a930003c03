// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"mergington-activities/config"
	"mergington-activities/controllers"
	"mergington-activities/logger"
	"mergington-activities/metrics"
	"mergington-activities/middleware"
	"mergington-activities/services"
	"mergington-activities/websocket"
)

// app bundles what main needs beyond the router.
type app struct {
	router *gin.Engine
	pages  *services.PageRegistry
	hub    *websocket.Hub
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	envFile := flag.String("env-file", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise custom logger: %v", err)
	}
	defer logger.Close()
	logger.SetLogLevel(cfg.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := newApp(cfg, prometheus.NewRegistry())
	if err != nil {
		logger.Error.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanupEvery := cfg.PageIdleTimeout
	if cleanupEvery > time.Minute {
		cleanupEvery = time.Minute
	}
	go a.pages.RunCleanup(ctx, cfg.PageIdleTimeout, cleanupEvery)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info.Printf("Listening on %s (activity service %s)", cfg.ListenAddr, cfg.ActivityServiceURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Printf("Failed to run server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Shutdown error: %v", err)
	}
}

// newApp wires configuration into services, controllers and the router.
func newApp(cfg config.Config, reg *prometheus.Registry) (*app, error) {
	recorders := metrics.Multi{metrics.NewPrometheusRecorder(reg)}
	if cfg.Metrics.CloudWatchEnabled {
		cw, err := metrics.NewCloudWatchRecorder(cfg.Metrics.Namespace)
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, cw)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	if cfg.Tracing.Enabled {
		if err := xray.Configure(xray.Config{DaemonAddr: cfg.Tracing.DaemonAddr}); err != nil {
			return nil, err
		}
		httpClient = xray.Client(httpClient)
	}
	api := services.NewAPIClient(cfg.ActivityServiceURL, httpClient)

	hub := websocket.NewHub(cfg.ApplicationURL, recorders.SetConnectedPages)
	pages := services.NewPageRegistry(func(id string) *services.Page {
		return services.NewPage(id, cfg.MessageTimeout, nil, hub)
	})
	pc := controllers.NewPageController(services.NewActivityClient(api, recorders), pages, hub,
		cfg.ApplicationURL, cfg.WebsocketURL)

	store, err := middleware.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	if cfg.Tracing.Enabled {
		router.Use(middleware.XRaySegment(cfg.Tracing.ServiceName))
	}
	router.Use(middleware.SecurityHeaders(""))
	router.Use(sessions.Sessions(middleware.SessionName, store))

	router.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	router.Static("/static", cfg.StaticDir)

	router.GET("/health", controllers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.GET("/qrcode", pc.GetQRCode)

	page := router.Group("/", middleware.PageSession)
	{
		page.GET("/", pc.Index)
		page.POST("/signup", pc.Signup)
		page.POST("/participants/remove", pc.RemoveParticipant)
		page.GET("/page/state", pc.State)
		page.GET("/page-updates", pc.PageUpdates)
	}

	return &app{router: router, pages: pages, hub: hub}, nil
}
