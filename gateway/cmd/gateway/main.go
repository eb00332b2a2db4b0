package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/magicvilla/villa-booking/gateway/internal/config"
	"github.com/magicvilla/villa-booking/gateway/internal/httpserver"
	"github.com/magicvilla/villa-booking/pkg/authclient"
	"github.com/magicvilla/villa-booking/pkg/logging"
	loggingmw "github.com/magicvilla/villa-booking/pkg/middleware/logging"
	"github.com/magicvilla/villa-booking/pkg/middleware/csrf"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = true
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready", "/auth/login", "/auth/register"}

	if err := httpserver.Register(e, &httpserver.Deps{
		VillaURL:   cfg.VillaURL,
		AuthClient: authclient.NewClient(cfg.AuthURL),
		CSRFConfig: csrfCfg,
		JWTSecret:  cfg.JWTSecret,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
