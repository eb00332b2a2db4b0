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

	"github.com/magicvilla/villa-booking/pkg/logging"
	loggingmw "github.com/magicvilla/villa-booking/pkg/middleware/logging"
	"github.com/magicvilla/villa-booking/pkg/mykafka"
	"github.com/magicvilla/villa-booking/services/villa/internal/config"
	"github.com/magicvilla/villa-booking/services/villa/internal/httpserver"
	"github.com/magicvilla/villa-booking/services/villa/internal/repo"
	"github.com/magicvilla/villa-booking/services/villa/internal/search"
	"github.com/magicvilla/villa-booking/services/villa/internal/service"
	"github.com/magicvilla/villa-booking/services/villa/internal/storage"
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

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	images, err := storage.NewImageStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}
	e.Static("/uploads", cfg.UploadDir)

	index := &search.Index{Name: cfg.ESIndex}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Printf("warning: search disabled: %v", err)
		} else {
			index = search.NewIndex(es, cfg.ESIndex)
		}
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	}

	handler := &httpserver.VillaHTTP{
		Svc:      &service.VillaService{Repo: &repo.GormRepo{DB: db}},
		Images:   images,
		Index:    index,
		Producer: producer,
	}
	httpserver.Register(e, &httpserver.Deps{
		VillaHandler: handler,
		JWTSecret:    cfg.JWTSecret,
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
