package config

import (
	"context"
	"os"

	"gorm.io/gorm"

	pkg_config "github.com/magicvilla/villa-booking/pkg/config"
	pkg_db "github.com/magicvilla/villa-booking/pkg/db"
	"github.com/magicvilla/villa-booking/services/villa/internal/models"
)

type Config struct {
	ListenAddr   string
	DatabaseURL  string
	JWTSecret    []byte
	KafkaBrokers []string
	LogLevel     string

	UploadDir string
	BaseURL   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	pkg_config.LoadDotenv()

	cfg := Config{
		ListenAddr:   pkg_config.EnvDefault("VILLA_ADDR", ":8082"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		KafkaBrokers: pkg_config.CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:     pkg_config.EnvDefault("LOG_LEVEL", "info"),
		UploadDir:    pkg_config.EnvDefault("UPLOAD_DIR", "uploads"),
		BaseURL:      pkg_config.EnvDefault("PUBLIC_BASE_URL", ""),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		ESIndex:      pkg_config.EnvDefault("ES_INDEX", "villas"),
	}
	pkg_config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkg_config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}

func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := pkg_db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Villa{}, &models.VillaNumber{}); err != nil {
		return nil, err
	}
	return db, nil
}
