package config

import (
	"context"
	"os"

	"gorm.io/gorm"

	pkg_config "github.com/magicvilla/villa-booking/pkg/config"
	pkg_db "github.com/magicvilla/villa-booking/pkg/db"
	"github.com/magicvilla/villa-booking/services/auth/internal/models"
)

type Config struct {
	ListenAddr   string
	DatabaseURL  string
	JWTSecret    []byte
	KafkaBrokers []string
	LogLevel     string
}

func Load() Config {
	pkg_config.LoadDotenv()

	cfg := Config{
		ListenAddr:   pkg_config.EnvDefault("AUTH_ADDR", ":8081"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		KafkaBrokers: pkg_config.CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:     pkg_config.EnvDefault("LOG_LEVEL", "info"),
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
	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.RefreshToken{}); err != nil {
		return nil, err
	}
	return db, nil
}
