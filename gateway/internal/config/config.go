package config

import (
	"os"

	pkg_config "github.com/magicvilla/villa-booking/pkg/config"
)

type Config struct {
	ListenAddr string
	AuthURL    string
	VillaURL   string
	JWTSecret  []byte
	LogLevel   string
}

func Load() *Config {
	pkg_config.LoadDotenv()

	cfg := &Config{
		ListenAddr: pkg_config.EnvDefault("GATEWAY_ADDR", ":8080"),
		AuthURL:    os.Getenv("AUTH_URL"),
		VillaURL:   os.Getenv("VILLA_URL"),
		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		LogLevel:   pkg_config.EnvDefault("LOG_LEVEL", "info"),
	}
	pkg_config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	pkg_config.MustNonEmpty(cfg.VillaURL, "VILLA_URL")
	pkg_config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
