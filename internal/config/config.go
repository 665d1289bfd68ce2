package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Storage struct {
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		AccessKey     string `mapstructure:"access_key"`
		SecretKey     string `mapstructure:"secret_key"`
		Bucket        string `mapstructure:"bucket"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"storage"`

	Cashfree struct {
		AppID     string `mapstructure:"app_id"`
		SecretKey string `mapstructure:"secret_key"`
		BaseURL   string `mapstructure:"base_url"`
		ReturnURL string `mapstructure:"return_url"`
		NotifyURL string `mapstructure:"notify_url"`
	} `mapstructure:"cashfree"`

	Panchang struct {
		BaseURL     string   `mapstructure:"base_url"`
		Endpoints   []string `mapstructure:"endpoints"`
		DelayMillis int      `mapstructure:"delay_millis"`
	} `mapstructure:"panchang"`
}

// Load reads configs/config.yaml (optional) and applies environment
// overrides. The process refuses to boot when storage or gateway
// credentials or the JWT secret are missing.
func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "puja-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "puja_db")
	v.SetDefault("storage.region", "ap-south-1")
	v.SetDefault("cashfree.base_url", "https://api.cashfree.com/pg")
	v.SetDefault("panchang.delay_millis", 1500)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not set in environment or config")
		}
	}

	// Storage settings from environment
	if ep := os.Getenv("S3_ENDPOINT"); ep != "" {
		cfg.Storage.Endpoint = ep
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.Storage.Region = region
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.Storage.SecretKey = secret
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if base := os.Getenv("S3_PUBLIC_BASE_URL"); base != "" {
		cfg.Storage.PublicBaseURL = base
	}

	// Media uploads cannot work without storage credentials, so fail
	// at boot instead of on the first catalog write.
	if cfg.Storage.AccessKey == "" || cfg.Storage.SecretKey == "" || cfg.Storage.Bucket == "" {
		log.Fatal("storage credentials missing: set S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
	}

	// Cashfree settings from environment
	if appID := os.Getenv("CASHFREE_APP_ID"); appID != "" {
		cfg.Cashfree.AppID = appID
	}
	if secret := os.Getenv("CASHFREE_SECRET_KEY"); secret != "" {
		cfg.Cashfree.SecretKey = secret
	}
	if base := os.Getenv("CASHFREE_BASE_URL"); base != "" {
		cfg.Cashfree.BaseURL = base
	}
	if ret := os.Getenv("CASHFREE_RETURN_URL"); ret != "" {
		cfg.Cashfree.ReturnURL = ret
	}
	if notify := os.Getenv("CASHFREE_NOTIFY_URL"); notify != "" {
		cfg.Cashfree.NotifyURL = notify
	}
	if cfg.Cashfree.AppID == "" || cfg.Cashfree.SecretKey == "" {
		log.Fatal("cashfree credentials missing: set CASHFREE_APP_ID and CASHFREE_SECRET_KEY")
	}

	if base := os.Getenv("PANCHANG_BASE_URL"); base != "" {
		cfg.Panchang.BaseURL = base
	}
	if eps := os.Getenv("PANCHANG_ENDPOINTS"); eps != "" {
		cfg.Panchang.Endpoints = strings.Split(eps, ",")
	}

	return &cfg
}
