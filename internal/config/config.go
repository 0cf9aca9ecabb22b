package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	BucketCovers    string
	BucketDocuments string
	BucketMedia     string
	UseSSL          bool
	Region          string
}

type SecurityConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type UploadConfig struct {
	MaxImageBytes int64
	MaxPDFBytes   int64
	MaxMediaBytes int64
}

type JobsConfig struct {
	CounterFlushSpec    string
	CategoryRecountSpec string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Upload           UploadConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ELIBRARY")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.AccessSecret == "" || cfg.Security.RefreshSecret == "" {
		return nil, fmt.Errorf("security.accesssecret and security.refreshsecret are required")
	}
	if cfg.Security.AccessSecret == cfg.Security.RefreshSecret {
		return nil, fmt.Errorf("access and refresh signing secrets must differ")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucketcovers", "elibrary-covers")
	v.SetDefault("storage.bucketdocuments", "elibrary-documents")
	v.SetDefault("storage.bucketmedia", "elibrary-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.accessttl", "15m")
	v.SetDefault("security.refreshttl", "168h") // 7 days

	v.SetDefault("upload.maximagebytes", int64(5*1024*1024))
	v.SetDefault("upload.maxpdfbytes", int64(50*1024*1024))
	v.SetDefault("upload.maxmediabytes", int64(200*1024*1024))

	v.SetDefault("jobs.counterflushspec", "0 */5 * * * *")
	v.SetDefault("jobs.categoryrecountspec", "0 0 2 * * *")
}
