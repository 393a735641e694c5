package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string        `mapstructure:"env"`
	Port           int           `mapstructure:"port"`
	CORSOrigin     string        `mapstructure:"cors_origin"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ShutdownSecond int           `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConf struct {
	AccessSecret     string `mapstructure:"access_secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshSecret    string `mapstructure:"refresh_secret"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type AWSConf struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SecurityConf struct {
	PasswordHashCost int `mapstructure:"password_hash_cost"`
	LoginRatePerMin  int `mapstructure:"login_rate_per_minute"`
}

type Config struct {
	App      AppConf      `mapstructure:"app"`
	Mongo    MongoConf    `mapstructure:"mongodb"`
	JWT      JWTConf      `mapstructure:"jwt"`
	AWS      AWSConf      `mapstructure:"aws"`
	Redis    RedisConf    `mapstructure:"redis"`
	Kafka    KafkaConf    `mapstructure:"kafka"`
	Security SecurityConf `mapstructure:"security"`

	// derived
	ShutdownTimeout time.Duration
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	override := func(env string, apply func(string)) {
		if val := os.Getenv(env); val != "" {
			apply(val)
		}
	}

	override("APP_ENV", func(s string) { cfg.App.Env = s })
	override("APP_PORT", func(s string) {
		if n, err := strconv.Atoi(s); err == nil {
			cfg.App.Port = n
		}
	})
	override("CORS_ORIGIN", func(s string) { cfg.App.CORSOrigin = s })
	override("MONGO_URI", func(s string) { cfg.Mongo.URI = s })
	override("MONGO_DB", func(s string) { cfg.Mongo.Database = s })
	override("ACCESS_TOKEN_SECRET", func(s string) { cfg.JWT.AccessSecret = s })
	override("REFRESH_TOKEN_SECRET", func(s string) { cfg.JWT.RefreshSecret = s })
	override("ACCESS_TOKEN_TTL_MINUTES", func(s string) {
		if n, err := strconv.Atoi(s); err == nil {
			cfg.JWT.AccessTTLMinutes = n
		}
	})
	override("REFRESH_TOKEN_TTL_DAYS", func(s string) {
		if n, err := strconv.Atoi(s); err == nil {
			cfg.JWT.RefreshTTLDays = n
		}
	})
	override("AWS_REGION", func(s string) { cfg.AWS.Region = s })
	override("AWS_BUCKET", func(s string) { cfg.AWS.Bucket = s })
	override("REDIS_ADDR", func(s string) { cfg.Redis.Addr = s })
	override("REDIS_PASSWORD", func(s string) { cfg.Redis.Password = s })
	override("KAFKA_BROKERS", func(s string) { cfg.Kafka.Brokers = strings.Split(s, ",") })
	override("KAFKA_TOPIC", func(s string) { cfg.Kafka.Topic = s })

	if cfg.App.Port == 0 {
		cfg.App.Port = 8000
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 15
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 10
	}
	if cfg.Security.PasswordHashCost == 0 {
		cfg.Security.PasswordHashCost = 10
	}
	if cfg.Security.LoginRatePerMin == 0 {
		cfg.Security.LoginRatePerMin = 10
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	return cfg, nil
}
