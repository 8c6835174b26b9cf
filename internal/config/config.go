package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Provider  ProviderConfig
	Search    SearchConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SearchCacheTTL     time.Duration
	SuggestionCacheTTL time.Duration
}

type RateLimitConfig struct {
	PerMinute int
	PerHour   int
}

type ProviderConfig struct {
	OverpassURL      string
	OverpassTimeout  time.Duration
	NominatimURL     string
	NominatimTimeout time.Duration
	SerpAPIURL       string
	SerpAPIKey       string
	SerpAPITimeout   time.Duration
}

type SearchConfig struct {
	DefaultRadius int
	MaxRadius     int
	MaxResults    int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled        bool
	SweepInterval  time.Duration
	RetentionHours int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SearchCacheTTL:     time.Duration(viper.GetInt("SEARCH_CACHE_TTL")) * time.Second,
			SuggestionCacheTTL: time.Duration(viper.GetInt("SUGGESTION_CACHE_TTL")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			PerHour:   viper.GetInt("RATE_LIMIT_PER_HOUR"),
		},
		Provider: ProviderConfig{
			OverpassURL:      viper.GetString("OVERPASS_URL"),
			OverpassTimeout:  time.Duration(viper.GetInt("OVERPASS_TIMEOUT")) * time.Second,
			NominatimURL:     viper.GetString("NOMINATIM_URL"),
			NominatimTimeout: time.Duration(viper.GetInt("NOMINATIM_TIMEOUT")) * time.Second,
			SerpAPIURL:       viper.GetString("SERPAPI_URL"),
			SerpAPIKey:       viper.GetString("SERPAPI_KEY"),
			SerpAPITimeout:   time.Duration(viper.GetInt("SERPAPI_TIMEOUT")) * time.Second,
		},
		Search: SearchConfig{
			DefaultRadius: viper.GetInt("SEARCH_DEFAULT_RADIUS"),
			MaxRadius:     viper.GetInt("SEARCH_MAX_RADIUS"),
			MaxResults:    viper.GetInt("SEARCH_MAX_RESULTS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:        viper.GetBool("WORKER_ENABLED"),
			SweepInterval:  time.Duration(viper.GetInt("WORKER_SWEEP_INTERVAL")) * time.Second,
			RetentionHours: viper.GetInt("WORKER_RETENTION_HOURS"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.SearchCacheTTL == 0 {
		cfg.Cache.SearchCacheTTL = 3600 * time.Second
	}
	if cfg.Cache.SuggestionCacheTTL == 0 {
		cfg.Cache.SuggestionCacheTTL = 600 * time.Second
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 60
	}
	if cfg.RateLimit.PerHour == 0 {
		cfg.RateLimit.PerHour = 1000
	}
	if cfg.Provider.OverpassURL == "" {
		cfg.Provider.OverpassURL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.Provider.OverpassTimeout == 0 {
		cfg.Provider.OverpassTimeout = 25 * time.Second
	}
	if cfg.Provider.NominatimURL == "" {
		cfg.Provider.NominatimURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Provider.NominatimTimeout == 0 {
		cfg.Provider.NominatimTimeout = 10 * time.Second
	}
	if cfg.Provider.SerpAPIURL == "" {
		cfg.Provider.SerpAPIURL = "https://serpapi.com/search.json"
	}
	if cfg.Provider.SerpAPITimeout == 0 {
		cfg.Provider.SerpAPITimeout = 30 * time.Second
	}
	if cfg.Search.DefaultRadius == 0 {
		cfg.Search.DefaultRadius = 5
	}
	if cfg.Search.MaxRadius == 0 {
		cfg.Search.MaxRadius = 50
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 20
	}
	if cfg.Worker.SweepInterval == 0 {
		cfg.Worker.SweepInterval = time.Hour
	}
	if cfg.Worker.RetentionHours == 0 {
		cfg.Worker.RetentionHours = 24
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
