package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Env          string             `yaml:"env" env:"ENV" env-default:"local"`
	ServiceName  string             `yaml:"service_name" env:"SERVICE_NAME" env-default:"dealership"`
	HTTPServer   HTTPServerConfig   `yaml:"http_server"`
	MongoDB      MongoDBConfig      `yaml:"mongo"`
	Redis        RedisConfig        `yaml:"redis"`
	NATS         NATSConfig         `yaml:"nats"`
	MinIO        MinIOConfig        `yaml:"minio"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	JWT          JWTConfig          `yaml:"jwt"`
	Auth         AuthConfig         `yaml:"auth"`
	Cart         CartConfig         `yaml:"cart"`
	VehicleCache VehicleCacheConfig `yaml:"vehicle_cache"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	CORS         CORSConfig         `yaml:"cors"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Tracing      TracingConfig      `yaml:"tracing"`
	Logger       LoggerConfig       `yaml:"logger"`
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"30s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"dealership_db"`
}

type RedisConfig struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize    int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

type NATSConfig struct {
	URL            string        `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
	Enabled        bool          `yaml:"enabled" env:"NATS_ENABLED" env-default:"true"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NATS_CONNECT_TIMEOUT" env-default:"5s"`
	MaxReconnects  int           `yaml:"max_reconnects" env:"NATS_MAX_RECONNECTS" env-default:"5"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait" env:"NATS_RECONNECT_WAIT" env-default:"2s"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"dealership-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type SMTPConfig struct {
	Host        string        `yaml:"host" env:"SMTP_HOST" env-default:"localhost"`
	Port        int           `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string        `yaml:"username" env:"SMTP_USERNAME"`
	Password    string        `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail string        `yaml:"sender_email" env:"SMTP_SENDER_EMAIL" env-default:"no-reply@dealership.local"`
	SenderName  string        `yaml:"sender_name" env:"SMTP_SENDER_NAME" env-default:"Car Dealership"`
	Encryption  string        `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
	ServerName  string        `yaml:"server_name" env:"SMTP_SERVER_NAME"`
	SendTimeout time.Duration `yaml:"send_timeout" env:"SMTP_SEND_TIMEOUT" env-default:"15s"`
}

type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"dealership-service"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
	AdminTTL   time.Duration `yaml:"admin_ttl" env:"JWT_ADMIN_TTL" env-default:"168h"`
}

type AuthConfig struct {
	BcryptCost     int           `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST" env-default:"12"`
	CodeTTL        time.Duration `yaml:"code_ttl" env:"AUTH_CODE_TTL" env-default:"10m"`
	ResetTokenTTL  time.Duration `yaml:"reset_token_ttl" env:"AUTH_RESET_TOKEN_TTL" env-default:"10m"`
	CookieMaxAge   time.Duration `yaml:"cookie_max_age" env:"AUTH_COOKIE_MAX_AGE" env-default:"168h"`
	DeliverTimeout time.Duration `yaml:"deliver_timeout" env:"AUTH_DELIVER_TIMEOUT" env-default:"20s"`
}

type CartConfig struct {
	Store string        `yaml:"store" env:"CART_STORE" env-default:"mongo"`
	TTL   time.Duration `yaml:"ttl" env:"CART_TTL" env-default:"0s"`
}

type VehicleCacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"VEHICLE_CACHE_ENABLED" env-default:"true"`
	TTL     time.Duration `yaml:"ttl" env:"VEHICLE_CACHE_TTL" env-default:"5m"`
}

type RateLimitConfig struct {
	GlobalRequests int           `yaml:"global_requests" env:"RATE_LIMIT_GLOBAL_REQUESTS" env-default:"300"`
	GlobalWindow   time.Duration `yaml:"global_window" env:"RATE_LIMIT_GLOBAL_WINDOW" env-default:"1m"`
	AuthRequests   int           `yaml:"auth_requests" env:"RATE_LIMIT_AUTH_REQUESTS" env-default:"5"`
	LoginRequests  int           `yaml:"login_requests" env:"RATE_LIMIT_LOGIN_REQUESTS" env-default:"10"`
	AuthWindow     time.Duration `yaml:"auth_window" env:"RATE_LIMIT_AUTH_WINDOW" env-default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type MetricsConfig struct {
	Port string `yaml:"port" env:"METRICS_PORT"`
}

type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

// LoadConfig reads the YAML file at path and applies environment overrides.
// A missing file falls back to environment variables only.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("config file not found at %s, reading environment only", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
