package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, auction policy, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Auction AuctionConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	SnapshotTTL time.Duration `envconfig:"REDIS_SNAPSHOT_TTL" default:"24h"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"auction.lot.events"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret        string        `envconfig:"JWT_SECRET" required:"true"`
	TokenDuration time.Duration `envconfig:"JWT_TOKEN_DURATION" default:"24h"`
}

// AuctionConfig carries product policy, not mechanism. Thresholds and
// steps form the increment tier table: a bid at price p must raise it by
// at least the step of the tier p falls in. len(Steps) must equal
// len(Thresholds)+1.
type AuctionConfig struct {
	IncrementThresholds []string      `envconfig:"AUCTION_INCREMENT_THRESHOLDS" default:"500,2000"`
	IncrementSteps      []string      `envconfig:"AUCTION_INCREMENT_STEPS" default:"25,100,250"`
	PremiumRate         string        `envconfig:"AUCTION_PREMIUM_RATE" default:"0.20"`
	MaxBidRetries       int           `envconfig:"AUCTION_MAX_BID_RETRIES" default:"3"`
	SweepInterval       time.Duration `envconfig:"AUCTION_SWEEP_INTERVAL" default:"15s"`
	RelayInterval       time.Duration `envconfig:"AUCTION_RELAY_INTERVAL" default:"500ms"`
	RelayBatchSize      int           `envconfig:"AUCTION_RELAY_BATCH_SIZE" default:"100"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
		JWT: JWTConfig{
			Secret:        "test-secret",
			TokenDuration: time.Hour,
		},
		Auction: AuctionConfig{
			IncrementThresholds: []string{"500", "2000"},
			IncrementSteps:      []string{"25", "100", "250"},
			PremiumRate:         "0.20",
			MaxBidRetries:       3,
			SweepInterval:       15 * time.Second,
			RelayInterval:       500 * time.Millisecond,
			RelayBatchSize:      100,
		},
	}
}
