package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	UserStorePostgres = "postgres"
	UserStoreRedis    = "redis"
)

type Config struct {
	ServerPort string `yaml:"serverPort"`
	LogLevel   string `yaml:"logLevel"`

	DBHost     string `yaml:"dbHost"`
	DBPort     int    `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPassword string `yaml:"dbPassword"`
	DBName     string `yaml:"dbName"`
	DBSslMode  string `yaml:"dbSslMode"`

	// StorageDriver selects the repositories: postgres or memory.
	StorageDriver string `yaml:"storageDriver"`
	// UserStore selects where users live when StorageDriver is postgres.
	UserStore     string `yaml:"userStore"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	JWTSecret          string `yaml:"jwtSecret"`
	JWTExpirationHours int    `yaml:"jwtExpirationHours"`

	PaymentTimeoutMinutes int    `yaml:"paymentTimeoutMinutes"`
	PaymentWarningMinutes int    `yaml:"paymentWarningMinutes"`
	TicketPrefix          string `yaml:"ticketPrefix"`

	AWSRegion       string `yaml:"awsRegion"`
	SQSGateQueueURL string `yaml:"sqsGateQueueUrl"`
	IoTEndpoint     string `yaml:"iotEndpoint"`
	IoTBarrierTopic string `yaml:"iotBarrierTopic"`
	LPREnabled      bool   `yaml:"lprEnabled"`

	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"adminPassword"`
}

func defaults() *Config {
	return &Config{
		ServerPort:            "8080",
		LogLevel:              "info",
		DBHost:                "localhost",
		DBPort:                5432,
		DBUser:                "parking",
		DBName:                "parking_db",
		DBSslMode:             "disable",
		StorageDriver:         StorageDriverPostgres,
		UserStore:             UserStorePostgres,
		RedisAddr:             "localhost:6379",
		JWTExpirationHours:    24,
		PaymentTimeoutMinutes: 15,
		PaymentWarningMinutes: 5,
		TicketPrefix:          "TK",
		AWSRegion:             "us-east-1",
		IoTBarrierTopic:       "parking/barrier/commands",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SERVER_PORT":        &c.ServerPort,
		"LOG_LEVEL":          &c.LogLevel,
		"DB_HOST":            &c.DBHost,
		"DB_USER":            &c.DBUser,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_NAME":            &c.DBName,
		"DB_SSLMODE":         &c.DBSslMode,
		"STORAGE_DRIVER":     &c.StorageDriver,
		"USER_STORE":         &c.UserStore,
		"REDIS_ADDR":         &c.RedisAddr,
		"REDIS_PASSWORD":     &c.RedisPassword,
		"JWT_SECRET":         &c.JWTSecret,
		"TICKET_PREFIX":      &c.TicketPrefix,
		"AWS_REGION":         &c.AWSRegion,
		"SQS_GATE_QUEUE_URL": &c.SQSGateQueueURL,
		"IOT_ENDPOINT":       &c.IoTEndpoint,
		"IOT_BARRIER_TOPIC":  &c.IoTBarrierTopic,
		"ADMIN_USERNAME":     &c.AdminUsername,
		"ADMIN_PASSWORD":     &c.AdminPassword,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"DB_PORT":                 &c.DBPort,
		"JWT_EXPIRATION_HOURS":    &c.JWTExpirationHours,
		"PAYMENT_TIMEOUT_MINUTES": &c.PaymentTimeoutMinutes,
		"PAYMENT_WARNING_MINUTES": &c.PaymentWarningMinutes,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: parse %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("LPR_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: parse LPR_ENABLED: %w", err)
		}
		c.LPREnabled = b
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.UserStore {
	case UserStorePostgres, UserStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("config: unknown USER_STORE %q", c.UserStore))
	}
	if c.PaymentTimeoutMinutes <= 0 {
		errs = append(errs, errors.New("config: PAYMENT_TIMEOUT_MINUTES must be positive"))
	}
	if c.PaymentWarningMinutes < 0 || c.PaymentWarningMinutes > c.PaymentTimeoutMinutes {
		errs = append(errs, errors.New("config: PAYMENT_WARNING_MINUTES must be between 0 and the payment timeout"))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, errors.New("config: JWT_EXPIRATION_HOURS must be positive"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is required"))
	}
	if strings.TrimSpace(c.TicketPrefix) == "" {
		errs = append(errs, errors.New("config: TICKET_PREFIX is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.PaymentTimeoutMinutes) * time.Minute
}

func (c *Config) PaymentWarning() time.Duration {
	return time.Duration(c.PaymentWarningMinutes) * time.Minute
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.ServerPort)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// PostgresDSN is the key/value connection string for the pgx stdlib driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
