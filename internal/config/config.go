package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every parameter of the dashboard.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Events   EventsConfig   `yaml:"events"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
}

type APIConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"required,url"`
	Tenant       string        `yaml:"tenant" validate:"required"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	ServiceToken string        `yaml:"service_token"`
}

// Event transports.
const (
	TransportSocketIO = "socketio"
	TransportAMQP     = "amqp"
	TransportPostgres = "postgres"
)

type EventsConfig struct {
	Transport      string        `yaml:"transport" validate:"oneof=socketio amqp postgres"`
	SocketURL      string        `yaml:"socket_url"`
	Exchange       string        `yaml:"exchange"`
	Channel        string        `yaml:"pg_channel"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay" validate:"gt=0"`
}

// HTTPConfig.SessionStore is memory for one replica, or redis to share
// sessions and login limits between replicas.
type HTTPConfig struct {
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	SessionTTL   time.Duration `yaml:"session_ttl" validate:"gt=0"`
	LoginRate    string        `yaml:"login_rate"`
	SessionStore string        `yaml:"session_store" validate:"oneof=memory redis"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	TLS      bool   `yaml:"tls"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// Session stores.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Tenant:  "restro-1",
			Timeout: 10 * time.Second,
		},
		Events: EventsConfig{
			Transport:      TransportSocketIO,
			Exchange:       "orders_events_fanout",
			Channel:        "order_events",
			ReconnectDelay: 2 * time.Second,
		},
		HTTP: HTTPConfig{Port: 8080, SessionTTL: 24 * time.Hour, LoginRate: "10-M", SessionStore: SessionStoreMemory},
		Log:  LogConfig{Level: "info"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, User: "restaurant_user", Database: "restaurant_db",
		},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest", VHost: "/"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
	}
}

// LoadConfig reads path over the defaults, applies DASHBOARD_* env overrides and validates.
// An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Events.Transport {
	case TransportAMQP:
		if c.RabbitMQ.Host == "" {
			return errors.New("invalid config: events.transport amqp needs rabbitmq.host")
		}
	case TransportPostgres:
		if c.Database.Host == "" {
			return errors.New("invalid config: events.transport postgres needs database.host")
		}
	}
	if c.HTTP.SessionStore == SessionStoreRedis && c.Redis.Addr == "" {
		return errors.New("invalid config: http.session_store redis needs redis.addr")
	}
	return nil
}

// SocketURL is the push endpoint, defaulting to the API base url.
func (c *Config) SocketURL() string {
	if c.Events.SocketURL != "" {
		return c.Events.SocketURL
	}
	return c.API.BaseURL
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"DASHBOARD_API_BASE_URL":      &c.API.BaseURL,
		"DASHBOARD_API_TENANT":        &c.API.Tenant,
		"DASHBOARD_API_SERVICE_TOKEN": &c.API.ServiceToken,
		"DASHBOARD_EVENTS_TRANSPORT":  &c.Events.Transport,
		"DASHBOARD_EVENTS_SOCKET_URL": &c.Events.SocketURL,
		"DASHBOARD_LOG_LEVEL":         &c.Log.Level,
		"DASHBOARD_DB_HOST":           &c.Database.Host,
		"DASHBOARD_DB_PASSWORD":       &c.Database.Password,
		"DASHBOARD_RABBITMQ_HOST":     &c.RabbitMQ.Host,
		"DASHBOARD_RABBITMQ_PASSWORD": &c.RabbitMQ.Password,
		"DASHBOARD_SESSION_STORE":     &c.HTTP.SessionStore,
		"DASHBOARD_REDIS_ADDR":        &c.Redis.Addr,
		"DASHBOARD_REDIS_PASSWORD":    &c.Redis.Password,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("DASHBOARD_HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASHBOARD_HTTP_PORT: %w", err)
		}
		c.HTTP.Port = port
	}
	if v, ok := lookup("DASHBOARD_API_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DASHBOARD_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	return nil
}

// FindConfig returns the first config file that exists.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
