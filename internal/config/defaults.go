package config

import "time"

const (
	defaultPort             = 8080
	defaultLogLevel         = "info"
	defaultTokenTTL         = 24 * time.Hour
	defaultBcryptCost       = 10
	defaultOperationTimeout = 3 * time.Second
	defaultPprofAddr        = "127.0.0.1:6060"
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "fuel_delivery",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       10,
	Burst:      20,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultKafka = Kafka{
	Brokers:     []string{"localhost:9092"},
	StatusTopic: "delivery.driver_status",
	EventsTopic: "delivery.status_changed",
	GroupID:     "fuel-delivery-worker",
}

func defaults() *Config {
	k := defaultKafka
	k.Brokers = append([]string(nil), defaultKafka.Brokers...)
	return &Config{
		Port:             defaultPort,
		Env:              EnvProduction,
		LogLevel:         defaultLogLevel,
		OperationTimeout: defaultOperationTimeout,
		DB:               defaultDB,
		Auth: Auth{
			TokenTTL:   defaultTokenTTL,
			BcryptCost: defaultBcryptCost,
		},
		RateLimit: defaultRateLimit,
		Kafka:     k,
		Pprof:     Pprof{Addr: defaultPprofAddr},
	}
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
