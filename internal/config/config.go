// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhare/finbook/internal/money"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP event publishing; empty URL disables it.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reporting
	BaseCurrency string
	// ExchangeRates holds static conversion rates as comma-separated
	// FROM/TO=RATE pairs, e.g. "EUR/USD=1.10,GBP/USD=1.27".
	ExchangeRates string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finbook.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finbook"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "finance_events"),

		BaseCurrency:  getEnv("BASE_CURRENCY", "USD"),
		ExchangeRates: getEnv("EXCHANGE_RATES", ""),
	}
}

// Rates parses the configured exchange-rate pairs.
func (c *Config) Rates() ([]money.ExchangeRate, error) {
	if strings.TrimSpace(c.ExchangeRates) == "" {
		return nil, nil
	}
	var rates []money.ExchangeRate
	for _, pair := range strings.Split(c.ExchangeRates, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		from, to, okName := strings.Cut(name, "/")
		if !ok || !okName {
			return nil, fmt.Errorf("invalid exchange rate '%s': want FROM/TO=RATE", pair)
		}
		rateValue, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid exchange rate '%s': %v", pair, err)
		}
		rate, err := money.NewExchangeRate(strings.TrimSpace(from), strings.TrimSpace(to), rateValue)
		if err != nil {
			return nil, fmt.Errorf("invalid exchange rate '%s': %v", pair, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(c.BaseCurrency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be a 3-letter code", c.BaseCurrency))
	}

	if _, err := c.Rates(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
