package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Period clock: length of one accrual period and the boundary shift
	// (may be negative) in seconds.
	PeriodLengthSecs int64
	PeriodOffsetSecs int64

	// Default loan terms served by the static terms provider.
	DefaultAssetID        string
	DefaultSettlementID   string
	DefaultDuration       uint64
	DefaultRatePrimary    uint64
	DefaultRateSecondary  uint64
	DefaultInterestMethod string
	DefaultAddonAmount    uint64
	DefaultPenaltyRate    uint64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func getuint64(k string, d uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "ledger"),
		MySQLUser: getenv("MYSQL_USER", "ledger"),
		MySQLPass: getenv("MYSQL_PASS", "ledger"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		PeriodLengthSecs: getint64("PERIOD_LENGTH_SECONDS", 86_400),
		PeriodOffsetSecs: getint64("PERIOD_OFFSET_SECONDS", 0),

		DefaultAssetID:        getenv("TERMS_ASSET_ID", "brl-stable"),
		DefaultSettlementID:   getenv("TERMS_SETTLEMENT_ID", "treasury-main"),
		DefaultDuration:       getuint64("TERMS_DURATION_PERIODS", 30),
		DefaultRatePrimary:    getuint64("TERMS_RATE_PRIMARY", 1_000_000),
		DefaultRateSecondary:  getuint64("TERMS_RATE_SECONDARY", 2_000_000),
		DefaultInterestMethod: getenv("TERMS_INTEREST_FORMULA", "compound"),
		DefaultAddonAmount:    getuint64("TERMS_ADDON_AMOUNT", 0),
		DefaultPenaltyRate:    getuint64("TERMS_PENALTY_RATE", 0),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.PeriodLengthSecs <= 0 {
		return errors.New("PERIOD_LENGTH_SECONDS must be positive")
	}
	if c.DefaultDuration == 0 {
		return errors.New("TERMS_DURATION_PERIODS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
