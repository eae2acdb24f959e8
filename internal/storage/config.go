package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config defines fields used for parsing storage settings from environment variables
type Config struct {
	Driver         string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	User           string        `env:"DB_USER" envDefault:"postgres"`
	Password       string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Host           string        `env:"DB_HOST" envDefault:"localhost"`
	Port           uint16        `env:"DB_PORT" envDefault:"5432"`
	DBName         string        `env:"DB_NAME" envDefault:"messages"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`
	BadgerPath     string        `env:"BADGER_PATH" envDefault:"data/badger"`
}

// DSN returns the keyword/value connection string for Postgres
func (c Config) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Option alters the default configuration of the pgxpool.Config used during new PostgresStore construction
type Option interface {
	apply(*pgxpool.Config)
}

type optionFunc func(c *pgxpool.Config)

func (f optionFunc) apply(c *pgxpool.Config) { f(c) }

// ConnectionTimeout sets timeout for connection to be established
func ConnectionTimeout(d time.Duration) Option {
	return optionFunc(func(c *pgxpool.Config) {
		c.ConnConfig.ConnectTimeout = d
	})
}

// MaxConns caps the number of pooled connections
func MaxConns(n int32) Option {
	return optionFunc(func(c *pgxpool.Config) {
		c.MaxConns = n
	})
}

// Open builds the Store selected by cfg.Driver
func Open(ctx context.Context, logger *zap.SugaredLogger, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return NewPostgresStore(ctx, logger, cfg, ConnectionTimeout(cfg.ConnectTimeout))
	case DriverBadger:
		return NewBadgerStore(logger, cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
