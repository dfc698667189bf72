package types

import (
	"context"

	"github.com/mcuadros/go-defaults"
)

func NewOptions() *Options {
	opts := &Options{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type Options struct {
	Ctx context.Context
	/**
	 * default: 64
	 * size of the shared worker pool node runs are dispatched on. One
	 * pool serves every execution of the engine.
	 */
	MaxNodeConcurrency int `default:"64"`
	/**
	 * default: false, only set it to true when doing testing or developing.
	 */
	MemStore bool `default:"false"`

	// PostgresConfig takes precedence over BadgerConfig and MemStore.
	PostgresConfig *PostgresConfig

	// BadgerConfig selects the embedded store when set.
	BadgerConfig *BadgerConfig
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

// BadgerConfig holds the embedded badger store configuration
type BadgerConfig struct {
	Path string
	// InMemory skips the disk entirely; Path is ignored then.
	InMemory   bool
	SyncWrites bool
}

type Option func(*Options)

func WithContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Ctx = ctx
	}
}

func SetMaxNodeConcurrency(concurrency int) Option {
	return func(opts *Options) {
		opts.MaxNodeConcurrency = concurrency
	}
}

func EnableMemStore() Option {
	return func(opts *Options) {
		opts.MemStore = true
	}
}

// WithPostgresConfig configures the engine to use the PostgreSQL store
func WithPostgresConfig(config *PostgresConfig) Option {
	return func(opts *Options) {
		opts.PostgresConfig = config
	}
}

// WithBadgerConfig configures the engine to use the embedded badger store
func WithBadgerConfig(config *BadgerConfig) Option {
	return func(opts *Options) {
		opts.BadgerConfig = config
	}
}
