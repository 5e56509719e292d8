// Package database opens the optional backing stores: PostgreSQL for the
// recommendation audit, Redis for sessions and Elasticsearch for the scheme
// catalog. Each is opened only when the configuration asks for it.
package database

import (
	"context"
	"errors"
	"sort"

	"govscheme-workers/internal/common/config"
)

type Pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

type Connections struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Open creates clients for every enabled feature. It does not dial; call
// Ping to confirm the stores are reachable.
func Open(cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	if cfg.Audit.Enabled {
		pg, err := NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		conns.Postgres = pg
	}
	if cfg.Session.Backend == config.SessionBackendRedis {
		conns.Redis = NewRedis(cfg.Database.Redis)
	}
	if cfg.Catalog.Enabled {
		es, err := NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
	}
	return conns, nil
}

func (c *Connections) named() map[string]Pinger {
	out := map[string]Pinger{}
	if c.Postgres != nil {
		out["postgres"] = c.Postgres
	}
	if c.Redis != nil {
		out["redis"] = c.Redis
	}
	if c.Elasticsearch != nil {
		out["elasticsearch"] = c.Elasticsearch
	}
	return out
}

// Names lists the opened stores in sorted order.
func (c *Connections) Names() []string {
	names := make([]string, 0, 3)
	for name := range c.named() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks every opened store and returns the failures keyed by name.
func (c *Connections) Ping(ctx context.Context) map[string]error {
	failures := map[string]error{}
	for name, p := range c.named() {
		if err := p.Ping(ctx); err != nil {
			failures[name] = err
		}
	}
	return failures
}

func (c *Connections) Close() error {
	var errs []error
	for _, p := range c.named() {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
