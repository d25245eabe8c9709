package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"smartbanner/internal/config"
)

// Kinds of page metadata rows.
const (
	KindMeta = "meta"
	KindLink = "link"
)

type Store struct {
	pool *pgxpool.Pool
}

// MetaRow is one <meta name=Name content=Value> or <link rel=Name href=Value>
// entry of a site.
type MetaRow struct {
	Site  string
	Kind  string
	Name  string
	Value string
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadPageMeta loads every site's metadata, in document order.
func (s *Store) LoadPageMeta(ctx context.Context) ([]MetaRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT site, kind, name, value
		FROM page_meta
		WHERE kind IN ('meta', 'link')
		ORDER BY site, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query page_meta: %w", err)
	}
	defer rows.Close()

	var out []MetaRow
	for rows.Next() {
		var r MetaRow
		if err := rows.Scan(&r.Site, &r.Kind, &r.Name, &r.Value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListenChannel() string {
	return "page_meta_change"
}

func (s *Store) PgxPool() *pgxpool.Pool {
	if s.pool == nil {
		panic(errors.New("pgx pool is nil"))
	}
	return s.pool
}

// StaticLoader serves rows held in memory, e.g. from the config file.
type StaticLoader []MetaRow

func (l StaticLoader) LoadPageMeta(context.Context) ([]MetaRow, error) {
	return append([]MetaRow(nil), l...), nil
}
