package listener

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"smartbanner/internal/catalog"
	"smartbanner/internal/observability"
	"smartbanner/internal/storage"
)

// ListenAndRefresh rebuilds the page catalog whenever Postgres notifies
// on channel. It returns when ctx is done.
func ListenAndRefresh(ctx context.Context, st *storage.Store, cat *catalog.Catalog, channel string, baseBackoff time.Duration) {
	conn, err := st.PgxPool().Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("acquire conn for listen")
		return
	}
	defer conn.Release()

	if channel == "" {
		channel = st.ListenChannel()
	}
	if _, err = conn.Exec(ctx, "LISTEN "+channel); err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("listen")
		return
	}
	log.Info().Str("channel", channel).Msg("listening for page metadata changes")

	var lastRefresh time.Time
	for {
		ntf, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("listener stopped")
				return
			}
			backoff := jitter(baseBackoff)
			log.Error().Err(err).Dur("retry_in", backoff).Msg("notify wait error")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		if time.Since(lastRefresh) < 200*time.Millisecond {
			continue // debounce burst of notifications
		}
		lastRefresh = time.Now()
		log.Info().Str("channel", ntf.Channel).Msg("page metadata changed; refreshing catalog")
		if err := cat.BuildSnapshot(ctx, st); err != nil {
			observability.CatalogRefreshes.WithLabelValues("error").Inc()
			log.Error().Err(err).Msg("refresh catalog error")
			continue
		}
		observability.CatalogRefreshes.WithLabelValues("ok").Inc()
	}
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	factor := 0.5 + rand.Float64() // 0.5x-1.5x
	return time.Duration(float64(base) * factor)
}
