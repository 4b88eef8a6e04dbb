package reporting

import (
	"context"
	"maps"
	"time"
)

type reportingMetaContextKey struct{}

// reportingMeta is attached to every error reported with the context
type reportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	player    string
	startedAt time.Time
}

func metaFromContext(ctx context.Context) reportingMeta {
	meta, ok := ctx.Value(reportingMetaContextKey{}).(reportingMeta)
	if !ok {
		return reportingMeta{
			tags:   make(map[string]string),
			extras: make(map[string]string),
		}
	}
	return reportingMeta{
		tags:      maps.Clone(meta.tags),
		extras:    maps.Clone(meta.extras),
		player:    meta.player,
		startedAt: meta.startedAt,
	}
}

func withMeta(ctx context.Context, meta reportingMeta) context.Context {
	return context.WithValue(ctx, reportingMetaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	meta := metaFromContext(ctx)
	meta.startedAt = startedAt

	return withMeta(ctx, meta)
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	meta := metaFromContext(ctx)
	maps.Copy(meta.extras, extras)

	return withMeta(ctx, meta)
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	meta := metaFromContext(ctx)
	maps.Copy(meta.tags, tags)

	return withMeta(ctx, meta)
}

// SetPlayerInContext associates reported errors with the player being queried.
// The player is reported as the Sentry user.
func SetPlayerInContext(ctx context.Context, platform string, playerID string) context.Context {
	meta := metaFromContext(ctx)
	meta.player = platform + ":" + playerID

	return withMeta(ctx, meta)
}
