// Package aggregate joins the independent provider sources into the single
// snapshot a banner is rendered from. Optional sources degrade to
// placeholders; only the guild payload is allowed to fail the request.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"guildbanner/internal/i18n"
	"guildbanner/internal/upstream"
)

// specialEventMarker flags the world event that gets a badge on the banner.
// Matched case-insensitively against both event payload shapes.
const specialEventMarker = "rapid respawn"

// travelingNPC is the merchant whose daily city is shown on the banner.
const travelingNPC = "rashid"

// Datum wraps one source payload. Degraded means the fetch failed and Value
// is a placeholder rather than live data.
type Datum[T any] struct {
	Value    T
	Degraded bool
}

func Present[T any](v T) Datum[T] { return Datum[T]{Value: v} }

func Placeholder[T any](v T) Datum[T] { return Datum[T]{Value: v, Degraded: true} }

// Aggregated is the joined snapshot. Field assignment is fixed, so the
// result does not depend on fetch completion order.
type Aggregated struct {
	World              Datum[upstream.WorldInfo]
	Guild              upstream.GuildInfo
	BoostedBoss        Datum[upstream.BossInfo]
	NpcLocation        Datum[upstream.NpcLocation]
	WorldEvents        Datum[upstream.EventList]
	SpecialEventActive bool
	GeneratedAt        string
}

// Source is the slice of the provider client the aggregator needs.
type Source interface {
	FetchWorld(ctx context.Context, name string) (upstream.WorldInfo, error)
	FetchGuild(ctx context.Context, name string) (upstream.GuildInfo, error)
	FetchBoostedBoss(ctx context.Context) (upstream.BossInfo, error)
	FetchNPCLocation(ctx context.Context, npc string) (upstream.NpcLocation, error)
	FetchWorldEvents(ctx context.Context, world string) (upstream.EventList, error)
}

type Aggregator struct {
	source Source
	log    *slog.Logger
	now    func() time.Time
}

func New(source Source, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{source: source, log: log, now: time.Now}
}

// Fetch runs the five source fetches concurrently and joins them. A guild
// failure cancels the remaining fetches and fails the whole aggregation;
// every other source falls back to its placeholder.
func (a *Aggregator) Fetch(ctx context.Context, world, guildName, lang string) (Aggregated, error) {
	var out Aggregated

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		guild, err := a.source.FetchGuild(ctx, guildName)
		if err != nil {
			return fmt.Errorf("fetch guild %q: %w", guildName, err)
		}
		out.Guild = guild
		return nil
	})

	g.Go(func() error {
		w, err := a.source.FetchWorld(ctx, world)
		if err != nil {
			a.log.Warn("world info degraded", "world", world, "err", err)
			out.World = Placeholder(upstream.WorldInfo{Name: world, Status: "unknown"})
			return nil
		}
		out.World = Present(w)
		return nil
	})

	g.Go(func() error {
		boss, err := a.source.FetchBoostedBoss(ctx)
		if err != nil {
			a.log.Warn("boosted boss degraded", "err", err)
			out.BoostedBoss = Placeholder(upstream.BossInfo{Name: "Unknown"})
			return nil
		}
		out.BoostedBoss = Present(boss)
		return nil
	})

	g.Go(func() error {
		loc, err := a.source.FetchNPCLocation(ctx, travelingNPC)
		if err != nil {
			a.log.Warn("npc location degraded", "npc", travelingNPC, "err", err)
			out.NpcLocation = Placeholder(upstream.NpcLocation{Name: travelingNPC, City: "Unknown"})
			return nil
		}
		out.NpcLocation = Present(loc)
		return nil
	})

	g.Go(func() error {
		events, err := a.source.FetchWorldEvents(ctx, world)
		if err != nil {
			a.log.Warn("world events degraded", "world", world, "err", err)
			out.WorldEvents = Placeholder(upstream.EventList{})
			return nil
		}
		out.WorldEvents = Present(events)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Aggregated{}, err
	}

	out.SpecialEventActive = specialEventActive(out.WorldEvents)
	out.GeneratedAt = i18n.FormatDateTime(a.now().UTC(), lang)
	return out, nil
}

// specialEventActive scans both historical event payload shapes for the
// marker. A degraded event source simply means no badge, not an error.
func specialEventActive(events Datum[upstream.EventList]) bool {
	if events.Degraded {
		return false
	}
	for _, name := range events.Value.Names {
		if strings.Contains(strings.ToLower(name), specialEventMarker) {
			return true
		}
	}
	for _, change := range events.Value.Changes {
		if strings.Contains(strings.ToLower(change.Name), specialEventMarker) ||
			strings.Contains(strings.ToLower(change.Description), specialEventMarker) {
			return true
		}
	}
	return false
}
