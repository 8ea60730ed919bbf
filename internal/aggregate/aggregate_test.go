package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbanner/internal/upstream"
)

type fakeSource struct {
	world      upstream.WorldInfo
	worldErr   error
	guild      upstream.GuildInfo
	guildErr   error
	boss       upstream.BossInfo
	bossErr    error
	npc        upstream.NpcLocation
	npcErr     error
	events     upstream.EventList
	eventsErr  error
	npcAskedAs string
}

func (f *fakeSource) FetchWorld(_ context.Context, _ string) (upstream.WorldInfo, error) {
	return f.world, f.worldErr
}

func (f *fakeSource) FetchGuild(_ context.Context, _ string) (upstream.GuildInfo, error) {
	return f.guild, f.guildErr
}

func (f *fakeSource) FetchBoostedBoss(_ context.Context) (upstream.BossInfo, error) {
	return f.boss, f.bossErr
}

func (f *fakeSource) FetchNPCLocation(_ context.Context, npc string) (upstream.NpcLocation, error) {
	f.npcAskedAs = npc
	return f.npc, f.npcErr
}

func (f *fakeSource) FetchWorldEvents(_ context.Context, _ string) (upstream.EventList, error) {
	return f.events, f.eventsErr
}

func healthySource() *fakeSource {
	return &fakeSource{
		world:  upstream.WorldInfo{Name: "Antica", PlayersOnline: 400},
		guild:  upstream.GuildInfo{Name: "Redd Alliance", World: "Antica", MembersTotal: 120, PlayersOnline: 30},
		boss:   upstream.BossInfo{Name: "Gaz'haragoth", ImageURL: "https://static.example.com/boss.gif"},
		npc:    upstream.NpcLocation{Name: "rashid", City: "Carlin"},
		events: upstream.EventList{Names: []string{"Bewitched"}},
	}
}

func TestFetchJoinsAllSources(t *testing.T) {
	src := healthySource()
	agg := New(src, nil)

	got, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "pt")
	require.NoError(t, err)

	assert.False(t, got.World.Degraded)
	assert.Equal(t, "Antica", got.World.Value.Name)
	assert.Equal(t, "Redd Alliance", got.Guild.Name)
	assert.False(t, got.BoostedBoss.Degraded)
	assert.Equal(t, "Carlin", got.NpcLocation.Value.City)
	assert.Equal(t, "rashid", src.npcAskedAs)
	assert.False(t, got.SpecialEventActive)
	assert.NotEmpty(t, got.GeneratedAt)
}

func TestGuildFailureIsFatal(t *testing.T) {
	src := healthySource()
	src.guildErr = upstream.ErrGuildNotFound
	agg := New(src, nil)

	_, err := agg.Fetch(context.Background(), "Antica", "Nope", "pt")
	require.ErrorIs(t, err, upstream.ErrGuildNotFound)
}

func TestOptionalSourcesDegradeToPlaceholders(t *testing.T) {
	src := healthySource()
	boom := errors.New("provider down")
	src.worldErr = boom
	src.bossErr = boom
	src.npcErr = boom
	src.eventsErr = boom
	agg := New(src, nil)

	got, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "pt")
	require.NoError(t, err, "optional failures must not abort the aggregation")

	assert.True(t, got.World.Degraded)
	assert.Equal(t, "Antica", got.World.Value.Name, "placeholder echoes the requested world")
	assert.Zero(t, got.World.Value.PlayersOnline)
	assert.True(t, got.BoostedBoss.Degraded)
	assert.Equal(t, "Unknown", got.BoostedBoss.Value.Name)
	assert.True(t, got.NpcLocation.Degraded)
	assert.Equal(t, "Unknown", got.NpcLocation.Value.City)
	assert.True(t, got.WorldEvents.Degraded)
	assert.False(t, got.SpecialEventActive, "degraded events mean no badge, not an error")
}

func TestSpecialEventMarkerFlatShape(t *testing.T) {
	src := healthySource()
	src.events = upstream.EventList{Names: []string{"Bewitched", "Rapid Respawn Weekend"}}
	agg := New(src, nil)

	got, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "pt")
	require.NoError(t, err)
	assert.True(t, got.SpecialEventActive)
}

func TestSpecialEventMarkerStructuredShape(t *testing.T) {
	src := healthySource()
	src.events = upstream.EventList{Changes: []upstream.EventChange{
		{Name: "Double XP", Description: "also featuring RAPID RESPAWN bonus"},
	}}
	agg := New(src, nil)

	got, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "pt")
	require.NoError(t, err)
	assert.True(t, got.SpecialEventActive, "marker match is case-insensitive across both shapes")
}

func TestGeneratedAtUsesRequestedLocale(t *testing.T) {
	agg := New(healthySource(), nil)

	pt, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "pt")
	require.NoError(t, err)
	en, err := agg.Fetch(context.Background(), "Antica", "Redd Alliance", "en")
	require.NoError(t, err)

	assert.Contains(t, pt.GeneratedAt, " de ")
	assert.NotContains(t, en.GeneratedAt, " de ")
}
