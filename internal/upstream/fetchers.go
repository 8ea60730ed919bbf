package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// FetchWorld returns population and status info for one game world.
func (c *Client) FetchWorld(ctx context.Context, name string) (WorldInfo, error) {
	var w WorldInfo
	if err := c.getJSON(ctx, "/worlds/"+url.PathEscape(name), &w); err != nil {
		return WorldInfo{}, err
	}
	return w, nil
}

// FetchGuild returns the guild payload. Any failure here, including an
// upstream 404 or an empty payload, resolves to ErrGuildNotFound: the guild
// is the one source a banner cannot be rendered without.
func (c *Client) FetchGuild(ctx context.Context, name string) (GuildInfo, error) {
	var g GuildInfo
	err := c.getJSON(ctx, "/guilds/"+url.PathEscape(name), &g)
	if errors.Is(err, errNotFound) {
		return GuildInfo{}, fmt.Errorf("%w: %q", ErrGuildNotFound, name)
	}
	if err != nil {
		return GuildInfo{}, err
	}
	if g.Name == "" {
		return GuildInfo{}, fmt.Errorf("%w: empty payload for %q", ErrGuildNotFound, name)
	}
	return g, nil
}

// FetchBoostedBoss returns today's boosted boss.
func (c *Client) FetchBoostedBoss(ctx context.Context) (BossInfo, error) {
	var b BossInfo
	if err := c.getJSON(ctx, "/bosses/boosted", &b); err != nil {
		return BossInfo{}, err
	}
	return b, nil
}

// FetchNPCLocation returns today's city for a traveling NPC.
func (c *Client) FetchNPCLocation(ctx context.Context, npc string) (NpcLocation, error) {
	var n NpcLocation
	if err := c.getJSON(ctx, "/npcs/"+url.PathEscape(npc)+"/location", &n); err != nil {
		return NpcLocation{}, err
	}
	return n, nil
}

// FetchWorldEvents returns the scheduled events for a world.
func (c *Client) FetchWorldEvents(ctx context.Context, world string) (EventList, error) {
	var e EventList
	if err := c.getJSON(ctx, "/worlds/"+url.PathEscape(world)+"/events", &e); err != nil {
		return EventList{}, err
	}
	return e, nil
}
