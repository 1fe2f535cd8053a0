package tracker

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Sternrassler/bf6-tracker-bot/pkg/client"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/logging"
	"github.com/rs/zerolog"
)

// Fetcher performs cached tracker requests. *client.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req client.Request) client.Result
}

// API exposes the tracker.gg endpoints used by the bot.
type API struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewAPI creates an API over fetcher.
func NewAPI(fetcher Fetcher, logger zerolog.Logger) *API {
	return &API{
		fetcher: fetcher,
		logger:  logging.Component(logger, "tracker"),
	}
}

// PlayerProfile returns the stats profile of a player.
func (a *API) PlayerProfile(ctx context.Context, platform string, userID UserID, fresh bool) (*Profile, bool) {
	res := a.fetcher.Fetch(ctx, client.Request{
		Path:  "/profile/" + url.PathEscape(platform) + "/" + url.PathEscape(userID.String()),
		Fresh: fresh,
	})
	if res.Absent() {
		return nil, false
	}

	var profile Profile
	if err := res.Decode(&profile); err != nil {
		a.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("Unexpected profile shape")
		return nil, false
	}
	return &profile, true
}

// RecentMatches returns up to limit recent matches. Absent data is an empty list.
func (a *API) RecentMatches(ctx context.Context, platform string, userID UserID, limit int) []Match {
	res := a.fetcher.Fetch(ctx, client.Request{
		Path:   "/matches/" + url.PathEscape(platform) + "/" + url.PathEscape(userID.String()),
		Params: client.Params{"page": 1, "limit": limit},
	})
	if res.Absent() {
		return nil
	}

	items := Collection(res.Data, "matches", limit)
	matches := make([]Match, 0, len(items))
	for _, item := range items {
		var m Match
		if err := json.Unmarshal(item, &m); err != nil {
			a.logger.Debug().Err(err).Msg("Skipping malformed match")
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// SearchPlayer returns the best match for query on platform.
func (a *API) SearchPlayer(ctx context.Context, platform, query string) (*SearchResult, bool) {
	res := a.fetcher.Fetch(ctx, client.Request{
		Path:   "/search",
		Params: client.Params{"platform": platform, "query": query, "autocomplete": "true"},
	})
	if res.Absent() {
		return nil, false
	}

	item, ok := First(res.Data, "results", "matches")
	if !ok {
		return nil, false
	}

	var hit SearchResult
	if err := json.Unmarshal(item, &hit); err != nil {
		a.logger.Warn().Err(err).Str("query", query).Msg("Unexpected search result shape")
		return nil, false
	}
	if hit.TitleUserID == "" {
		return nil, false
	}
	return &hit, true
}
