// Package tracker wraps the tracker.gg Battlefield 6 endpoints used by the bot.
//
// tracker.gg does not keep a stable response shape: the same endpoint may
// answer with a bare JSON array or with an object that holds the array in a
// named field. The normalization helpers in this package accept both:
//
//	items := tracker.Collection(raw, "matches", 5)  // bare array truncated to 5
//	first, ok := tracker.First(raw, "results", "matches")
//
// All lookups go through a Fetcher (normally *client.Client), so responses
// are cached and admission-limited there. Missing data is reported as an
// empty value or ok=false, never as an error.
package tracker
