// Package batch runs one function over many inputs with a bounded worker pool.
//
// It is used for roster-wide lookups (one profile per player) where each call
// is independent and a failed item must not abort the others:
//
//	profiles := batch.Map(ctx, batch.DefaultConfig(), players, func(ctx context.Context, p roster.Player) *tracker.Profile {
//		profile, _ := api.PlayerProfile(ctx, p.Platform, p.UserID, false)
//		return profile
//	})
//
// The fan-out:
//   - Spawns a worker pool (default 4 workers, matching the client's admission limit)
//   - Distributes inputs over a queue
//   - Returns results in input order; items not processed keep the zero value
//   - Stops handing out work once the context is cancelled
package batch
