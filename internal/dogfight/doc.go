// Package dogfight runs a round-based consensus protocol over a roster of
// expert actors and a scribe, all backed by a single text oracle.
//
// Each round every actor proposes in parallel, the scribe merges the
// proposals into a draft, and every actor votes on that draft in parallel.
// The debate ends when the agreeing fraction of the roster reaches the
// consensus threshold or the round budget runs out. Either way the last
// draft is the result.
//
// Proposals, votes and events always follow roster order, regardless of
// which oracle call finishes first. Oracle failures never abort a debate:
// they become empty proposals and drafts, and disagreeing votes.
//
// Basic usage:
//
//	d, err := dogfight.New(roster, o, dogfight.DefaultConfig(),
//		dogfight.WithLogger(logger),
//		dogfight.WithEventBus(bus),
//	)
//	if err != nil {
//		return err
//	}
//	draft := d.Debate(ctx, "Design a rate limiter for a public API")
package dogfight
