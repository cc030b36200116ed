// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adjudicate

import (
	"context"
	"sync"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// ResolveAll adjudicates every track through a bounded worker pool, each
// worker running one track's state machine to completion. Results keep the
// input order; no ordering is guaranteed between tracks in flight. On
// cancellation, in-flight tracks finish as Unmatched("cancelled") while
// already-completed tracks keep their dispositions.
func (a *Adjudicator) ResolveAll(ctx context.Context, tracks []types.SourceTrack) []types.Disposition {
	workers := a.cfg.Run.Workers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	results := make([]types.Disposition, len(tracks))
	var wg sync.WaitGroup

	for i, t := range tracks {
		wg.Add(1)
		go func(i int, t types.SourceTrack) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.Resolve(ctx, t)
		}(i, t)
	}

	wg.Wait()
	return results
}
