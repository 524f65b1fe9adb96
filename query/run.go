package query

import (
	"context"
	"runtime"
	"time"

	"github.com/achilleasa/bih/bih"
	"github.com/achilleasa/bih/collision"
	"github.com/achilleasa/bih/log"
	"golang.org/x/sync/errgroup"
)

var logger = log.New("query")

// The Outcome of a single batch ray.
type Outcome struct {
	// Index of the ray in the batch.
	Index int

	Ray collision.Ray

	// Collisions sorted by distance.
	Hits []collision.Result
}

// Get the closest hit. The second return value is false if the ray missed.
func (o Outcome) Closest() (collision.Result, bool) {
	if len(o.Hits) == 0 {
		return collision.Result{}, false
	}
	return o.Hits[0], true
}

// Run casts every batch ray against tree using up to workers goroutines
// (runtime.NumCPU() when workers <= 0). Each worker owns its own traversal
// scratch. If brute is set, the hierarchy is bypassed and every triangle is
// tested. Outcomes are returned in batch order.
func Run(ctx context.Context, tree *bih.Tree, bound collision.BoundingVolume, batch *Batch, workers int, brute bool) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(batch.Rays) {
		workers = len(batch.Rays)
	}

	world := batch.World()
	outcomes := make([]Outcome, len(batch.Rays))
	if len(outcomes) == 0 {
		return outcomes, nil
	}

	logger.Infof("casting %d rays using %d worker(s)", len(batch.Rays), workers)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range batch.Rays {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			scratch := bih.NewScratch()
			var results collision.Results
			for i := range jobs {
				ray := batch.Rays[i].Ray()

				results.Clear()
				if brute {
					tree.CollideBruteForce(ray, world, &results)
				} else if _, err := tree.CollideWith(ray, world, bound, &results, scratch); err != nil {
					return err
				}

				outcomes[i] = Outcome{
					Index: i,
					Ray:   ray,
					Hits:  results.All(),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Infof("cast %d rays in %d ms", len(batch.Rays), time.Since(start).Nanoseconds()/1e6)
	return outcomes, nil
}
