package concurrent

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every element of items using at most workers
// goroutines. workers <= 0 means GOMAXPROCS. It waits for all goroutines and
// returns the first error encountered.
func ForEach[T any](items []T, workers int, action func(T) error) error {
	if len(items) == 0 {
		return nil
	}
	var g errgroup.Group
	g.SetLimit(limit(workers, len(items)))
	for _, item := range items {
		g.Go(func() error {
			return action(item)
		})
	}
	return g.Wait()
}

func limit(workers, n int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	return workers
}
