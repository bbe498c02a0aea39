package detector

import (
	"sync"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
)

// ExtractBatch extracts boxes from many predicted pairs concurrently. Each
// image is an independent computation; results keep input order.
func ExtractBatch(pairs []*heatmap.Pair, opts Options, workers int) [][]Box {
	if workers <= 0 {
		workers = 1
	}
	out := make([][]Box, len(pairs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, p *heatmap.Pair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = ExtractBoxes(p, opts)
		}(i, p)
	}
	wg.Wait()
	return out
}
