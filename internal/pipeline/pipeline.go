package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/MeKo-Tech/craftdet/internal/craftnet"
	"github.com/MeKo-Tech/craftdet/internal/detector"
	"github.com/MeKo-Tech/craftdet/internal/utils"
)

// Pipeline ties the detection stages together: image normalization, the
// network prediction, and box extraction.
type Pipeline struct {
	predictor craftnet.Predictor
	opts      detector.Options
	workers   int
}

// Result holds one image's detections with timing information.
type Result struct {
	Boxes          []detector.Box
	Width          int
	Height         int
	ProcessingTime time.Duration
}

// New creates a pipeline around a predictor. workers bounds the concurrency
// of batch detection; <=0 means sequential.
func New(predictor craftnet.Predictor, opts detector.Options, workers int) (*Pipeline, error) {
	if predictor == nil {
		return nil, errors.New("predictor is nil")
	}
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{predictor: predictor, opts: opts, workers: workers}, nil
}

// DetectImage runs the full inference path for one image and returns boxes
// in the image's pixel coordinates.
func (p *Pipeline) DetectImage(img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	start := time.Now()

	// The network halves resolution twice over; odd dimensions are cropped
	// down by a pixel rather than rejected on the inference path.
	img = utils.EnsureEvenDimensions(img)
	b := img.Bounds()

	pair, err := p.predictor.Predict(img)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	boxes := detector.ExtractBoxes(pair, p.opts)
	elapsed := time.Since(start)
	slog.Debug("detected text boxes",
		"count", len(boxes),
		"width", b.Dx(),
		"height", b.Dy(),
		"duration_ms", elapsed.Milliseconds())

	return &Result{
		Boxes:          boxes,
		Width:          b.Dx(),
		Height:         b.Dy(),
		ProcessingTime: elapsed,
	}, nil
}

// DetectImages processes a batch of independent images concurrently.
// Results and errors keep input order.
func (p *Pipeline) DetectImages(images []image.Image) ([]*Result, []error) {
	results := make([]*Result, len(images))
	errs := make([]error, len(images))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)
	for i, img := range images {
		wg.Add(1)
		go func(i int, img image.Image) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = p.DetectImage(img)
		}(i, img)
	}
	wg.Wait()
	return results, errs
}
