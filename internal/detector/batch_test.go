package detector

import (
	"testing"

	"github.com/MeKo-Tech/craftdet/internal/heatmap"
)

func TestExtractBatch_KeepsOrder(t *testing.T) {
	pairs := []*heatmap.Pair{
		pairWithTextRect(64, 64, 10, 10, 30, 20, 0.9),
		heatmap.NewPair(64, 64),
		pairWithTextRect(64, 64, 5, 5, 40, 30, 0.9),
	}

	out := ExtractBatch(pairs, DefaultOptions(), 2)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	if len(out[0]) != 1 {
		t.Errorf("expected 1 box for first pair, got %d", len(out[0]))
	}
	if len(out[1]) != 0 {
		t.Errorf("expected no boxes for empty pair, got %d", len(out[1]))
	}
	if len(out[2]) != 1 {
		t.Errorf("expected 1 box for third pair, got %d", len(out[2]))
	}
}

func TestExtractBatch_ZeroWorkers(t *testing.T) {
	pairs := []*heatmap.Pair{pairWithTextRect(32, 32, 5, 5, 20, 15, 0.9)}
	out := ExtractBatch(pairs, DefaultOptions(), 0)
	if len(out) != 1 || len(out[0]) != 1 {
		t.Fatalf("unexpected batch result: %v", out)
	}
}

func TestExtractBatch_Empty(t *testing.T) {
	out := ExtractBatch(nil, DefaultOptions(), 4)
	if len(out) != 0 {
		t.Errorf("expected empty result, got %d", len(out))
	}
}
