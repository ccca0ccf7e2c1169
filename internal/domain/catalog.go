package domain

import (
	"errors"
	"math/rand"
)

// ErrEmptyCatalog is returned when a catalog is constructed with no items.
var ErrEmptyCatalog = errors.New("catalog has no items")

// CatalogItem is a single playable title. Weight is the item's popularity
// score normalized against the highest score in the catalog, so the most
// popular item always has weight 1.0.
type CatalogItem struct {
	ID              string
	Title           string
	DurationSeconds int
	Weight          float64
}

// Catalog is an immutable set of weighted items. It is safe for concurrent
// use by any number of workers once constructed.
type Catalog struct {
	items   []CatalogItem
	weights []float64
}

// NewCatalog builds a catalog from the given items.
func NewCatalog(items []CatalogItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		items:   make([]CatalogItem, len(items)),
		weights: make([]float64, len(items)),
	}
	copy(c.items, items)
	for i, it := range items {
		c.weights[i] = it.Weight
	}
	return c, nil
}

// Items returns the catalog contents.
func (c *Catalog) Items() []CatalogItem { return c.items }

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int { return len(c.items) }

// Pick draws one item at random, with probability proportional to weight.
// Each draw is independent; the same item may be drawn again later.
func (c *Catalog) Pick(rng *rand.Rand) CatalogItem {
	return c.items[WeightedIndex(rng, c.weights)]
}

// WeightedIndex selects an index from weights with probability proportional
// to the weight at that index. Non-positive weights are never selected.
// The slice must contain at least one positive weight.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		x -= w
		if x < 0 {
			return i
		}
	}
	// Float rounding can leave x at exactly zero after the last element.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return 0
}
