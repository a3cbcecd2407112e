package analytics

import (
	"sort"
	"strings"

	"github.com/ignite/survey-tracker/internal/domain"
	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// Counter counts names and remembers the order each name was first seen.
type Counter struct {
	order  []string
	counts map[string]int
}

// NewCounter returns a counter pre-seeded with zero-valued buckets, which
// fixes their position in Data.
func NewCounter(seed ...string) *Counter {
	c := &Counter{counts: make(map[string]int, len(seed))}
	for _, s := range seed {
		c.AddN(s, 0)
	}
	return c
}

// Add increments name by one.
func (c *Counter) Add(name string) { c.AddN(name, 1) }

// AddN increments name by n.
func (c *Counter) AddN(name string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name] += n
}

// Get returns the count for name.
func (c *Counter) Get(name string) int { return c.counts[name] }

// Len returns the number of distinct names.
func (c *Counter) Len() int { return len(c.order) }

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Data returns the buckets in first-seen order.
func (c *Counter) Data() []domain.ChartDatum {
	out := make([]domain.ChartDatum, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, domain.ChartDatum{Name: name, Value: c.counts[name]})
	}
	return out
}

// Sorted returns the buckets by descending count. Equal counts keep their
// first-seen order.
func (c *Counter) Sorted() []domain.ChartDatum {
	out := c.Data()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// Top returns the n largest buckets.
func (c *Counter) Top(n int) []domain.ChartDatum {
	out := c.Sorted()
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CountBy groups items by a category field. Values are title-cased and blank
// values land in the Unknown bucket.
func CountBy[T any](items []T, key func(T) string) *Counter {
	c := NewCounter()
	for _, it := range items {
		c.Add(textnorm.DisplayOrUnknown(key(it)))
	}
	return c
}

// TallyTags counts list-valued fields: every tag on a row adds one to its
// bucket, so a row can contribute to several buckets. Blank tags are skipped.
func TallyTags[T any](items []T, tags func(T) []string) *Counter {
	c := NewCounter()
	for _, it := range items {
		for _, tag := range tags(it) {
			if strings.TrimSpace(tag) == "" {
				continue
			}
			c.Add(textnorm.TitleCase(tag))
		}
	}
	return c
}

// Percentage returns subset/total*100, or 0 when total is 0.
func Percentage(subset, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(subset) / float64(total) * 100
}
