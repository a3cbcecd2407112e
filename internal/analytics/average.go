package analytics

import (
	"math"

	"github.com/ignite/survey-tracker/internal/domain"
)

// Averager accumulates per-group sums and counts for a numeric field.
type Averager struct {
	order  []string
	sums   map[string]float64
	counts map[string]int
}

// NewAverager returns an empty averager.
func NewAverager() *Averager {
	return &Averager{sums: make(map[string]float64), counts: make(map[string]int)}
}

// Add records v for group.
func (a *Averager) Add(group string, v float64) {
	if _, ok := a.counts[group]; !ok {
		a.order = append(a.order, group)
	}
	a.sums[group] += v
	a.counts[group]++
}

// AddPtr records *v for group and ignores nil answers.
func (a *Averager) AddPtr(group string, v *int) {
	if v == nil {
		return
	}
	a.Add(group, float64(*v))
}

// Len returns the number of groups seen.
func (a *Averager) Len() int { return len(a.order) }

// Means returns every group's mean in first-seen order.
func (a *Averager) Means() []domain.AverageDatum {
	out := make([]domain.AverageDatum, 0, len(a.order))
	for _, g := range a.order {
		avg := a.sums[g] / float64(a.counts[g])
		out = append(out, domain.AverageDatum{Name: g, Avg: avg, Rounded: roundHalfUp(avg), Count: a.counts[g]})
	}
	return out
}

// Rounded returns the means as whole-unit chart data.
func (a *Averager) Rounded() []domain.ChartDatum {
	means := a.Means()
	out := make([]domain.ChartDatum, 0, len(means))
	for _, m := range means {
		out = append(out, domain.ChartDatum{Name: m.Name, Value: m.Rounded})
	}
	return out
}

// roundHalfUp rounds .5 toward positive infinity, so an average income
// bucket of -0.5 shows as 0 rather than -1.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
