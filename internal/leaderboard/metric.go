package leaderboard

// Direction is the order in which a metric's values rank.
type Direction int

const (
	// Descending ranks the largest value first.
	Descending Direction = iota
	// Ascending ranks the smallest value first.
	Ascending
)

const (
	Survivalist      = "survivalist"
	Hibernator       = "hibernator"
	TomRemmer        = "tomRemmer"
	RollingInTheDeep = "rollingInTheDeep"
)

// Metric is one leaderboard variant: what to measure on a night and which way is better.
type Metric struct {
	Name      string
	Value     func(Record) int
	Direction Direction
}

// before reports whether value a ranks strictly ahead of value b.
func (m Metric) before(a, b int) bool {
	if m.Direction == Ascending {
		return a < b
	}
	return a > b
}

// DefaultMetrics are the four boards served by the API.
func DefaultMetrics() []Metric {
	return []Metric{
		{Name: Survivalist, Value: func(r Record) int { return r.TotalMinutes }, Direction: Ascending},
		{Name: Hibernator, Value: func(r Record) int { return r.TotalMinutes }, Direction: Descending},
		{Name: TomRemmer, Value: func(r Record) int { return r.RemMinutes }, Direction: Descending},
		{Name: RollingInTheDeep, Value: func(r Record) int { return r.DeepMinutes }, Direction: Descending},
	}
}
