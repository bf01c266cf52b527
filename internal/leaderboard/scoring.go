package leaderboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// rankPoints holds the points for the first places of a day; every later place gets zero.
var rankPoints = [...]int{3, 2, 1}

func pointsForRank(rank int) int {
	if rank < len(rankPoints) {
		return rankPoints[rank]
	}
	return 0
}

// DayBucket holds every kept record of one calendar day, one per user, sorted by user id.
type DayBucket struct {
	Date    time.Time
	Records []Record
}

// BucketByDay groups records by Date. Buckets are ordered by date. If a user somehow has two
// records on the same day, the one appearing last wins, matching upsert semantics.
func BucketByDay(records []Record) []DayBucket {
	byDay := make(map[time.Time]map[uint]Record)
	for _, r := range records {
		day := midnightUTC(r.Date)
		if byDay[day] == nil {
			byDay[day] = make(map[uint]Record)
		}
		r.Date = day
		byDay[day][r.UserID] = r
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, users := range byDay {
		b := DayBucket{Date: day, Records: make([]Record, 0, len(users))}
		for _, r := range users {
			b.Records = append(b.Records, r)
		}
		sort.Slice(b.Records, func(i, j int) bool { return b.Records[i].UserID < b.Records[j].UserID })
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })
	return buckets
}

// NightsLogged counts, per user, the number of days with a kept record.
func NightsLogged(buckets []DayBucket) map[uint]int {
	nights := make(map[uint]int)
	for _, b := range buckets {
		for _, r := range b.Records {
			nights[r.UserID]++
		}
	}
	return nights
}

// Standing is a user's running totals on one board.
type Standing struct {
	Points       int
	Value        int
	NightsLogged int
}

// Accumulator owns the standings of one metric for one computation.
type Accumulator struct {
	Metric    Metric
	Standings map[uint]*Standing
}

func newAccumulator(m Metric) *Accumulator {
	return &Accumulator{Metric: m, Standings: make(map[uint]*Standing)}
}

func (a *Accumulator) standing(userID uint, nights map[uint]int) *Standing {
	s, ok := a.Standings[userID]
	if !ok {
		s = &Standing{NightsLogged: nights[userID]}
		a.Standings[userID] = s
	}
	return s
}

// RankDay orders one day's records for m. Equal values fall back to user id ascending so
// point assignment never depends on input order.
func RankDay(m Metric, records []Record) []Record {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := m.Value(ranked[i]), m.Value(ranked[j])
		if vi != vj {
			return m.before(vi, vj)
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

// ScoreMetric ranks every day independently and accumulates points and raw values.
func ScoreMetric(m Metric, buckets []DayBucket, nights map[uint]int) *Accumulator {
	acc := newAccumulator(m)
	for _, b := range buckets {
		for rank, r := range RankDay(m, b.Records) {
			s := acc.standing(r.UserID, nights)
			s.Points += pointsForRank(rank)
			s.Value += m.Value(r)
		}
	}
	return acc
}

// Score runs ScoreMetric for each metric concurrently. The result is in metrics order.
func Score(ctx context.Context, buckets []DayBucket, metrics []Metric) ([]*Accumulator, error) {
	nights := NightsLogged(buckets)
	accs := make([]*Accumulator, len(metrics))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range metrics {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			accs[i] = ScoreMetric(m, buckets, nights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return accs, nil
}
