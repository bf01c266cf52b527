package leaderboard

import "sort"

// Row is one line of a board.
type Row struct {
	UserID       uint    `json:"user_id"`
	DisplayName  *string `json:"display_name"`
	Email        *string `json:"email"`
	AvatarURL    *string `json:"avatar_url"`
	Points       int     `json:"points"`
	Value        int     `json:"value"`
	NightsLogged int     `json:"nights_logged"`
}

// Boards maps a metric name to its ordered rows.
type Boards map[string][]Row

// EmptyBoards returns one empty, non-nil board per metric.
func EmptyBoards(metrics []Metric) Boards {
	boards := make(Boards, len(metrics))
	for _, m := range metrics {
		boards[m.Name] = []Row{}
	}
	return boards
}

// Assemble turns accumulated standings into sorted boards. Users without a logged night
// are left out. Rows are ordered by points, then by value sum in the metric's direction,
// then by user id.
func Assemble(accs []*Accumulator, profiles []Profile) Boards {
	byID := make(map[uint]Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	boards := make(Boards, len(accs))
	for _, acc := range accs {
		rows := make([]Row, 0, len(acc.Standings))
		for userID, s := range acc.Standings {
			if s.NightsLogged < 1 {
				continue
			}
			p := byID[userID]
			rows = append(rows, Row{
				UserID:       userID,
				DisplayName:  p.DisplayName,
				Email:        p.Email,
				AvatarURL:    p.AvatarURL,
				Points:       s.Points,
				Value:        s.Value,
				NightsLogged: s.NightsLogged,
			})
		}
		sortRows(acc.Metric, rows)
		boards[acc.Metric.Name] = rows
	}
	return boards
}

func sortRows(m Metric, rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Value != b.Value {
			return m.before(a.Value, b.Value)
		}
		return a.UserID < b.UserID
	})
}
