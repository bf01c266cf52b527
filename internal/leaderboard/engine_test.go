package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	edges    []Edge
	clans    map[uint]uint
	members  map[uint][]uint
	profiles []Profile
	records  []Record

	err       error
	recordErr error
	userErr   error

	memberCalls int
	recordCalls int
	userCalls   int
	lastWindow  Window
}

func (f *fakeStore) FindEdges(ctx context.Context, userID uint) ([]Edge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.edges, nil
}

func (f *fakeStore) FindUserClan(ctx context.Context, userID uint) (*uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.clans[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (f *fakeStore) FindClanMembers(ctx context.Context, clanID uint) ([]uint, error) {
	f.memberCalls++
	return f.members[clanID], nil
}

func (f *fakeStore) FindUsers(ctx context.Context, ids []uint) ([]Profile, error) {
	f.userCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Profile
	for _, p := range f.profiles {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FindRecords(ctx context.Context, userIDs []uint, w Window) ([]Record, error) {
	f.recordCalls++
	f.lastWindow = w
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	want := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	var out []Record
	for _, r := range f.records {
		if want[r.UserID] && w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Wednesday 15 May 2024; the window is Mon 13 May .. Mon 20 May.
var wednesday = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(store Store) *Engine {
	return NewEngine(store, WithClock(func() time.Time { return wednesday }))
}

func TestCompute_TwoUserScenario(t *testing.T) {
	day := date(2024, 5, 14)
	store := &fakeStore{
		edges: []Edge{{A: 1, B: 2}},
		profiles: []Profile{
			{ID: 1, DisplayName: strPtr("A")},
			{ID: 2, DisplayName: strPtr("B")},
		},
		records: []Record{
			{UserID: 1, Date: day, TotalMinutes: 300, RemMinutes: 50, DeepMinutes: 20},
			{UserID: 2, Date: day, TotalMinutes: 500, RemMinutes: 10, DeepMinutes: 90},
		},
	}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)
	require.Len(t, res.Boards, 4)

	surv := res.Boards[Survivalist]
	require.Len(t, surv, 2)
	assert.Equal(t, []uint{1, 2}, userIDs(surv))
	assert.Equal(t, 3, surv[0].Points)
	assert.Equal(t, 300, surv[0].Value)
	assert.Equal(t, 2, surv[1].Points)
	assert.Equal(t, 500, surv[1].Value)

	hib := res.Boards[Hibernator]
	assert.Equal(t, []uint{2, 1}, userIDs(hib))
	assert.Equal(t, 3, hib[0].Points)

	assert.Equal(t, []uint{1, 2}, userIDs(res.Boards[TomRemmer]))
	assert.Equal(t, []uint{2, 1}, userIDs(res.Boards[RollingInTheDeep]))
	assert.Equal(t, 90, res.Boards[RollingInTheDeep][0].Value)

	assert.Equal(t, date(2024, 5, 13), res.Window.Start)
	assert.Equal(t, date(2024, 5, 20), res.Window.End)
	assert.Equal(t, res.Window, store.lastWindow)
}

func TestCompute_AntiCheatDoesNotCountNight(t *testing.T) {
	store := &fakeStore{
		edges: []Edge{{A: 2, B: 1}},
		records: []Record{
			{UserID: 1, Date: date(2024, 5, 13), TotalMinutes: 44},
			{UserID: 2, Date: date(2024, 5, 13), TotalMinutes: 45},
		},
	}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)

	for name, rows := range res.Boards {
		require.Len(t, rows, 1, name)
		assert.Equal(t, uint(2), rows[0].UserID, name)
		assert.Equal(t, 1, rows[0].NightsLogged, name)
	}
}

func TestCompute_FriendlessRequester(t *testing.T) {
	store := &fakeStore{records: []Record{
		{UserID: 1, Date: date(2024, 5, 14), TotalMinutes: 420},
		{UserID: 99, Date: date(2024, 5, 14), TotalMinutes: 420},
	}}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)
	for _, rows := range res.Boards {
		assert.Equal(t, []uint{1}, userIDs(rows))
	}

	quiet := &fakeStore{}
	res, err = newTestEngine(quiet).Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)
	for _, rows := range res.Boards {
		assert.Empty(t, rows)
	}
}

func TestCompute_NoClanSkipsRecordFetch(t *testing.T) {
	store := &fakeStore{records: []Record{{UserID: 1, Date: date(2024, 5, 14), TotalMinutes: 420}}}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeClan, 0)
	require.NoError(t, err)

	assert.Zero(t, store.recordCalls)
	assert.Zero(t, store.userCalls)
	require.Len(t, res.Boards, 4)
	for _, rows := range res.Boards {
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}

	body, err := json.Marshal(res.Boards)
	require.NoError(t, err)
	assert.JSONEq(t, `{"survivalist":[],"hibernator":[],"tomRemmer":[],"rollingInTheDeep":[]}`, string(body))
}

func TestCompute_ClanMembersOnly(t *testing.T) {
	store := &fakeStore{
		clans:   map[uint]uint{1: 5, 2: 5},
		members: map[uint][]uint{5: {1, 2}},
		edges:   []Edge{{A: 1, B: 3}},
		records: []Record{
			{UserID: 1, Date: date(2024, 5, 13), TotalMinutes: 400},
			{UserID: 2, Date: date(2024, 5, 13), TotalMinutes: 410},
			{UserID: 3, Date: date(2024, 5, 13), TotalMinutes: 420},
		},
	}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeClan, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 1}, userIDs(res.Boards[Hibernator]))
}

func TestCompute_WeekOffsetSelectsPastWeek(t *testing.T) {
	store := &fakeStore{records: []Record{
		{UserID: 1, Date: date(2024, 5, 7), TotalMinutes: 400},
		{UserID: 1, Date: date(2024, 5, 14), TotalMinutes: 400},
	}}

	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeFriends, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 5, 6), res.Window.Start)
	require.Len(t, res.Boards[Hibernator], 1)
	assert.Equal(t, 1, res.Boards[Hibernator][0].NightsLogged)
}

func TestCompute_Idempotent(t *testing.T) {
	var records []Record
	for d := 13; d <= 19; d++ {
		for u := uint(1); u <= 6; u++ {
			records = append(records, Record{
				UserID:       u,
				Date:         date(2024, 5, d),
				TotalMinutes: 300 + int(u*u)*d%120,
				RemMinutes:   60 + int(u)%3*10,
				DeepMinutes:  40 + d%2*10,
			})
		}
	}
	store := &fakeStore{
		edges:   []Edge{{A: 1, B: 2}, {A: 3, B: 1}, {A: 1, B: 4}, {A: 5, B: 1}, {A: 1, B: 6}},
		records: records,
	}
	engine := newTestEngine(store)

	first, err := engine.Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)
	second, err := engine.Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompute_BoardsAreSorted(t *testing.T) {
	var records []Record
	for d := 13; d <= 19; d++ {
		for u := uint(1); u <= 5; u++ {
			records = append(records, Record{
				UserID:       u,
				Date:         date(2024, 5, d),
				TotalMinutes: 200 + (int(u)*37+d*11)%300,
				RemMinutes:   (int(u)*13 + d) % 90,
				DeepMinutes:  (int(u)*7 + d*3) % 80,
			})
		}
	}
	store := &fakeStore{
		edges:   []Edge{{A: 1, B: 2}, {A: 1, B: 3}, {A: 4, B: 1}, {A: 5, B: 1}},
		records: records,
	}

	res, err := NewEngine(store, WithClock(func() time.Time { return date(2024, 5, 20).Add(-time.Second) })).
		Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)

	for _, m := range DefaultMetrics() {
		rows := res.Boards[m.Name]
		require.Len(t, rows, 5, m.Name)
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1], rows[i]
			require.GreaterOrEqual(t, prev.Points, cur.Points, m.Name)
			if prev.Points == cur.Points {
				if m.Direction == Ascending {
					require.LessOrEqual(t, prev.Value, cur.Value, m.Name)
				} else {
					require.GreaterOrEqual(t, prev.Value, cur.Value, m.Name)
				}
			}
		}
	}
}

func TestCompute_StoreFailureAborts(t *testing.T) {
	boom := errors.New("db down")

	_, err := newTestEngine(&fakeStore{recordErr: boom}).Compute(context.Background(), 1, ScopeFriends, 0)
	assert.ErrorIs(t, err, boom)

	store := &fakeStore{userErr: boom, records: []Record{{UserID: 1, Date: date(2024, 5, 14), TotalMinutes: 400}}}
	res, err := newTestEngine(store).Compute(context.Background(), 1, ScopeFriends, 0)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
}

func TestCompute_ToDateWindow(t *testing.T) {
	store := &fakeStore{}
	engine := NewEngine(store,
		WithClock(func() time.Time { return wednesday }),
		WithWindowShape(WindowToDate),
	)

	res, err := engine.Compute(context.Background(), 1, ScopeFriends, 0)
	require.NoError(t, err)
	assert.Equal(t, wednesday, res.Window.End)
}
