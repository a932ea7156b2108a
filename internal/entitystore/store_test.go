package entitystore

import (
	"context"
	"sync"
	"testing"

	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string
	Status string
}

func itemID(i item) string { return i.ID }

// gatedSource blocks each List call until its release channel is closed.
type gatedSource struct {
	mu      sync.Mutex
	items   map[string]item
	gates   map[int]chan struct{}
	started chan int
	panicOn string
}

func newGatedSource(items ...item) *gatedSource {
	s := &gatedSource{items: map[string]item{}, gates: map[int]chan struct{}{}, started: make(chan int, 8)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *gatedSource) gate(page int) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.gates[page]
	if !ok {
		ch = make(chan struct{})
		s.gates[page] = ch
	}
	return ch
}

func (s *gatedSource) List(ctx context.Context, p query.Params) (models.Page[item], error) {
	s.started <- p.Page
	select {
	case <-s.gate(p.Page):
	case <-ctx.Done():
		return models.Page[item]{}, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []item{}
	for _, id := range []string{"a", "b", "c"} {
		if it, ok := s.items[id]; ok {
			items = append(items, it)
		}
	}
	start := (p.Page - 1) * p.Limit
	if start > len(items) {
		start = len(items)
	}
	end := min(start+p.Limit, len(items))
	return models.Page[item]{
		Items:      items[start:end],
		Pagination: models.Pagination{Page: p.Page, Limit: p.Limit, Total: len(items), TotalPages: models.TotalPages(len(items), p.Limit)},
	}, nil
}

func (s *gatedSource) Get(ctx context.Context, id string) (item, error) {
	if id == s.panicOn {
		panic("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return item{}, models.NotFoundError("item", id)
	}
	return it, nil
}

func (s *gatedSource) approve(ctx context.Context, id string) (item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return item{}, models.NotFoundError("item", id)
	}
	if it.Status != "pending" {
		return item{}, &models.TransitionError{Entity: "item", ID: id, From: it.Status, To: "approved"}
	}
	it.Status = "approved"
	s.items[id] = it
	return it, nil
}

func release(s *gatedSource, pages ...int) {
	for _, p := range pages {
		close(s.gate(p))
	}
}

func TestFetchPage_Succeeds(t *testing.T) {
	src := newGatedSource(item{"a", "pending"}, item{"b", "pending"}, item{"c", "done"})
	release(src, 1)
	store := New[item](src, itemID)

	res := store.FetchPage(context.Background(), query.Params{Page: 1, Limit: 2})
	require.True(t, res.OK())

	st := store.State()
	assert.Equal(t, StatusSucceeded, st.ListStatus)
	assert.Len(t, st.Items, 2)
	assert.Equal(t, 3, st.Pagination.Total)
	assert.Equal(t, 2, st.Pagination.TotalPages)
	assert.Empty(t, st.Error)
}

func TestFetchPage_DiscardsSupersededResponse(t *testing.T) {
	src := newGatedSource(item{"a", "pending"}, item{"b", "pending"}, item{"c", "done"})
	store := New[item](src, itemID)
	ctx := context.Background()

	first := make(chan Result[models.Page[item]], 1)
	go func() { first <- store.FetchPage(ctx, query.Params{Page: 1, Limit: 2}) }()
	require.Equal(t, 1, <-src.started)

	second := make(chan Result[models.Page[item]], 1)
	go func() { second <- store.FetchPage(ctx, query.Params{Page: 2, Limit: 2}) }()
	require.Equal(t, 2, <-src.started)

	release(src, 2)
	latest := <-second
	require.True(t, latest.OK())

	release(src, 1)
	old := <-first
	assert.True(t, old.Stale)
	assert.NoError(t, old.Err)

	st := store.State()
	assert.Equal(t, 2, st.Pagination.Page)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "c", st.Items[0].ID)
}

func TestFetchPage_CanceledContextIsDiscarded(t *testing.T) {
	src := newGatedSource(item{"a", "pending"})
	store := New[item](src, itemID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result[models.Page[item]], 1)
	go func() { done <- store.FetchPage(ctx, query.Params{Page: 1, Limit: 2}) }()
	<-src.started
	cancel()

	res := <-done
	assert.True(t, res.Stale)
	st := store.State()
	assert.Equal(t, StatusIdle, st.ListStatus)
	assert.Empty(t, st.Items)
	assert.Empty(t, st.Error)
}

func TestFetchByID(t *testing.T) {
	src := newGatedSource(item{"a", "pending"})
	src.panicOn = "explode"
	store := New[item](src, itemID)
	ctx := context.Background()

	res := store.FetchByID(ctx, "a")
	require.True(t, res.OK())
	st := store.State()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "a", st.Selected.ID)
	assert.Equal(t, StatusSucceeded, st.DetailStatus)

	res = store.FetchByID(ctx, "zzz")
	assert.Equal(t, models.KindNotFound, res.Kind)
	st = store.State()
	assert.Nil(t, st.Selected)
	assert.Equal(t, StatusFailed, st.DetailStatus)
	assert.Equal(t, models.KindNotFound, st.ErrorKind)

	res = store.FetchByID(ctx, "explode")
	assert.Error(t, res.Err)
	assert.Equal(t, StatusFailed, store.State().DetailStatus)
}

func TestMutate_ReplacesItemsAndSelected(t *testing.T) {
	src := newGatedSource(item{"a", "pending"}, item{"b", "pending"})
	release(src, 1)
	store := New[item](src, itemID)
	ctx := context.Background()

	require.True(t, store.FetchPage(ctx, query.Params{Page: 1, Limit: 10}).OK())
	require.True(t, store.FetchByID(ctx, "a").OK())

	res := store.Mutate(ctx, "a", src.approve)
	require.True(t, res.OK())
	assert.Equal(t, "approved", res.Value.Status)

	st := store.State()
	assert.Equal(t, StatusSucceeded, st.ActionStatus)
	assert.Equal(t, "approved", st.Items[0].Status)
	assert.Equal(t, "pending", st.Items[1].Status)
	assert.Equal(t, "approved", st.Selected.Status)
}

func TestMutate_FailureLeavesStateUnchanged(t *testing.T) {
	src := newGatedSource(item{"a", "pending"})
	release(src, 1)
	store := New[item](src, itemID)
	ctx := context.Background()

	require.True(t, store.FetchPage(ctx, query.Params{Page: 1, Limit: 10}).OK())
	require.True(t, store.Mutate(ctx, "a", src.approve).OK())
	before := store.State().Items

	res := store.Mutate(ctx, "a", src.approve)
	assert.ErrorIs(t, res.Err, models.ErrInvalidTransition)
	assert.Equal(t, models.KindInvalidTransition, res.Kind)

	st := store.State()
	assert.Equal(t, StatusFailed, st.ActionStatus)
	assert.NotEmpty(t, st.Error)
	assert.Equal(t, before, st.Items)
}

func TestSubscribeAndReset(t *testing.T) {
	src := newGatedSource(item{"a", "pending"})
	release(src, 1)
	store := New[item](src, itemID)

	var mu sync.Mutex
	var seen []Status
	unsubscribe := store.Subscribe(func(st State[item]) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st.ListStatus)
	})

	store.FetchPage(context.Background(), query.Params{Page: 1, Limit: 10})
	mu.Lock()
	assert.Equal(t, []Status{StatusLoading, StatusSucceeded}, seen)
	mu.Unlock()

	store.Reset()
	st := store.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, StatusIdle, st.ListStatus)

	unsubscribe()
	store.FetchPage(context.Background(), query.Params{Page: 1, Limit: 10})
	mu.Lock()
	assert.Len(t, seen, 3)
	mu.Unlock()
}

func TestMutate_AfterResetIsStale(t *testing.T) {
	src := newGatedSource(item{"a", "pending"})
	store := New[item](src, itemID)
	ctx := context.Background()

	res := store.Mutate(ctx, "a", func(ctx context.Context, id string) (item, error) {
		store.Reset()
		require.True(t, store.FetchByID(ctx, id).OK())
		return src.approve(ctx, id)
	})
	require.NoError(t, res.Err)
	assert.True(t, res.Stale)
	assert.False(t, res.OK())

	st := store.State()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "pending", st.Selected.Status)
	assert.Equal(t, StatusIdle, st.ActionStatus)
}
