package client

import (
	"context"
	"sync"

	"schoolhub/internal/domain/school"
)

const (
	msgFetchFailed  = "Failed to fetch schools"
	msgAddFailed    = "Failed to add school"
	msgUpdateFailed = "Failed to update school"
	msgDeleteFailed = "Failed to delete school"
)

// API is the subset of Client the store needs.
type API interface {
	ListSchools(ctx context.Context) ([]school.School, error)
	CreateSchool(ctx context.Context, in school.CreateInput, img *Image) (*school.School, error)
	UpdateSchool(ctx context.Context, id string, in school.UpdateInput, img *Image) (*school.School, error)
	DeleteSchool(ctx context.Context, id string) (string, error)
}

// Store holds the shared school cache. Results are reduced in arrival order.
type Store struct {
	api API

	// deliver serializes reduce-and-notify so subscribers see states in reduction order.
	deliver sync.Mutex

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

func NewStore(api API) *Store {
	return &Store{
		api:   api,
		state: State{Items: []school.School{}},
		subs:  make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = clone(st.Items)
	return st
}

// Subscribe registers fn to be called after every reduction. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch reduces a into the state and notifies subscribers.
// Subscribers may read State but must not call Dispatch.
func (s *Store) Dispatch(a Action) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		snapshot := st
		snapshot.Items = clone(st.Items)
		fn(snapshot)
	}
}

func (s *Store) FetchSchools(ctx context.Context) error {
	s.Dispatch(Action{Type: FetchPending})
	items, err := s.api.ListSchools(ctx)
	if err != nil {
		s.Dispatch(Action{Type: FetchRejected, Err: MessageOf(err, msgFetchFailed)})
		return err
	}
	s.Dispatch(Action{Type: FetchFulfilled, Items: items})
	return nil
}

func (s *Store) AddSchool(ctx context.Context, in school.CreateInput, img *Image) (*school.School, error) {
	s.Dispatch(Action{Type: AddPending})
	created, err := s.api.CreateSchool(ctx, in, img)
	if err != nil {
		s.Dispatch(Action{Type: AddRejected, Err: MessageOf(err, msgAddFailed)})
		return nil, err
	}
	s.Dispatch(Action{Type: AddFulfilled, School: created})
	return created, nil
}

func (s *Store) UpdateSchool(ctx context.Context, id string, in school.UpdateInput, img *Image) (*school.School, error) {
	s.Dispatch(Action{Type: UpdatePending, ID: id})
	updated, err := s.api.UpdateSchool(ctx, id, in, img)
	if err != nil {
		s.Dispatch(Action{Type: UpdateRejected, ID: id, Err: MessageOf(err, msgUpdateFailed)})
		return nil, err
	}
	s.Dispatch(Action{Type: UpdateFulfilled, School: updated})
	return updated, nil
}

func (s *Store) DeleteSchool(ctx context.Context, id string) error {
	s.Dispatch(Action{Type: DeletePending, ID: id})
	deleted, err := s.api.DeleteSchool(ctx, id)
	if err != nil {
		s.Dispatch(Action{Type: DeleteRejected, ID: id, Err: MessageOf(err, msgDeleteFailed)})
		return err
	}
	if deleted == "" {
		deleted = id
	}
	s.Dispatch(Action{Type: DeleteFulfilled, ID: deleted})
	return nil
}

// ApplyEvent folds a change-feed event into the cache.
func (s *Store) ApplyEvent(e school.Event) {
	s.Dispatch(Action{Type: EventApplied, Event: &e})
}

// Watcher is satisfied by *Client.
type Watcher interface {
	Watch(ctx context.Context, fn func(school.Event)) error
}

// Follow applies events from w until ctx is done.
func (s *Store) Follow(ctx context.Context, w Watcher) error {
	return w.Watch(ctx, s.ApplyEvent)
}
