package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolhub/internal/domain/school"
)

func ids(items []school.School) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestReduceFetch(t *testing.T) {
	s := Reduce(State{Error: "old"}, Action{Type: FetchPending})
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)

	s = Reduce(s, Action{Type: FetchFulfilled, Items: []school.School{{ID: "b"}, {ID: "a"}}})
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"b", "a"}, ids(s.Items))

	s = Reduce(s, Action{Type: FetchPending})
	s = Reduce(s, Action{Type: FetchRejected, Err: "Network Error"})
	assert.False(t, s.Loading)
	assert.Equal(t, "Network Error", s.Error)
	assert.Equal(t, []string{"b", "a"}, ids(s.Items), "a failed fetch keeps the cached items")
}

func TestReduceAddPrepends(t *testing.T) {
	s := State{Items: []school.School{{ID: "a"}}, AddError: "old"}

	s = Reduce(s, Action{Type: AddPending})
	assert.True(t, s.Adding)
	assert.Empty(t, s.AddError)

	s = Reduce(s, Action{Type: AddFulfilled, School: &school.School{ID: "b"}})
	assert.False(t, s.Adding)
	assert.Equal(t, []string{"b", "a"}, ids(s.Items))

	s = Reduce(s, Action{Type: AddPending})
	s = Reduce(s, Action{Type: AddRejected, Err: "Failed to add school"})
	assert.False(t, s.Adding)
	assert.Equal(t, "Failed to add school", s.AddError)
	assert.Len(t, s.Items, 2)
}

func TestReduceUpdate(t *testing.T) {
	s := State{Items: []school.School{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, Error: "old"}

	s = Reduce(s, Action{Type: UpdatePending})
	assert.Empty(t, s.Error)
	assert.False(t, s.Adding, "updates do not use the add form flag")

	s = Reduce(s, Action{Type: UpdateFulfilled, School: &school.School{ID: "b", Name: "B2"}})
	assert.Equal(t, "B2", s.Items[1].Name)
	assert.Equal(t, []string{"a", "b"}, ids(s.Items))

	s = Reduce(s, Action{Type: UpdateFulfilled, School: &school.School{ID: "zzz", Name: "Ghost"}})
	assert.Equal(t, []string{"a", "b"}, ids(s.Items), "update never inserts")

	s = Reduce(s, Action{Type: UpdateRejected, Err: "School not found"})
	assert.Equal(t, "School not found", s.Error)
	assert.Empty(t, s.AddError)
}

func TestReduceDelete(t *testing.T) {
	s := State{Items: []school.School{{ID: "a"}, {ID: "b"}}, Error: "old"}

	s = Reduce(s, Action{Type: DeletePending, ID: "a"})
	assert.Empty(t, s.Error)
	assert.False(t, s.Loading)

	s = Reduce(s, Action{Type: DeleteFulfilled, ID: "a"})
	assert.Equal(t, []string{"b"}, ids(s.Items))

	s = Reduce(s, Action{Type: DeleteFulfilled, ID: "missing"})
	assert.Equal(t, []string{"b"}, ids(s.Items))

	s = Reduce(s, Action{Type: DeleteRejected, Err: "Failed to delete school"})
	assert.Equal(t, "Failed to delete school", s.Error)
}

func TestReduceDoesNotAliasInput(t *testing.T) {
	items := []school.School{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	before := State{Items: items}

	after := Reduce(before, Action{Type: UpdateFulfilled, School: &school.School{ID: "a", Name: "changed"}})

	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "changed", after.Items[0].Name)
}

func TestReduceEvents(t *testing.T) {
	s := State{Items: []school.School{{ID: "a", Name: "A"}}}

	created := school.Event{Type: school.EventCreated, ID: "b", School: &school.School{ID: "b"}}
	s = Reduce(s, Action{Type: EventApplied, Event: &created})
	assert.Equal(t, []string{"b", "a"}, ids(s.Items))

	s = Reduce(s, Action{Type: EventApplied, Event: &created})
	assert.Equal(t, []string{"b", "a"}, ids(s.Items), "known ids are not duplicated")

	updated := school.Event{Type: school.EventUpdated, ID: "a", School: &school.School{ID: "a", Name: "A2"}}
	s = Reduce(s, Action{Type: EventApplied, Event: &updated})
	assert.Equal(t, "A2", s.Items[1].Name)

	deleted := school.Event{Type: school.EventDeleted, ID: "b"}
	s = Reduce(s, Action{Type: EventApplied, Event: &deleted})
	assert.Equal(t, []string{"a"}, ids(s.Items))
}
