package client

import "schoolhub/internal/domain/school"

// State is the client-side cache of school records.
type State struct {
	Items    []school.School
	Loading  bool
	Adding   bool
	Error    string
	AddError string
}

type ActionType string

const (
	FetchPending   ActionType = "schools/fetch/pending"
	FetchFulfilled ActionType = "schools/fetch/fulfilled"
	FetchRejected  ActionType = "schools/fetch/rejected"

	AddPending   ActionType = "schools/add/pending"
	AddFulfilled ActionType = "schools/add/fulfilled"
	AddRejected  ActionType = "schools/add/rejected"

	UpdatePending   ActionType = "schools/update/pending"
	UpdateFulfilled ActionType = "schools/update/fulfilled"
	UpdateRejected  ActionType = "schools/update/rejected"

	DeletePending   ActionType = "schools/delete/pending"
	DeleteFulfilled ActionType = "schools/delete/fulfilled"
	DeleteRejected  ActionType = "schools/delete/rejected"

	EventApplied ActionType = "schools/event"
)

// Action is one state transition. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType
	Items  []school.School
	School *school.School
	ID     string
	Event  *school.Event
	Err    string
}

// Reduce returns the next state. It never mutates s.Items in place.
func Reduce(s State, a Action) State {
	switch a.Type {
	case FetchPending:
		s.Loading = true
		s.Error = ""
	case FetchFulfilled:
		s.Loading = false
		s.Items = clone(a.Items)
	case FetchRejected:
		s.Loading = false
		s.Error = a.Err

	case AddPending:
		s.Adding = true
		s.AddError = ""
	case AddFulfilled:
		s.Adding = false
		if a.School != nil {
			s.Items = prepend(s.Items, *a.School)
		}
	case AddRejected:
		s.Adding = false
		s.AddError = a.Err

	case UpdatePending:
		s.Error = ""
	case UpdateFulfilled:
		if a.School != nil {
			s.Items = replace(s.Items, *a.School)
		}
	case UpdateRejected:
		s.Error = a.Err

	case DeletePending:
		s.Error = ""
	case DeleteFulfilled:
		s.Items = remove(s.Items, a.ID)
	case DeleteRejected:
		s.Error = a.Err

	case EventApplied:
		if a.Event != nil {
			s.Items = applyEvent(s.Items, *a.Event)
		}
	}
	return s
}

func applyEvent(items []school.School, e school.Event) []school.School {
	switch e.Type {
	case school.EventCreated:
		if e.School == nil || indexOf(items, e.School.ID) >= 0 {
			return items
		}
		return prepend(items, *e.School)
	case school.EventUpdated:
		if e.School == nil {
			return items
		}
		return replace(items, *e.School)
	case school.EventDeleted:
		return remove(items, e.ID)
	}
	return items
}

func indexOf(items []school.School, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []school.School) []school.School {
	out := make([]school.School, len(items))
	copy(out, items)
	return out
}

func prepend(items []school.School, s school.School) []school.School {
	out := make([]school.School, 0, len(items)+1)
	out = append(out, s)
	return append(out, items...)
}

// replace swaps the record with the same id; a miss leaves items unchanged.
func replace(items []school.School, s school.School) []school.School {
	i := indexOf(items, s.ID)
	if i < 0 {
		return items
	}
	out := clone(items)
	out[i] = s
	return out
}

func remove(items []school.School, id string) []school.School {
	out := make([]school.School, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
