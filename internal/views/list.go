package views

import (
	"context"
	"errors"
	"strings"

	"schoolhub/internal/client"
	"schoolhub/internal/domain/school"
)

// PlaceholderImage is shown for records without an image.
const PlaceholderImage = "https://via.placeholder.com/600x400?text=No+Image"

var ErrUnknownSchool = errors.New("school is not in the list")

// Store is the cache the list reads from. Satisfied by *client.Store.
type Store interface {
	Writer
	State() client.State
	FetchSchools(ctx context.Context) error
	DeleteSchool(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Card is one rendered list entry.
type Card struct {
	ID          string
	Title       string
	Address     string
	City        string
	Description string
	ImageURL    string
	ImageAlt    string
}

// ListView shows the cached schools with a local name/city filter.
type ListView struct {
	store    Store
	imageURL func(name string) string
	confirm  Confirmer
	query    string
}

// NewListView builds the list. imageURL maps a stored filename to its public URL.
func NewListView(store Store, imageURL func(name string) string, confirm Confirmer) *ListView {
	return &ListView{store: store, imageURL: imageURL, confirm: confirm}
}

// Mount loads the list from the API.
func (v *ListView) Mount(ctx context.Context) error {
	return v.store.FetchSchools(ctx)
}

func (v *ListView) SetQuery(q string) { v.query = q }

func (v *ListView) Query() string { return v.query }

// Visible returns the cached records matching the query, in cache order.
func (v *ListView) Visible() []school.School {
	items := v.store.State().Items
	q := strings.ToLower(strings.TrimSpace(v.query))
	if q == "" {
		return items
	}
	out := make([]school.School, 0, len(items))
	for _, s := range items {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.City), q) {
			out = append(out, s)
		}
	}
	return out
}

func (v *ListView) Cards() []Card {
	visible := v.Visible()
	cards := make([]Card, 0, len(visible))
	for _, s := range visible {
		img := PlaceholderImage
		if name := s.ImageName(); name != "" {
			img = v.imageURL(name)
		}
		cards = append(cards, Card{
			ID:          s.ID,
			Title:       s.Name,
			Address:     orDash(s.Address),
			City:        orDash(s.City),
			Description: s.Description,
			ImageURL:    img,
			ImageAlt:    s.Name,
		})
	}
	return cards
}

// Edit opens a pre-filled form for a cached record.
func (v *ListView) Edit(id string) (*FormView, error) {
	s, ok := v.find(id)
	if !ok {
		return nil, ErrUnknownSchool
	}
	return NewEditForm(v.store, s), nil
}

// Delete asks for confirmation and dispatches the deletion only on yes.
// Reports whether a deletion was dispatched.
func (v *ListView) Delete(ctx context.Context, id string) (bool, error) {
	name := id
	if s, ok := v.find(id); ok {
		name = s.Name
	}
	if !v.confirm.Confirm("Delete " + name + "?") {
		return false, nil
	}
	return true, v.store.DeleteSchool(ctx, id)
}

func (v *ListView) find(id string) (school.School, bool) {
	for _, s := range v.store.State().Items {
		if s.ID == id {
			return s, true
		}
	}
	return school.School{}, false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
