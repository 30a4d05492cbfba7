package school

import "strings"

// Wire names of the editable fields, in form order.
const (
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldContact     = "contact"
	FieldEmail       = "email_id"
	FieldDescription = "description"
	FieldImage       = "image"
)

var FieldKeys = []string{FieldName, FieldAddress, FieldCity, FieldState, FieldContact, FieldEmail, FieldDescription}

// CreateInput carries the text fields of a create request.
type CreateInput struct {
	Name        string
	Address     string
	City        string
	State       string
	Contact     string
	Email       string
	Description string
}

// UpdateInput carries the text fields of an update request. A nil field was not sent and stays unchanged;
// a non-nil empty value clears an optional field.
type UpdateInput struct {
	Name        *string
	Address     *string
	City        *string
	State       *string
	Contact     *string
	Email       *string
	Description *string
}

func CreateInputFromFields(fields map[string]string) CreateInput {
	return CreateInput{
		Name:        fields[FieldName],
		Address:     fields[FieldAddress],
		City:        fields[FieldCity],
		State:       fields[FieldState],
		Contact:     fields[FieldContact],
		Email:       fields[FieldEmail],
		Description: fields[FieldDescription],
	}
}

func UpdateInputFromFields(fields map[string]string) UpdateInput {
	get := func(k string) *string {
		v, ok := fields[k]
		if !ok {
			return nil
		}
		return &v
	}
	return UpdateInput{
		Name:        get(FieldName),
		Address:     get(FieldAddress),
		City:        get(FieldCity),
		State:       get(FieldState),
		Contact:     get(FieldContact),
		Email:       get(FieldEmail),
		Description: get(FieldDescription),
	}
}

// Empty reports whether no field was provided.
func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Address == nil && in.City == nil && in.State == nil &&
		in.Contact == nil && in.Email == nil && in.Description == nil
}

func (in CreateInput) toSchool() *School {
	return &School{
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		Contact:     in.Contact,
		Email:       in.Email,
		Description: in.Description,
	}
}

func (in UpdateInput) apply(s *School) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Name, in.Name)
	set(&s.Address, in.Address)
	set(&s.City, in.City)
	set(&s.State, in.State)
	set(&s.Contact, in.Contact)
	set(&s.Email, in.Email)
	set(&s.Description, in.Description)
}

// Fields returns the provided fields keyed by wire name.
func (in UpdateInput) Fields() map[string]string {
	out := map[string]string{}
	add := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	add(FieldName, in.Name)
	add(FieldAddress, in.Address)
	add(FieldCity, in.City)
	add(FieldState, in.State)
	add(FieldContact, in.Contact)
	add(FieldEmail, in.Email)
	add(FieldDescription, in.Description)
	return out
}

// Fields returns all fields keyed by wire name.
func (in CreateInput) Fields() map[string]string {
	return map[string]string{
		FieldName:        in.Name,
		FieldAddress:     in.Address,
		FieldCity:        in.City,
		FieldState:       in.State,
		FieldContact:     in.Contact,
		FieldEmail:       in.Email,
		FieldDescription: in.Description,
	}
}

func normalize(s *School) {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Contact = strings.TrimSpace(s.Contact)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Description = strings.TrimSpace(s.Description)
}
