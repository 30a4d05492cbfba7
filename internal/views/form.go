package views

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"schoolhub/internal/client"
	"schoolhub/internal/domain/school"
	"schoolhub/internal/filestore"
	"schoolhub/internal/pkg/validator"
)

var (
	ErrImageTooLarge = errors.New("image must be 2 MiB or smaller")
	ErrNotImage      = errors.New("only jpeg, png and webp images are allowed")
	ErrUnknownField  = errors.New("unknown field")
)

// Writer dispatches form submissions. Satisfied by *client.Store.
type Writer interface {
	AddSchool(ctx context.Context, in school.CreateInput, img *client.Image) (*school.School, error)
	UpdateSchool(ctx context.Context, id string, in school.UpdateInput, img *client.Image) (*school.School, error)
}

// FormValues are the editable text fields.
type FormValues struct {
	Name        string `form:"name" validate:"required"`
	Address     string `form:"address"`
	City        string `form:"city"`
	State       string `form:"state"`
	Contact     string `form:"contact" validate:"omitempty,contact"`
	Email       string `form:"email_id" validate:"required,email"`
	Description string `form:"description"`
}

func valuesOf(s school.School) FormValues {
	return FormValues{
		Name:        s.Name,
		Address:     s.Address,
		City:        s.City,
		State:       s.State,
		Contact:     s.Contact,
		Email:       s.Email,
		Description: s.Description,
	}
}

func (v *FormValues) field(key string) (*string, bool) {
	switch key {
	case school.FieldName:
		return &v.Name, true
	case school.FieldAddress:
		return &v.Address, true
	case school.FieldCity:
		return &v.City, true
	case school.FieldState:
		return &v.State, true
	case school.FieldContact:
		return &v.Contact, true
	case school.FieldEmail:
		return &v.Email, true
	case school.FieldDescription:
		return &v.Description, true
	}
	return nil, false
}

// Preview is the local rendition of a selected image. Nothing is uploaded until Submit.
type Preview struct {
	Name        string
	Size        int64
	ContentType string
	DataURI     string
}

var labels = map[string]string{
	school.FieldName:    "School name",
	school.FieldContact: "Contact",
	school.FieldEmail:   "Email",
}

// FormView backs both the add form and the edit dialog.
type FormView struct {
	writer   Writer
	editID   string
	original FormValues

	Values      FormValues
	Errors      map[string]string
	Preview     *Preview
	SubmitError string

	image *client.Image
}

func NewAddForm(w Writer) *FormView {
	return &FormView{writer: w}
}

// NewEditForm pre-fills the form from s.
func NewEditForm(w Writer, s school.School) *FormView {
	values := valuesOf(s)
	return &FormView{writer: w, editID: s.ID, original: values, Values: values}
}

func (f *FormView) Editing() bool { return f.editID != "" }

func (f *FormView) EditID() string { return f.editID }

// Set assigns a field by its wire name.
func (f *FormView) Set(key, value string) error {
	p, ok := f.Values.field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	*p = value
	return nil
}

// Validate runs the client-side checks. The server remains authoritative.
func (f *FormView) Validate() map[string]string {
	values := f.Values
	values.Name = strings.TrimSpace(values.Name)
	values.Contact = strings.TrimSpace(values.Contact)
	values.Email = strings.TrimSpace(values.Email)

	errs := validator.Validate(&values)
	for k, msg := range errs {
		errs[k] = labels[k] + " " + msg
	}
	f.Errors = errs
	return errs
}

// SelectImage reads path and builds a preview. A rejected file leaves the previous selection in place.
func (f *FormView) SelectImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > filestore.MaxFileSize {
		return ErrImageTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	mtype := mimetype.Detect(data)
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	if !filestore.AllowedMimeTypes[contentType] {
		return ErrNotImage
	}

	name := filepath.Base(path)
	f.image = &client.Image{Filename: name, ContentType: contentType, Data: data}
	f.Preview = &Preview{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		DataURI:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	return nil
}

func (f *FormView) ClearImage() {
	f.image = nil
	f.Preview = nil
}

// Submit validates and dispatches a create or an update. On success the form is reset;
// on failure the entered values are kept and SubmitError holds the reason.
func (f *FormView) Submit(ctx context.Context) (*school.School, error) {
	f.SubmitError = ""
	if errs := f.Validate(); len(errs) > 0 {
		return nil, &school.ValidationError{Fields: errs}
	}

	var (
		saved *school.School
		err   error
	)
	if f.Editing() {
		saved, err = f.writer.UpdateSchool(ctx, f.editID, f.changes(), f.image)
	} else {
		saved, err = f.writer.AddSchool(ctx, f.createInput(), f.image)
	}
	if err != nil {
		fallback := "Failed to add school"
		if f.Editing() {
			fallback = "Failed to update school"
		}
		f.SubmitError = client.MessageOf(err, fallback)
		return nil, err
	}

	f.reset(saved)
	return saved, nil
}

func (f *FormView) createInput() school.CreateInput {
	v := f.Values
	return school.CreateInput{
		Name:        v.Name,
		Address:     v.Address,
		City:        v.City,
		State:       v.State,
		Contact:     v.Contact,
		Email:       v.Email,
		Description: v.Description,
	}
}

// changes returns only the fields that differ from the record being edited.
func (f *FormView) changes() school.UpdateInput {
	fields := make(map[string]string)
	for _, k := range school.FieldKeys {
		cur, _ := f.Values.field(k)
		orig, _ := f.original.field(k)
		if *cur != *orig {
			fields[k] = *cur
		}
	}
	return school.UpdateInputFromFields(fields)
}

func (f *FormView) reset(saved *school.School) {
	f.Errors = nil
	f.ClearImage()
	if f.Editing() && saved != nil {
		f.original = valuesOf(*saved)
		f.Values = f.original
		return
	}
	f.Values = FormValues{}
}
