package school

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schoolhub/internal/filestore"
	"schoolhub/internal/testutil"
)

func setupService(t *testing.T) (*Service, *filestore.Store, *recordingPublisher) {
	t.Helper()
	files := setupFiles(t)
	pub := &recordingPublisher{}
	return NewService(NewRepository(setupDB(t)), files, pub), files, pub
}

func storedFiles(t *testing.T, fs *filestore.Store) []string {
	t.Helper()
	infos, err := fs.List()
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, f := range infos {
		names = append(names, f.Name)
	}
	return names
}

func TestCreateNormalizesFields(t *testing.T) {
	svc, _, pub := setupService(t)

	s, err := svc.Create(context.Background(), CreateInput{
		Name:    "  ABC School ",
		Email:   "Admin@ABC-School.COM",
		City:    " Pune ",
		Contact: "1234567890",
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "ABC School", s.Name)
	assert.Equal(t, "admin@abc-school.com", s.Email)
	assert.Equal(t, "Pune", s.City)
	assert.Nil(t, s.Image)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, []EventType{EventCreated}, pub.Types())
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"missing name", CreateInput{Email: "a@b.com"}, FieldName},
		{"blank name", CreateInput{Name: "   ", Email: "a@b.com"}, FieldName},
		{"missing email", CreateInput{Name: "ABC"}, FieldEmail},
		{"malformed email", CreateInput{Name: "ABC", Email: "a@b"}, FieldEmail},
		{"short contact", CreateInput{Name: "ABC", Email: "a@b.com", Contact: "12345"}, FieldContact},
		{"alpha contact", CreateInput{Name: "ABC", Email: "a@b.com", Contact: "12345abcde"}, FieldContact},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, files, _ := setupService(t)

			image := testutil.FileHeader(t, pngHeader(t, "logo.png"))
			_, err := svc.Create(context.Background(), tc.in, image)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)

			list, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list, "no record persisted")
			assert.Empty(t, storedFiles(t, files), "no file stored")
		})
	}
}

func TestCreateWithImage(t *testing.T) {
	svc, files, _ := setupService(t)

	s, err := svc.Create(context.Background(), CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "front gate.png")))
	require.NoError(t, err)

	require.NotNil(t, s.Image)
	assert.True(t, files.Exists(*s.Image))
	assert.Equal(t, []string{*s.Image}, storedFiles(t, files))
}

func TestCreateRejectsBadImage(t *testing.T) {
	svc, files, _ := setupService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, testutil.File{Field: FieldImage, Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}))
	assert.ErrorIs(t, err, filestore.ErrInvalidMimeType)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, storedFiles(t, files))
}

func TestCreateRemovesImageWhenPersistFails(t *testing.T) {
	files := setupFiles(t)
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*school.School")).Return(errors.New("disk full"))
	pub := &recordingPublisher{}
	svc := NewService(repo, files, pub)

	_, err := svc.Create(context.Background(), CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "logo.png")))
	require.Error(t, err)
	assert.False(t, IsValidation(err))

	assert.Empty(t, storedFiles(t, files))
	assert.Empty(t, pub.Types())
	repo.AssertExpectations(t)
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		s, err := svc.Create(ctx, CreateInput{Name: name, Email: "x@y.com"}, nil)
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestUpdateOnlyProvidedFields(t *testing.T) {
	svc, _, pub := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name: "ABC School", Email: "a@b.com", Address: "1 Main Rd", City: "Mumbai",
		State: "MH", Contact: "1234567890", Description: "Primary school",
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{City: strPtr("Pune")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Address, updated.Address)
	assert.Equal(t, created.State, updated.State)
	assert.Equal(t, created.Contact, updated.Contact)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Description, updated.Description)

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", reloaded.City)
	assert.Equal(t, "1 Main Rd", reloaded.Address)
	assert.Equal(t, []EventType{EventCreated, EventUpdated}, pub.Types())
}

func TestUpdateEmptyValueClearsOptionalField(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com", Contact: "1234567890"}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Contact: strPtr("")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", updated.Contact)
}

func TestUpdateValidation(t *testing.T) {
	svc, files, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"}, nil)
	require.NoError(t, err)

	for name, in := range map[string]UpdateInput{
		"bad contact": {Contact: strPtr("12345")},
		"empty name":  {Name: strPtr("")},
		"empty email": {Email: strPtr(" ")},
		"bad email":   {Email: strPtr("nope")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(ctx, created.ID, in, testutil.FileHeader(t, pngHeader(t, "new.png")))
			assert.True(t, IsValidation(err), "got %v", err)
			assert.Empty(t, storedFiles(t, files))
		})
	}

	reloaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC", reloaded.Name)
	assert.Equal(t, "a@b.com", reloaded.Email)
	assert.Equal(t, "", reloaded.Contact)
}

func TestUpdateLowercasesEmail(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Email: strPtr("Office@School.ORG")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "office@school.org", updated.Email)
}

func TestUpdateReplacesImage(t *testing.T) {
	svc, files, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "old.png")))
	require.NoError(t, err)
	oldName := *created.Image

	updated, err := svc.Update(ctx, created.ID, UpdateInput{}, testutil.FileHeader(t, pngHeader(t, "new.png")))
	require.NoError(t, err)
	require.NotNil(t, updated.Image)

	assert.NotEqual(t, oldName, *updated.Image)
	assert.False(t, files.Exists(oldName))
	assert.True(t, files.Exists(*updated.Image))
	assert.Equal(t, []string{*updated.Image}, storedFiles(t, files))
}

func TestUpdateKeepsImageWithoutReplacement(t *testing.T) {
	svc, files, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "logo.png")))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: strPtr("ABC Intl")}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Image, updated.Image)
	assert.True(t, files.Exists(*updated.Image))
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.Update(context.Background(), "missing", UpdateInput{City: strPtr("Pune")}, nil)
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestUpdateRemovesNewImageWhenPersistFails(t *testing.T) {
	files := setupFiles(t)
	repo := new(MockRepository)
	existing := &School{ID: "s1", Name: "ABC", Email: "a@b.com", Image: strPtr("keep.png")}
	repo.On("GetByID", mock.Anything, "s1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	require.NoError(t, os.WriteFile(files.Path("keep.png"), testutil.PNG(t), 0o644))

	svc := NewService(repo, files)
	_, err := svc.Update(context.Background(), "s1", UpdateInput{}, testutil.FileHeader(t, pngHeader(t, "new.png")))
	require.Error(t, err)

	assert.Equal(t, []string{"keep.png"}, storedFiles(t, files), "old image kept, new image rolled back")
	repo.AssertExpectations(t)
}

func TestDeleteRemovesRecordAndImage(t *testing.T) {
	svc, files, pub := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "logo.png")))
	require.NoError(t, err)

	id, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)
	assert.False(t, files.Exists(*created.Image))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSchoolNotFound)
	assert.Equal(t, []EventType{EventCreated, EventDeleted}, pub.Types())
}

func TestDeleteToleratesMissingImageFile(t *testing.T) {
	svc, files, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "logo.png")))
	require.NoError(t, err)
	require.NoError(t, os.Remove(files.Path(*created.Image)))

	_, err = svc.Delete(ctx, created.ID)
	assert.NoError(t, err)
}

func TestSweepOrphanImages(t *testing.T) {
	svc, files, _ := setupService(t)
	ctx := context.Background()

	kept, err := svc.Create(ctx, CreateInput{Name: "ABC", Email: "a@b.com"},
		testutil.FileHeader(t, pngHeader(t, "kept.png")))
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"orphan-old.png", "orphan-fresh.png"} {
		require.NoError(t, os.WriteFile(files.Path(name), testutil.PNG(t), 0o644))
	}
	require.NoError(t, os.Chtimes(files.Path("orphan-old.png"), old, old))
	require.NoError(t, os.Chtimes(files.Path(*kept.Image), old, old))

	removed, err := svc.SweepOrphanImages(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.ElementsMatch(t, []string{*kept.Image, "orphan-fresh.png"}, storedFiles(t, files))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "is required", "contact": "must be a 10 digit number"}}
	assert.Equal(t, "contact must be a 10 digit number; name is required", err.Error())
}
