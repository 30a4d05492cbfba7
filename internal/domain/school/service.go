package school

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"schoolhub/internal/filestore"
	"schoolhub/internal/logger"
)

// FileStore is the subset of filestore.Store the service needs.
type FileStore interface {
	Save(fileHeader *multipart.FileHeader) (string, error)
	Remove(name string) error
	List() ([]filestore.FileInfo, error)
}

// Service correlates school records with their image files.
// File cleanup is best-effort: new files are written first, old files removed last, removal errors logged.
type Service struct {
	repo       Repository
	files      FileStore
	publishers []Publisher
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(repo Repository, files FileStore, publishers ...Publisher) *Service {
	return &Service{
		repo:       repo,
		files:      files,
		publishers: publishers,
		log:        logger.WithComponent("school.service"),
		now:        time.Now,
	}
}

// Create validates the fields, stores the optional image and persists the record.
func (s *Service) Create(ctx context.Context, in CreateInput, image *multipart.FileHeader) (*School, error) {
	school := in.toSchool()
	normalize(school)
	if err := Validate(school); err != nil {
		return nil, err
	}

	if image != nil {
		name, err := s.files.Save(image)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		school.Image = &name
	}

	if err := s.repo.Create(ctx, school); err != nil {
		s.removeImage(school.ImageName())
		return nil, fmt.Errorf("create school: %w", err)
	}

	s.log.Info().Str("school_id", school.ID).Str("image", school.ImageName()).Msg("school created")
	s.publish(Event{Type: EventCreated, ID: school.ID, School: school})
	return school, nil
}

// List returns every school, newest first.
func (s *Service) List(ctx context.Context) ([]School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

func (s *Service) Get(ctx context.Context, id string) (*School, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the provided fields and, when image is non-nil, replaces the stored image.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, image *multipart.FileHeader) (*School, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(school)
	normalize(school)
	if err := Validate(school); err != nil {
		return nil, err
	}

	previous := school.ImageName()
	replaced := false
	if image != nil {
		name, err := s.files.Save(image)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		school.Image = &name
		replaced = true
	}

	if err := s.repo.Update(ctx, school); err != nil {
		if replaced {
			s.removeImage(school.ImageName())
		}
		if errors.Is(err, ErrSchoolNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update school: %w", err)
	}

	if replaced && previous != "" {
		s.removeImage(previous)
	}

	s.log.Info().Str("school_id", school.ID).Bool("image_replaced", replaced).Msg("school updated")
	s.publish(Event{Type: EventUpdated, ID: school.ID, School: school})
	return school, nil
}

// Delete removes the record and then its image. Returns the deleted id.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSchoolNotFound) {
			return "", err
		}
		return "", fmt.Errorf("delete school: %w", err)
	}
	s.removeImage(school.ImageName())

	s.log.Info().Str("school_id", id).Msg("school deleted")
	s.publish(Event{Type: EventDeleted, ID: id})
	return id, nil
}

// SweepOrphanImages removes stored files that no record references and that are older than minAge.
// minAge keeps files written by in-flight create/update requests out of reach.
func (s *Service) SweepOrphanImages(ctx context.Context, minAge time.Duration) (int, error) {
	names, err := s.repo.ListImageNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced images: %w", err)
	}
	referenced := make(map[string]struct{}, len(names))
	for _, n := range names {
		referenced[n] = struct{}{}
	}

	files, err := s.files.List()
	if err != nil {
		return 0, fmt.Errorf("list stored images: %w", err)
	}

	cutoff := s.now().Add(-minAge)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Name]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.files.Remove(f.Name); err != nil {
			s.log.Warn().Err(err).Str("image", f.Name).Msg("failed to remove orphan image")
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *Service) removeImage(name string) {
	if name == "" {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.log.Warn().Err(err).Str("image", name).Msg("failed to remove image")
	}
}

func (s *Service) publish(e Event) {
	for _, p := range s.publishers {
		p.Publish(e)
	}
}
