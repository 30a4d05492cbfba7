package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxFileSize = 2 * 1024 * 1024 // 2 MiB
	DefaultDir  = "./schoolImages"
)

// AllowedMimeTypes defines which image types are accepted.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// extensions maps a detected type to the extension files are stored under.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FileInfo describes a stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Store keeps uploaded images in a single flat directory, addressed by generated name.
type Store struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxSize: MaxFileSize, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save validates the uploaded part and writes it to disk. Returns the stored filename.
func (s *Store) Save(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	// The declared type is checked first so obviously wrong parts are rejected without reading them.
	if declared := fileHeader.Header.Get("Content-Type"); declared != "" {
		if !AllowedMimeTypes[baseMime(declared)] {
			return "", ErrInvalidMimeType
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	detected := baseMime(mtype.String())
	if !AllowedMimeTypes[detected] {
		return "", ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	filename := s.generateName(fileHeader.Filename, detected)
	absPath := filepath.Join(s.dir, filename)

	dst, err := os.OpenFile(absPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// LimitReader guards against a part whose header understates its size.
	written, err := io.Copy(dst, io.LimitReader(file, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(absPath)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filename, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Store) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil && info.Mode().IsRegular()
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// List returns the regular files in the store directory.
func (s *Store) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return files, nil
}

// generateName builds <unix-millis>-<8 hex>-<sanitized original><ext>.
// The extension always follows the sniffed content type, never the client's filename.
func (s *Store) generateName(original, contentType string) string {
	ext := extensions[contentType]
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s%s", s.now().UnixMilli(), token, sanitizeName(original), ext)
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return ErrInvalidName
	}
	return nil
}

func baseMime(m string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(m, ";")[0]))
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." {
		return "image"
	}
	return name
}
