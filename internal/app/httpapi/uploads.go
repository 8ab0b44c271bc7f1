package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore persists multipart file uploads under a single directory and
// serves them back over /uploads/.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates the upload directory if needed.
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are stored in.
func (s *UploadStore) Dir() string { return s.dir }

// Save writes the uploaded file to disk under a random name that keeps the
// original extension, and returns the stored filename.
func (s *UploadStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("store upload: %w", err)
	}
	return name, nil
}

// saveFormFile extracts and stores the named multipart field. A missing field
// is not an error; the returned name is empty.
func (s *UploadStore) saveFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	return s.Save(file, header)
}

// Handler serves stored files at the given URL prefix.
func (s *UploadStore) Handler(prefix string) http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.StripPrefix(prefix, noDirListing(fs))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || r.URL.Path == "" {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseMultipart bounds the request size before reading form fields.
func (s *UploadStore) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	return r.ParseMultipartForm(s.maxBytes)
}
