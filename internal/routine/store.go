package routine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is the flat directory of routine files. Every call reads the disk
// afresh; a Store holds no mutable state and is safe for concurrent use.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, log *slog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// EnsureDir creates the routines directory if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating routines dir %s: %w", dir, err)
	}
	return nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads and parses the routine file called name. Expected failures are
// returned as *LoadError; any other error is an unexpected I/O failure.
func (s *Store) Load(name string) (*Document, error) {
	data, err := s.read(name)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, &LoadError{Kind: SyntaxError, Name: name, Err: err}
	}
	return doc, nil
}

// Stat checks that name refers to an existing routine file without reading it.
func (s *Store) Stat(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return &LoadError{Kind: NotFound, Name: name, Err: err}
		}
		return fmt.Errorf("stat routine %s: %w", name, err)
	}
	if info.IsDir() {
		return &LoadError{Kind: NotFound, Name: name, Err: errors.New("is a directory")}
	}
	return nil
}

// Open loads and validates a routine. Validation warnings are logged.
func (s *Store) Open(name string) (*Routine, error) {
	doc, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	r, warnings, err := Validate(doc)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.log.Warn("routine step warning", "file", name, "index", w.Index, "exercise", w.Name, "warning", w.Message)
	}
	r.Filename = name
	return r, nil
}

// List returns the sorted names of routine files that parse as YAML.
// Files that fail to read or parse are logged and skipped; only a failure
// to read the directory itself is returned.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading routines dir %s: %w", s.dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !HasAllowedExtension(name) {
			continue
		}
		if _, err := s.Load(name); err != nil {
			s.log.Warn("skipping unparseable routine file", "file", name, "error", err)
			continue
		}
		names = append(names, name)
	}
	// os.ReadDir already returns entries sorted by filename.
	return names, nil
}

// Save writes the contents of r as a routine file. The client-supplied
// name is sanitized first; the stored name is returned. The file appears
// atomically, replacing any previous routine of the same name.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	safe := SecureFilename(name)
	if safe == "" {
		return "", &LoadError{Kind: InvalidName, Name: name}
	}
	if err := checkName(safe); err != nil {
		return "", err
	}

	tmp := filepath.Join(s.dir, ".upload-"+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("writing %s: %w", safe, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing %s: %w", safe, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, safe)); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("storing %s: %w", safe, err)
	}
	return safe, nil
}

func (s *Store) read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, &LoadError{Kind: NotFound, Name: name, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat routine %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, &LoadError{Kind: NotFound, Name: name, Err: errors.New("is a directory")}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading routine %s: %w", name, err)
	}
	return data, nil
}
