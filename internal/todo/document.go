package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todoneko/internal/utils"
)

// DefaultEmotion is the lastEmotion of an empty document.
const DefaultEmotion = "normal"

var (
	// ErrCorruptData is returned when the data file is not a valid document.
	ErrCorruptData = errors.New("corrupt data file")
	// ErrIO is returned when the data file cannot be read or written.
	ErrIO = errors.New("data file i/o")
)

// Document is the persisted state.
type Document struct {
	Todos       []Item `json:"todos"`
	LastEmotion string `json:"lastEmotion"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Todos:       []Item{},
		LastEmotion: DefaultEmotion,
	}
}

// ValidationError points at the part of the document that failed.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Load reads the document at path. A missing file yields an empty document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	if d.Todos == nil {
		d.Todos = []Item{}
	}
	return &d, nil
}

// Validate checks raw data against the document schema. Failures wrap
// ErrCorruptData; schema violations also carry a ValidationError.
func Validate(data []byte) error {
	var obj interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return fmt.Errorf("%w: parse: %w", ErrCorruptData, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after document", ErrCorruptData)
	}

	if err := documentSchema().Validate(obj); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptData, firstSchemaError(err))
	}
	return nil
}

// Save writes the document to path, replacing it atomically.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Marshal returns the bytes Save writes: 2-space indented JSON with a
// trailing newline. Nil todos are written as [] and an empty emotion as
// DefaultEmotion.
func (d *Document) Marshal() ([]byte, error) {
	out := *d
	if out.Todos == nil {
		out.Todos = []Item{}
	}
	if out.LastEmotion == "" {
		out.LastEmotion = DefaultEmotion
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".data-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// firstSchemaError flattens a jsonschema error to its first leaf cause.
func firstSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path: utils.JSONPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}
