package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Additional-Code/purchasehub/internal/database"
)

var fileJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// FileRepository keeps every document of a resource in one JSON array file.
// Writers are serialized within the process; concurrent processes sharing the
// file can still lose updates.
type FileRepository[T any, P Document[T]] struct {
	mu   sync.Mutex
	path string
	desc Descriptor
}

// NewFileRepository stores desc.Collection as <dir>/<collection>.json.
func NewFileRepository[T any, P Document[T]](conns *database.Connections, desc Descriptor) *FileRepository[T, P] {
	return &FileRepository[T, P]{
		path: filepath.Join(conns.FileDir, desc.Collection+".json"),
		desc: desc,
	}
}

func (r *FileRepository[T, P]) List(ctx context.Context) (docs []*T, err error) {
	_, span := startSpan(ctx, r.desc, "file", "List")
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository[T, P]) GetByID(ctx context.Context, id string) (doc *T, err error) {
	_, span := startSpan(ctx, r.desc, "file", "GetByID", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load()
	if err != nil {
		return nil, err
	}
	if i := indexOf[T, P](docs, id); i >= 0 {
		return docs[i], nil
	}
	return nil, ErrNotFound
}

func (r *FileRepository[T, P]) FindByName(ctx context.Context, name string) (doc *T, err error) {
	_, span := startSpan(ctx, r.desc, "file", "FindByName", attribute.String("document.name", name))
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if P(d).LookupName() == name {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileRepository[T, P]) Create(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	if P(doc).DocumentID() == "" {
		P(doc).SetDocumentID(uuid.NewString())
	}
	_, span := startSpan(ctx, r.desc, "file", "Create", attribute.String("document.id", P(doc).DocumentID()))
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load()
	if err != nil {
		return err
	}
	if err = checkUnique[T, P](docs, doc); err != nil {
		return err
	}
	return r.save(append(docs, doc))
}

func (r *FileRepository[T, P]) Update(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	id := P(doc).DocumentID()
	_, span := startSpan(ctx, r.desc, "file", "Update", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf[T, P](docs, id)
	if i < 0 {
		return ErrNotFound
	}
	if err = checkUnique[T, P](docs, doc); err != nil {
		return err
	}
	docs[i] = doc
	return r.save(docs)
}

func (r *FileRepository[T, P]) Delete(ctx context.Context, id string) (err error) {
	_, span := startSpan(ctx, r.desc, "file", "Delete", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()
	docs, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf[T, P](docs, id)
	if i < 0 {
		return ErrNotFound
	}
	return r.save(append(docs[:i], docs[i+1:]...))
}

func (r *FileRepository[T, P]) load() ([]*T, error) {
	docs := make([]*T, 0)
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return docs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(raw) == 0 {
		return docs, nil
	}
	if err := fileJSON.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return docs, nil
}

// save writes to a sibling temp file and renames it over the original.
func (r *FileRepository[T, P]) save(docs []*T) error {
	raw, err := fileJSON.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func indexOf[T any, P Document[T]](docs []*T, id string) int {
	for i, d := range docs {
		if P(d).DocumentID() == id {
			return i
		}
	}
	return -1
}

func checkUnique[T any, P Document[T]](docs []*T, doc *T) error {
	keys := P(doc).UniqueKeys()
	if len(keys) == 0 {
		return nil
	}
	fields := make([]string, 0, len(keys))
	for field := range keys {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	id := P(doc).DocumentID()
	for _, other := range docs {
		if P(other).DocumentID() == id {
			continue
		}
		otherKeys := P(other).UniqueKeys()
		for _, field := range fields {
			if keys[field] != "" && keys[field] == otherKeys[field] {
				return fmt.Errorf("%w: %s %q already exists", ErrDuplicate, field, keys[field])
			}
		}
	}
	return nil
}
