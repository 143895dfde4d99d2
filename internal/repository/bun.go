package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Additional-Code/purchasehub/internal/database"
)

// BunRepository stores documents in a relational table through bun.
type BunRepository[T any, P Document[T]] struct {
	writer *bun.DB
	reader *bun.DB
	desc   Descriptor
}

// NewBunRepository wires a repository backed by the configured SQL pools.
func NewBunRepository[T any, P Document[T]](conns *database.Connections, desc Descriptor) *BunRepository[T, P] {
	return &BunRepository[T, P]{
		writer: conns.Writer,
		reader: conns.Reader,
		desc:   desc,
	}
}

func (r *BunRepository[T, P]) List(ctx context.Context) (docs []*T, err error) {
	ctx, span := startSpan(ctx, r.desc, "sql", "List")
	defer func() { finishSpan(span, err) }()

	docs = make([]*T, 0)
	if err = r.reader.NewSelect().Model(&docs).Order("created_at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *BunRepository[T, P]) GetByID(ctx context.Context, id string) (doc *T, err error) {
	ctx, span := startSpan(ctx, r.desc, "sql", "GetByID", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	doc = new(T)
	err = r.reader.NewSelect().Model(doc).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *BunRepository[T, P]) FindByName(ctx context.Context, name string) (doc *T, err error) {
	ctx, span := startSpan(ctx, r.desc, "sql", "FindByName", attribute.String("document.name", name))
	defer func() { finishSpan(span, err) }()

	doc = new(T)
	err = r.reader.NewSelect().
		Model(doc).
		Where("? = ?", bun.Ident(r.desc.NameField), name).
		Order("created_at ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *BunRepository[T, P]) Create(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	if P(doc).DocumentID() == "" {
		P(doc).SetDocumentID(uuid.NewString())
	}
	ctx, span := startSpan(ctx, r.desc, "sql", "Create", attribute.String("document.id", P(doc).DocumentID()))
	defer func() { finishSpan(span, err) }()

	if _, err = r.writer.NewInsert().Model(doc).Exec(ctx); err != nil {
		return translate(err)
	}
	return nil
}

func (r *BunRepository[T, P]) Update(ctx context.Context, doc *T) (err error) {
	if doc == nil {
		return errors.New("nil document")
	}
	id := P(doc).DocumentID()
	ctx, span := startSpan(ctx, r.desc, "sql", "Update", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	res, err := r.writer.NewUpdate().Model(doc).WherePK().ExcludeColumn("created_at").Exec(ctx)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// MySQL reports zero affected rows for unchanged values, so confirm existence.
	exists, err := r.reader.NewSelect().Model((*T)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (r *BunRepository[T, P]) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, r.desc, "sql", "Delete", attribute.String("document.id", id))
	defer func() { finishSpan(span, err) }()

	res, err := r.writer.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
