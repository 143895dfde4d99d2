package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/database"
	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/migration"
	"github.com/Additional-Code/purchasehub/internal/repository"
)

func fileConnections(t *testing.T) *database.Connections {
	return &database.Connections{Driver: "file", FileDir: t.TempDir()}
}

func sqliteConnections(t *testing.T) *database.Connections {
	t.Helper()
	cfg := config.Config{Database: config.Database{
		Driver:    "sqlite",
		WriterDSN: "file:" + filepath.Join(t.TempDir(), "hub.db"),
	}}

	writer, reader, err := database.OpenSQL(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	conns := &database.Connections{Driver: "sqlite", Writer: writer, Reader: reader}
	mig, err := migration.New(cfg, conns, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(context.Background()))
	return conns
}

// backends gains container-backed drivers under the integration build tag.
var backends = map[string]func(*testing.T) *database.Connections{
	"file":   fileConnections,
	"sqlite": sqliteConnections,
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func newRepository[T any, P repository.Document[T]](t *testing.T, conns *database.Connections, desc repository.Descriptor) repository.Repository[T] {
	t.Helper()
	repo, err := repository.New[T, P](conns, desc)
	require.NoError(t, err)
	if ix, ok := repo.(indexer); ok {
		require.NoError(t, ix.EnsureIndexes(context.Background()))
	}
	return repo
}

func supplier(name string, at time.Time) *entity.Supplier {
	s := &entity.Supplier{
		SupplierName:     name,
		SupplierCategory: "Ferramentas",
		ContactEmail:     "contato@acme.com",
		PhoneNumber:      "(11) 91234-5678",
		Status:           entity.StatusOn,
	}
	s.Stamp(at)
	return s
}

func TestRepositoryLifecycle(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepository[entity.Supplier](t, open(t), repository.Suppliers)

			docs, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, docs)
			assert.Empty(t, docs)

			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			first := supplier("ACME", base)
			require.NoError(t, repo.Create(ctx, first))
			require.NotEmpty(t, first.ID)

			second := supplier("ACME", base.Add(time.Minute))
			second.SupplierCategory = "Parafusos"
			require.NoError(t, repo.Create(ctx, second))

			got, err := repo.GetByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ferramentas", got.SupplierCategory)

			byName, err := repo.FindByName(ctx, "ACME")
			require.NoError(t, err)
			assert.Equal(t, first.ID, byName.ID, "oldest match wins")

			_, err = repo.FindByName(ctx, "Nobody")
			assert.ErrorIs(t, err, repository.ErrNotFound)

			got.Status = entity.StatusOff
			got.Stamp(base.Add(time.Hour))
			require.NoError(t, repo.Update(ctx, got))

			reloaded, err := repo.GetByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.StatusOff, reloaded.Status)

			docs, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, docs, 2)
			assert.Equal(t, first.ID, docs[0].ID)

			require.NoError(t, repo.Delete(ctx, first.ID))
			assert.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrNotFound)

			_, err = repo.GetByID(ctx, first.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)

			ghost := supplier("Ghost", base)
			ghost.ID = "000000000000000000000000"
			assert.ErrorIs(t, repo.Update(ctx, ghost), repository.ErrNotFound)
		})
	}
}

func TestRepositoryUniqueKeys(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepository[entity.User](t, open(t), repository.Users)

			user := func(email, username string) *entity.User {
				u := &entity.User{Name: "Ana", Email: email, Username: username, Password: "x", Level: entity.LevelUser, Status: entity.StatusOn}
				u.Stamp(time.Now())
				return u
			}

			ana := user("ana@hub.com", "ana")
			require.NoError(t, repo.Create(ctx, ana))

			err := repo.Create(ctx, user("ana@hub.com", "ana2"))
			assert.ErrorIs(t, err, repository.ErrDuplicate)

			other := user("bia@hub.com", "bia")
			require.NoError(t, repo.Create(ctx, other))

			other.Username = "ana"
			assert.ErrorIs(t, repo.Update(ctx, other), repository.ErrDuplicate)

			// Saving a document over itself is not a conflict.
			assert.NoError(t, repo.Update(ctx, ana))
		})
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := repository.New[entity.Store](&database.Connections{Driver: "cassandra"}, repository.Stores)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	desc, ok := repository.Lookup("campaign")
	require.True(t, ok)
	assert.Equal(t, "campaigns", desc.Collection)

	_, ok = repository.Lookup("invoice")
	assert.False(t, ok)
	assert.Len(t, repository.All, 6)
}
