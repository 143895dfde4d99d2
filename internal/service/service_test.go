package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Additional-Code/purchasehub/internal/cache"
	cachemocks "github.com/Additional-Code/purchasehub/internal/cache/mocks"
	"github.com/Additional-Code/purchasehub/internal/entity"
	"github.com/Additional-Code/purchasehub/internal/messaging"
	messagingmocks "github.com/Additional-Code/purchasehub/internal/messaging/mocks"
	"github.com/Additional-Code/purchasehub/internal/repository"
	"github.com/Additional-Code/purchasehub/internal/repository/mocks"
	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type supplierFixture struct {
	repo      *mocks.MockRepository[entity.Supplier]
	store     *cachemocks.MockStore
	publisher *messagingmocks.MockClient
	svc       *Service[entity.Supplier, *entity.Supplier]
}

func newSupplierFixture(t *testing.T) supplierFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := supplierFixture{
		repo:      mocks.NewMockRepository[entity.Supplier](ctrl),
		store:     cachemocks.NewMockStore(ctrl),
		publisher: messagingmocks.NewMockClient(ctrl),
	}
	f.svc = New[entity.Supplier](repository.Suppliers, f.repo, Options{
		Cache:     f.store,
		CacheTTL:  time.Minute,
		Publisher: f.publisher,
		Now:       func() time.Time { return fixedNow },
	})
	return f
}

func acme() *entity.Supplier {
	return &entity.Supplier{
		SupplierName:     "ACME",
		SupplierCategory: "Tools",
		ContactEmail:     "a@acme.com",
		PhoneNumber:      "(11) 91234-5678",
		Status:           entity.StatusOn,
	}
}

func assertKind(t *testing.T, err error, kind errorbank.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := errorbank.From(err)
	assert.Equal(t, kind, appErr.Kind())
	if message != "" {
		assert.Equal(t, message, appErr.Message())
	}
}

func TestServiceCreate(t *testing.T) {
	f := newSupplierFixture(t)

	f.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *entity.Supplier) error {
			s.ID = "sup-1"
			return nil
		})
	f.store.EXPECT().
		Set(gomock.Any(), "suppliers:sup-1", gomock.Any(), time.Minute).
		Return(nil)
	f.publisher.EXPECT().
		Publish(gomock.Any(), []byte("supplier:sup-1"), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []byte, value []byte, headers map[string]string) error {
			event, err := messaging.DecodeEvent(messaging.Message{Value: value, Headers: headers})
			require.NoError(t, err)
			assert.Equal(t, messaging.ActionCreated, event.Action)
			assert.Equal(t, "ACME", event.Name)
			return nil
		})

	created, err := f.svc.Create(context.Background(), acme())
	require.NoError(t, err)
	assert.Equal(t, "sup-1", created.ID)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.Equal(t, fixedNow, created.UpdatedAt)
}

func TestServiceCreateRejectsInvalidDocument(t *testing.T) {
	f := newSupplierFixture(t)

	doc := acme()
	doc.Status = "maybe"

	_, err := f.svc.Create(context.Background(), doc)
	assertKind(t, err, errorbank.KindValidation, "")
	assert.Contains(t, err.Error(), "supplier validation failed")
	assert.Contains(t, err.Error(), `"maybe" is not a valid enum value`)
	assert.Equal(t, http.StatusBadRequest, errorbank.From(err).StatusCode())
}

func TestServiceCreateDuplicate(t *testing.T) {
	f := newSupplierFixture(t)

	f.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: email %q already exists", repository.ErrDuplicate, "a@acme.com"))

	_, err := f.svc.Create(context.Background(), acme())
	assertKind(t, err, errorbank.KindValidation, "")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestServiceGet(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newSupplierFixture(t)
		cached := acme()
		cached.ID = "sup-1"
		raw, err := jsoniter.Marshal(cached)
		require.NoError(t, err)

		f.store.EXPECT().Get(gomock.Any(), "suppliers:sup-1").Return(raw, nil)

		got, err := f.svc.Get(context.Background(), "sup-1")
		require.NoError(t, err)
		assert.Equal(t, "ACME", got.SupplierName)
	})

	t.Run("cache miss loads repository", func(t *testing.T) {
		f := newSupplierFixture(t)
		stored := acme()
		stored.ID = "sup-1"

		gomock.InOrder(
			f.store.EXPECT().Get(gomock.Any(), "suppliers:sup-1").Return(nil, cache.ErrCacheMiss),
			f.repo.EXPECT().GetByID(gomock.Any(), "sup-1").Return(stored, nil),
			f.store.EXPECT().Set(gomock.Any(), "suppliers:sup-1", gomock.Any(), time.Minute).Return(nil),
		)

		got, err := f.svc.Get(context.Background(), "sup-1")
		require.NoError(t, err)
		assert.Same(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheMiss)
		f.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, repository.ErrNotFound)

		_, err := f.svc.Get(context.Background(), "missing")
		assertKind(t, err, errorbank.KindNotFound, "supplier not found")
	})

	t.Run("backend failure", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, cache.ErrCacheMiss)
		f.repo.EXPECT().GetByID(gomock.Any(), "zzz").Return(nil, errors.New("cast to ObjectId failed"))

		_, err := f.svc.Get(context.Background(), "zzz")
		assertKind(t, err, errorbank.KindInternal, "failed to load supplier")
		assert.Contains(t, err.Error(), "cast to ObjectId failed")
	})
}

func TestServiceFindByName(t *testing.T) {
	f := newSupplierFixture(t)
	f.repo.EXPECT().FindByName(gomock.Any(), "Nobody").Return(nil, repository.ErrNotFound)

	_, err := f.svc.FindByName(context.Background(), "Nobody")
	assertKind(t, err, errorbank.KindNotFound, "supplier not found")
}

func TestServiceUpdateMergesChanges(t *testing.T) {
	f := newSupplierFixture(t)

	stored := acme()
	stored.ID = "sup-1"
	stored.CreatedAt = fixedNow.Add(-time.Hour)

	f.repo.EXPECT().GetByID(gomock.Any(), "sup-1").Return(stored, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *entity.Supplier) error {
			assert.Equal(t, entity.StatusOff, s.Status)
			assert.Equal(t, "ACME", s.SupplierName)
			assert.Equal(t, "sup-1", s.ID)
			return nil
		})
	f.store.EXPECT().Set(gomock.Any(), "suppliers:sup-1", gomock.Any(), time.Minute).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), []byte("supplier:sup-1"), gomock.Any(), gomock.Any()).Return(nil)

	updated, err := f.svc.Update(context.Background(), "sup-1", func(s *entity.Supplier) {
		s.Status = entity.StatusOff
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-time.Hour), updated.CreatedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
}

func TestServiceUpdateErrors(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.repo.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, repository.ErrNotFound)

		_, err := f.svc.Update(context.Background(), "gone", nil)
		assertKind(t, err, errorbank.KindNotFound, "supplier not found for update")
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newSupplierFixture(t)
		castErr := fmt.Errorf("%w: cast to ObjectId failed for value %q", repository.ErrInvalidID, "zzz")
		f.repo.EXPECT().GetByID(gomock.Any(), "zzz").Return(nil, castErr)

		_, err := f.svc.Update(context.Background(), "zzz", nil)
		assertKind(t, err, errorbank.KindValidation, "")
		assert.Contains(t, errorbank.From(err).Message(), `supplier validation failed: invalid document id: cast to ObjectId failed for value "zzz"`)
		assert.Equal(t, http.StatusBadRequest, errorbank.From(err).StatusCode())
	})

	t.Run("merged document invalid", func(t *testing.T) {
		f := newSupplierFixture(t)
		stored := acme()
		stored.ID = "sup-1"
		f.repo.EXPECT().GetByID(gomock.Any(), "sup-1").Return(stored, nil)

		_, err := f.svc.Update(context.Background(), "sup-1", func(s *entity.Supplier) {
			s.ContactEmail = "not-an-email"
		})
		assertKind(t, err, errorbank.KindValidation, "")
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("removes and announces", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), "sup-1").Return(nil)
		f.store.EXPECT().Delete(gomock.Any(), "suppliers:sup-1").Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), []byte("supplier:sup-1"), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), "sup-1"))
	})

	t.Run("second delete is not found", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.repo.EXPECT().Delete(gomock.Any(), "sup-1").Return(repository.ErrNotFound)

		err := f.svc.Delete(context.Background(), "sup-1")
		assertKind(t, err, errorbank.KindNotFound, "supplier not found for deletion")
	})
}

func TestServiceListFailure(t *testing.T) {
	f := newSupplierFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := f.svc.List(context.Background())
	assertKind(t, err, errorbank.KindInternal, "failed to list suppliers")
	assert.Equal(t, http.StatusInternalServerError, errorbank.From(err).StatusCode())
}

func TestServiceWithoutPublisherSkipsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository[entity.Supplier](ctrl)
	svc := New[entity.Supplier](repository.Suppliers, repo, Options{})

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Create(context.Background(), acme())
	require.NoError(t, err)
}
