package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/purchasehub/internal/cache"
	"github.com/Additional-Code/purchasehub/internal/config"
	"github.com/Additional-Code/purchasehub/internal/messaging"
	"github.com/Additional-Code/purchasehub/internal/repository"
	"github.com/Additional-Code/purchasehub/internal/validation"
	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

var (
	serviceTracer = otel.Tracer("github.com/Additional-Code/purchasehub/service")
	serviceMeter  = otel.Meter("github.com/Additional-Code/purchasehub/service")
)

// Validator checks a document against its schema rules.
type Validator interface {
	Validate(i any) error
}

// Service implements the CRUD contract of one resource on top of its repository.
type Service[T any, P repository.Document[T]] struct {
	desc      repository.Descriptor
	repo      repository.Repository[T]
	cache     *cache.Typed[T]
	validator Validator
	publisher messaging.Client
	publish   bool
	logger    *zap.Logger
	writes    metric.Int64Counter
	now       func() time.Time
}

// Params defines dependencies for constructing a Service.
type Params[T any] struct {
	fx.In

	Repository repository.Repository[T]
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	Validator  *validation.Validator
}

// Options carries the non-injected dependencies of a Service; zero values are safe.
type Options struct {
	Cache     cache.Store
	CacheTTL  time.Duration
	Validator Validator
	Publisher messaging.Client
	Logger    *zap.Logger
	Now       func() time.Time
}

// New wires a Service for desc.
func New[T any, P repository.Document[T]](desc repository.Descriptor, repo repository.Repository[T], opts Options) *Service[T, P] {
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	writes, err := serviceMeter.Int64Counter("purchasehub.documents.writes",
		metric.WithDescription("Successful document writes by resource and action"))
	if err != nil {
		opts.Logger.Warn("write counter unavailable", zap.Error(err))
	}
	return &Service[T, P]{
		desc:      desc,
		repo:      repo,
		cache:     cache.NewTyped[T](opts.Cache, desc.Collection, opts.CacheTTL),
		validator: opts.Validator,
		publisher: opts.Publisher,
		publish:   opts.Publisher != nil,
		logger:    opts.Logger,
		writes:    writes,
		now:       opts.Now,
	}
}

// Provider returns an fx constructor of the Service for desc.
func Provider[T any, P repository.Document[T]](desc repository.Descriptor) func(Params[T]) *Service[T, P] {
	return func(p Params[T]) *Service[T, P] {
		opts := Options{
			Cache:     p.Cache,
			CacheTTL:  p.Config.Cache.DefaultTTL,
			Validator: p.Validator,
			Logger:    p.Logger.With(zap.String("resource", desc.Resource)),
		}
		if p.Config.Messaging.Enabled {
			opts.Publisher = p.Publisher
		}
		return New[T, P](desc, p.Repository, opts)
	}
}

// Resource returns the route name of the managed resource.
func (s *Service[T, P]) Resource() string { return s.desc.Resource }

// List returns every document of the resource.
func (s *Service[T, P]) List(ctx context.Context) ([]*T, error) {
	ctx, span := s.start(ctx, "List")
	defer span.End()

	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal(span, fmt.Sprintf("failed to list %s", s.desc.Collection), err)
	}
	return docs, nil
}

// Get retrieves a document by id, consulting the cache first.
func (s *Service[T, P]) Get(ctx context.Context, id string) (*T, error) {
	ctx, span := s.start(ctx, "Get", attribute.String("document.id", id))
	defer span.End()

	if doc, err := s.cache.Get(ctx, id); err == nil {
		return doc, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("id", id), zap.Error(err))
	}

	doc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorbank.NotFound(s.notFound(""))
	}
	if err != nil {
		return nil, s.internal(span, fmt.Sprintf("failed to load %s", s.desc.Resource), err)
	}

	s.remember(ctx, doc)
	return doc, nil
}

// FindByName returns the first document whose name key equals name.
func (s *Service[T, P]) FindByName(ctx context.Context, name string) (*T, error) {
	ctx, span := s.start(ctx, "FindByName", attribute.String("document.name", name))
	defer span.End()

	doc, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorbank.NotFound(s.notFound(""))
	}
	if err != nil {
		return nil, s.internal(span, fmt.Sprintf("failed to load %s", s.desc.Resource), err)
	}
	return doc, nil
}

// Create validates and persists a new document, filling its id and timestamps.
func (s *Service[T, P]) Create(ctx context.Context, doc *T) (*T, error) {
	if doc == nil {
		return nil, errorbank.BadRequest(s.desc.Resource + " payload is required")
	}
	ctx, span := s.start(ctx, "Create")
	defer span.End()

	if err := s.check(doc); err != nil {
		return nil, err
	}
	P(doc).Stamp(s.now())

	if err := s.repo.Create(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicate(err)
		}
		return nil, s.internal(span, fmt.Sprintf("failed to create %s", s.desc.Resource), err)
	}

	s.remember(ctx, doc)
	s.written(ctx, messaging.ActionCreated, doc)
	return doc, nil
}

// Update merges changes into the stored document, re-validates and persists it.
func (s *Service[T, P]) Update(ctx context.Context, id string, apply func(*T)) (*T, error) {
	ctx, span := s.start(ctx, "Update", attribute.String("document.id", id))
	defer span.End()

	doc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorbank.NotFound(s.notFound("update"))
	}
	if errors.Is(err, repository.ErrInvalidID) {
		return nil, errorbank.Validation(fmt.Sprintf("%s validation failed: %v", s.desc.Resource, err), errorbank.WithCause(err))
	}
	if err != nil {
		return nil, s.internal(span, fmt.Sprintf("failed to load %s", s.desc.Resource), err)
	}

	if apply != nil {
		apply(doc)
	}
	P(doc).SetDocumentID(id)
	if err := s.check(doc); err != nil {
		return nil, err
	}
	P(doc).Stamp(s.now())

	if err := s.repo.Update(ctx, doc); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, errorbank.NotFound(s.notFound("update"))
		case errors.Is(err, repository.ErrDuplicate):
			return nil, s.duplicate(err)
		default:
			return nil, s.internal(span, fmt.Sprintf("failed to update %s", s.desc.Resource), err)
		}
	}

	s.remember(ctx, doc)
	s.written(ctx, messaging.ActionUpdated, doc)
	return doc, nil
}

// Delete removes a document by id.
func (s *Service[T, P]) Delete(ctx context.Context, id string) error {
	ctx, span := s.start(ctx, "Delete", attribute.String("document.id", id))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errorbank.NotFound(s.notFound("deletion"))
	}
	if err != nil {
		return s.internal(span, fmt.Sprintf("failed to delete %s", s.desc.Resource), err)
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
	deleted := new(T)
	P(deleted).SetDocumentID(id)
	s.written(ctx, messaging.ActionDeleted, deleted)
	return nil
}

func (s *Service[T, P]) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("resource", s.desc.Resource))
	return serviceTracer.Start(ctx, s.desc.Resource+"Service."+op, trace.WithAttributes(attrs...))
}

// CheckRequest validates a request body before it becomes a document. Absent
// required numbers are only visible here; the document holds them as 0.
func (s *Service[T, P]) CheckRequest(req any) error {
	return s.validate(req)
}

func (s *Service[T, P]) check(doc *T) error {
	return s.validate(doc)
}

func (s *Service[T, P]) validate(v any) error {
	err := s.validator.Validate(v)
	if err == nil {
		return nil
	}
	opts := []errorbank.Option{errorbank.WithCause(err)}
	var verr *validation.Error
	if errors.As(err, &verr) {
		opts = append(opts, errorbank.WithDetail("fields", verr.Fields))
	}
	return errorbank.Validation(fmt.Sprintf("%s validation failed: %v", s.desc.Resource, err), opts...)
}

func (s *Service[T, P]) duplicate(err error) error {
	return errorbank.Validation(fmt.Sprintf("%s validation failed: %v", s.desc.Resource, err), errorbank.WithCause(err))
}

func (s *Service[T, P]) internal(span trace.Span, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	s.logger.Error(message, zap.Error(err))
	return errorbank.Internal(message, errorbank.WithCause(err))
}

func (s *Service[T, P]) notFound(op string) string {
	if op == "" {
		return s.desc.Resource + " not found"
	}
	return fmt.Sprintf("%s not found for %s", s.desc.Resource, op)
}

func (s *Service[T, P]) remember(ctx context.Context, doc *T) {
	id := P(doc).DocumentID()
	if err := s.cache.Set(ctx, id, doc); err != nil {
		s.logger.Warn("cache write failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Service[T, P]) written(ctx context.Context, action messaging.Action, doc *T) {
	if s.writes != nil {
		s.writes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("resource", s.desc.Resource),
			attribute.String("action", string(action)),
		))
	}
	if !s.publish {
		return
	}

	event := messaging.Event{
		Resource:   s.desc.Resource,
		Action:     action,
		ID:         P(doc).DocumentID(),
		Name:       P(doc).LookupName(),
		OccurredAt: s.now().UTC(),
	}
	payload, err := event.Encode()
	if err != nil {
		s.logger.Error("marshal resource event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, event.Key(), payload, event.Headers()); err != nil {
		s.logger.Error("publish resource event", zap.String("action", string(action)), zap.Error(err))
	}
}
