package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/purchasehub/internal/presentation/http/response"
	"github.com/Additional-Code/purchasehub/internal/repository"
	"github.com/Additional-Code/purchasehub/internal/service"
	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/purchasehub/transport/http/resource")

// CreateRequest is a POST body that builds a new document with defaults applied.
type CreateRequest[T any] interface {
	Entity() *T
}

// UpdateRequest is a PUT body that merges the fields it carries into a document.
type UpdateRequest[T any] interface {
	Apply(*T)
}

// Handler exposes the CRUD endpoints of one resource.
type Handler[T any, P repository.Document[T], C CreateRequest[T], U UpdateRequest[T]] struct {
	svc *service.Service[T, P]
}

// NewHandler constructs a Handler around svc.
func NewHandler[T any, P repository.Document[T], C CreateRequest[T], U UpdateRequest[T]](svc *service.Service[T, P]) *Handler[T, P, C, U] {
	return &Handler[T, P, C, U]{svc: svc}
}

// Mount registers the resource routes under /<resource>.
func Mount[T any, P repository.Document[T], C CreateRequest[T], U UpdateRequest[T]](e *echo.Echo, svc *service.Service[T, P]) {
	NewHandler[T, P, C, U](svc).Register(e)
}

// Register routes with provided Echo instance.
func (h *Handler[T, P, C, U]) Register(e *echo.Echo) {
	g := e.Group("/" + h.svc.Resource())
	g.GET("", h.list)
	g.GET("/name/:name", h.getByName)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler[T, P, C, U]) list(c echo.Context) error {
	ctx, span := h.start(c, "list")
	defer span.End()

	docs, err := h.svc.List(ctx)
	if err != nil {
		return response.New(c).WithError(err).Build()
	}
	if docs == nil {
		docs = []*T{}
	}
	return response.New(c).WithData(docs).Build()
}

func (h *Handler[T, P, C, U]) getByID(c echo.Context) error {
	id := c.Param("id")
	ctx, span := h.start(c, "getByID", attribute.String("document.id", id))
	defer span.End()

	doc, err := h.svc.Get(ctx, id)
	if err != nil {
		return response.New(c).WithError(err).Build()
	}
	return response.New(c).WithData(doc).Build()
}

func (h *Handler[T, P, C, U]) getByName(c echo.Context) error {
	name := c.Param("name")
	ctx, span := h.start(c, "getByName", attribute.String("document.name", name))
	defer span.End()

	doc, err := h.svc.FindByName(ctx, name)
	if err != nil {
		return response.New(c).WithError(err).Build()
	}
	return response.New(c).WithData(doc).Build()
}

func (h *Handler[T, P, C, U]) create(c echo.Context) error {
	b := response.New(c)

	var payload C
	if err := h.bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := h.start(c, "create")
	defer span.End()

	if err := h.svc.CheckRequest(payload); err != nil {
		return b.WithError(err).Build()
	}
	doc, err := h.svc.Create(ctx, payload.Entity())
	if err != nil {
		return b.WithError(err).Build()
	}
	span.SetAttributes(attribute.String("document.id", P(doc).DocumentID()))

	return b.WithStatus(http.StatusCreated).WithData(doc).Build()
}

func (h *Handler[T, P, C, U]) update(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	var payload U
	if err := h.bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := h.start(c, "update", attribute.String("document.id", id))
	defer span.End()

	doc, err := h.svc.Update(ctx, id, payload.Apply)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(doc).Build()
}

func (h *Handler[T, P, C, U]) delete(c echo.Context) error {
	id := c.Param("id")
	ctx, span := h.start(c, "delete", attribute.String("document.id", id))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return response.New(c).WithError(err).Build()
	}
	return response.New(c).WithStatus(http.StatusNoContent).Build()
}

// bind decodes the JSON body regardless of Content-Type; an empty body leaves
// dst at its zero value.
func (h *Handler[T, P, C, U]) bind(c echo.Context, dst any) error {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}
	err := c.Echo().JSONSerializer.Deserialize(c, dst)
	if err == nil {
		return nil
	}
	detail := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		detail = fmt.Sprint(httpErr.Message)
	}
	return errorbank.BadRequest(fmt.Sprintf("invalid %s payload: %s", h.svc.Resource(), detail), errorbank.WithCause(err))
}

func (h *Handler[T, P, C, U]) start(c echo.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return httpTracer.Start(c.Request().Context(), h.svc.Resource()+"."+op, trace.WithAttributes(attrs...))
}
