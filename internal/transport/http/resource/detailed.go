package resource

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/purchasehub/internal/dto"
	"github.com/Additional-Code/purchasehub/internal/presentation/http/response"
	"github.com/Additional-Code/purchasehub/internal/service"
)

// MountDetailed registers the order and campaign listings with resolved names.
func MountDetailed(e *echo.Echo, catalog *service.Catalog) {
	e.GET("/order/detailed", func(c echo.Context) error {
		ctx, span := httpTracer.Start(c.Request().Context(), "order.detailed")
		defer span.End()

		views, err := catalog.DetailedOrders(ctx)
		if err != nil {
			return response.New(c).WithError(err).Build()
		}
		if views == nil {
			views = []dto.OrderView{}
		}
		return response.New(c).WithData(views).Build()
	})

	e.GET("/campaign/detailed", func(c echo.Context) error {
		ctx, span := httpTracer.Start(c.Request().Context(), "campaign.detailed")
		defer span.End()

		views, err := catalog.DetailedCampaigns(ctx)
		if err != nil {
			return response.New(c).WithError(err).Build()
		}
		if views == nil {
			views = []dto.CampaignView{}
		}
		return response.New(c).WithData(views).Build()
	})
}
