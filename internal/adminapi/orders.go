package adminapi

import (
	"context"
	"net/http"

	"noracloud/servicenextcloud/internal/domain"

	"github.com/labstack/echo/v4"
)

type hook func(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error)

// orderHook adapts a lifecycle hook to a handler taking
// {"order_id", "client_id", "product_id"}.
func (a *App) orderHook(h hook) echo.HandlerFunc {
	return func(c echo.Context) error {
		var order domain.Order
		if err := c.Bind(&order); err != nil {
			return a.er(c, http.StatusBadRequest)
		}
		if order.ID <= 0 {
			return a.fail(c, domain.NewValidationError("order_id", "order_id is required"))
		}

		svc, err := h(c.Request().Context(), order)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, &Result{Result: svc})
	}
}

func (a *App) OrderDelete(c echo.Context) error {
	return a.orderHook(func(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
		return nil, a.prov.Delete(ctx, order)
	})(c)
}

func (a *App) OrderGet(c echo.Context) error {
	return a.orderHook(func(ctx context.Context, order domain.Order) (*domain.ServiceInstance, error) {
		return a.prov.Get(ctx, order.ID)
	})(c)
}
