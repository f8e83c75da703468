package adminapi

import (
	"errors"
	"net/http"

	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/nextcloud"
	"noracloud/servicenextcloud/internal/provisioning"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorMessage is the body of every failed request.
type ErrorMessage struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

// fail maps a service error onto a status code and JSON body.
func (a *App) fail(c echo.Context, err error) error {
	var (
		ve        *domain.ValidationError
		se        *provisioning.ServiceError
		authErr   *nextcloud.AuthError
		apiErr    *nextcloud.APIError
		transport *nextcloud.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, &ErrorMessage{Message: ve.Message, Field: ve.Field})
	case errors.As(err, &se):
		return c.JSON(http.StatusUnprocessableEntity, &ErrorMessage{Message: se.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, &ErrorMessage{Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, &ErrorMessage{Message: err.Error()})
	case errors.As(err, &authErr), errors.As(err, &apiErr), errors.As(err, &transport):
		return c.JSON(http.StatusBadGateway, &ErrorMessage{Message: err.Error()})
	}

	a.l.Error("admin request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return a.er(c, http.StatusInternalServerError)
}
