package adminapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"noracloud/servicenextcloud/internal/auditlog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const apiPrefix = "/api/admin/servicenextcloud"

// ReadHeaderTimeout bounds slow clients of the admin API.
const ReadHeaderTimeout = 10 * time.Second

// New returns an echo instance serving the admin API. Every route requires
// "Authorization: Bearer <token>".
func New(a *App, token string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			return token != "" && subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return a.er(c, http.StatusUnauthorized)
		},
	}))
	e.Use(auditMetadata)

	a.Register(e)
	return e
}

// Register binds every admin route to e.
func (a *App) Register(e *echo.Echo) {
	e.GET("/servicenextcloud", a.ServerListView)
	e.GET("/servicenextcloud/server/:id", a.ServerDetailView)

	g := e.Group(apiPrefix)
	g.POST("/server_list", a.ServerList)
	g.POST("/server_get", a.ServerGet)
	g.POST("/server_create", a.ServerCreate)
	g.POST("/server_update", a.ServerUpdate)
	g.POST("/server_delete", a.ServerDelete)
	g.POST("/server_test_connection", a.ServerTestConnection)

	g.POST("/order_create", a.orderHook(a.prov.Create))
	g.POST("/order_activate", a.orderHook(a.prov.Activate))
	g.POST("/order_renew", a.orderHook(a.prov.Renew))
	g.POST("/order_suspend", a.orderHook(a.prov.Suspend))
	g.POST("/order_unsuspend", a.orderHook(a.prov.Unsuspend))
	g.POST("/order_cancel", a.orderHook(a.prov.Cancel))
	g.POST("/order_uncancel", a.orderHook(a.prov.Uncancel))
	g.POST("/order_delete", a.OrderDelete)
	g.POST("/order_get", a.OrderGet)
}

// auditMetadata tags the request context so audit entries name the API
// route that caused them.
func auditMetadata(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := auditlog.WithMetadata(req.Context(), auditlog.Metadata{
			Actor: "api",
			Args:  req.Method + " " + req.URL.Path,
		})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}
