package adminapi

import (
	"net/http"
	"strconv"

	"noracloud/servicenextcloud/internal/domain"

	"github.com/labstack/echo/v4"
)

// Result wraps every successful API response.
type Result struct {
	Result any `json:"result"`
}

type serverIDRequest struct {
	ID int64 `json:"id"`
}

type serverUpdateRequest struct {
	ID int64 `json:"id"`
	domain.UpdateServerOpts
}

// redact hides the stored admin password from API output.
func redact(srv *domain.ServerConfig) *domain.ServerConfig {
	out := *srv
	out.Password = ""
	return &out
}

func requireID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "id is required")
	}
	return nil
}

func (a *App) ServerList(c echo.Context) error {
	servers, err := a.reg.List(c.Request().Context())
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: servers})
}

func (a *App) ServerGet(c echo.Context) error {
	var req serverIDRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	if err := requireID(req.ID); err != nil {
		return a.fail(c, err)
	}

	srv, err := a.reg.Get(c.Request().Context(), req.ID)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: redact(srv)})
}

func (a *App) ServerCreate(c echo.Context) error {
	var req domain.CreateServerOpts
	if err := c.Bind(&req); err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	srv, err := a.reg.Create(c.Request().Context(), req)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: srv.ID})
}

func (a *App) ServerUpdate(c echo.Context) error {
	var req serverUpdateRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	if err := requireID(req.ID); err != nil {
		return a.fail(c, err)
	}

	srv, err := a.reg.Update(c.Request().Context(), req.ID, req.UpdateServerOpts)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: redact(srv)})
}

func (a *App) ServerDelete(c echo.Context) error {
	var req serverIDRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	if err := requireID(req.ID); err != nil {
		return a.fail(c, err)
	}

	if err := a.reg.Delete(c.Request().Context(), req.ID); err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: true})
}

func (a *App) ServerTestConnection(c echo.Context) error {
	var req serverIDRequest
	if err := c.Bind(&req); err != nil {
		return a.er(c, http.StatusBadRequest)
	}
	if err := requireID(req.ID); err != nil {
		return a.fail(c, err)
	}

	ok, err := a.reg.TestConnection(c.Request().Context(), req.ID)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, &Result{Result: ok})
}

// --- views ---

// ServerListView backs the admin server list page.
func (a *App) ServerListView(c echo.Context) error {
	servers, err := a.reg.List(c.Request().Context())
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"servers": servers})
}

// ServerDetailView backs the admin server detail page.
func (a *App) ServerDetailView(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return a.fail(c, domain.NewValidationError("id", "id must be a positive integer"))
	}

	srv, err := a.reg.Get(c.Request().Context(), id)
	if err != nil {
		return a.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"server": redact(srv)})
}
