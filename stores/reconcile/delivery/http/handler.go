package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/delivery"
	"github.com/namebid/goapi/domain/reconcile"
	authMiddleware "github.com/namebid/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	reconcile reconcile.Usecase
}

// New registers admin-only reconciliation endpoints.
func New(e *echo.Echo, reconcile reconcile.Usecase, auth *authMiddleware.AuthMiddleware) {
	h := &handler{reconcile: reconcile}

	g := e.Group("/admin/reconcile", auth.Auth(), auth.IsAdmin())
	g.POST("", h.run)
	g.GET("/preview", h.preview)
}

func (h *handler) run(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.reconcile.Run(ctx, time.Now()); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) preview(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.reconcile.Preview(ctx, time.Now()); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
