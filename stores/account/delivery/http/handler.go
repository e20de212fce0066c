package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/delivery"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/account"
	"github.com/namebid/goapi/middleware"
)

type handler struct {
	account account.Usecase
}

// New registers account endpoints.
func New(e *echo.Echo, account account.Usecase) {
	h := &handler{account: account}

	g := e.Group("/accounts")
	g.GET("/:address", h.get, middleware.IsValidAddress("address"))
	g.POST("/:address/nonce", h.generateNonce, middleware.IsValidAddress("address"))
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address"))

	if res, err := h.account.Get(ctx, address); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// generateNonce issues a fresh signing nonce for the wallet. The client signs
// the message template filled with this nonce and posts it to /auth/sign.
func (h *handler) generateNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("address"))

	if nonce, err := h.account.GenerateNonce(ctx, address); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, nonce)
	}
}
