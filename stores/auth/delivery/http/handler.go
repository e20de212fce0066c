package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/delivery"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/account"
)

type authHandler struct {
	auth               domain.AuthUsecase
	account            account.Usecase
	signingMsgTemplate string
}

// New registers auth endpoints.
func New(e *echo.Echo, auth domain.AuthUsecase, account account.Usecase, template string) {
	handler := &authHandler{
		auth:               auth,
		account:            account,
		signingMsgTemplate: template,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
	g.GET("/signingMsgTemplate", handler.getSigningMsgTemplate)
}

// sign validates the wallet signature over the current nonce and issues an
// access token.
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,ethAddress"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.account.ValidateSignature(ctx, p.Address, p.Signature); err != nil {
		ctx.WithField("err", err).Error("account.ValidateSignature failed")
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
	}

	if tkn, err := h.auth.SignToken(ctx, p.Address); err != nil {
		ctx.WithField("err", err).Error("auth.SignToken failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getSigningMsgTemplate returns the template clients sign, %s is replaced with
// the nonce fetched from /accounts/nonce.
func (h *authHandler) getSigningMsgTemplate(c echo.Context) error {
	res := struct {
		Msg string `json:"template"`
	}{
		Msg: h.signingMsgTemplate,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
