package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/delivery"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/listing"
	authMiddleware "github.com/namebid/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	listing listing.Usecase
}

// New registers listing endpoints.
func New(e *echo.Echo, listing listing.Usecase, auth *authMiddleware.AuthMiddleware, priceQuoteCache echo.MiddlewareFunc) {
	h := &handler{listing: listing}

	g := e.Group("/listings")
	g.POST("", h.create, auth.Auth())
	g.GET("", h.search)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delist, auth.Auth())
	g.GET("/:id/price", h.currentPrice, priceQuoteCache)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	seller := c.Get("address").(domain.Address)

	p := &listing.CreateListingPayload{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if res, err := h.listing.Create(ctx, seller, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, res)
	}
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Status        *listing.Status `query:"status"`
		Seller        *domain.Address `query:"seller"`
		ChainId       *domain.ChainId `query:"chainId"`
		TokenContract *domain.Address `query:"tokenContract"`
		TokenId       *domain.TokenId `query:"tokenId"`
		Offset        int32           `query:"offset"`
		Limit         int32           `query:"limit"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if p.Limit == 0 || p.Limit > 100 {
		p.Limit = 100
	}

	opts := []listing.FindAllOptionsFunc{
		listing.WithPagination(p.Offset, p.Limit),
	}

	if p.Status != nil {
		if !p.Status.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, listing.WithStatus(*p.Status))
	}

	if p.Seller != nil {
		opts = append(opts, listing.WithSeller(*p.Seller))
	}

	if p.ChainId != nil && p.TokenContract != nil && p.TokenId != nil {
		opts = append(opts, listing.WithToken(*p.ChainId, *p.TokenContract, *p.TokenId))
	}

	if res, err := h.listing.FindAll(ctx, opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.listing.Get(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	seller := c.Get("address").(domain.Address)

	if res, err := h.listing.Delist(ctx, seller, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// currentPrice quotes the decaying auction price. The response is cached for a
// few seconds, QuotedAt tells the client how stale the quote is.
func (h *handler) currentPrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.listing.CurrentPrice(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
