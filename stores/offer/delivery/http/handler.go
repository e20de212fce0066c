package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/delivery"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/offer"
	authMiddleware "github.com/namebid/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	offer offer.Usecase
}

// New registers offer endpoints.
func New(e *echo.Echo, offer offer.Usecase, auth *authMiddleware.AuthMiddleware, leaderboardCache echo.MiddlewareFunc) {
	h := &handler{offer: offer}

	g := e.Group("/offers")
	g.POST("", h.place, auth.Auth())
	g.GET("", h.search)
	g.DELETE("/:id", h.cancel, auth.Auth())

	e.POST("/listings/:id/offers/:offerId/accept", h.accept, auth.Auth())
	e.GET("/listings/:id/leaderboard", h.leaderboard, leaderboardCache)
}

func (h *handler) place(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	bidder := c.Get("address").(domain.Address)

	p := &offer.PlaceOfferPayload{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if res, err := h.offer.Place(ctx, bidder, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, res)
	}
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ListingId *string         `query:"listingId"`
		Bidder    *domain.Address `query:"bidder"`
		Status    *offer.Status   `query:"status"`
		Offset    int32           `query:"offset"`
		Limit     int32           `query:"limit"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return c.JSON(http.StatusUnprocessableEntity, err)
	}

	if p.Limit == 0 || p.Limit > 100 {
		p.Limit = 100
	}

	opts := []offer.FindAllOptionsFunc{
		offer.WithPagination(p.Offset, p.Limit),
	}

	if p.ListingId != nil {
		opts = append(opts, offer.WithListingId(*p.ListingId))
	}

	if p.Bidder != nil {
		opts = append(opts, offer.WithBidder(*p.Bidder))
	}

	if p.Status != nil {
		if !p.Status.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, offer.WithStatus(*p.Status))
	}

	if res, err := h.offer.FindAll(ctx, opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	bidder := c.Get("address").(domain.Address)

	if res, err := h.offer.Cancel(ctx, bidder, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) accept(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	seller := c.Get("address").(domain.Address)

	if res, err := h.offer.Accept(ctx, seller, c.Param("id"), c.Param("offerId")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) leaderboard(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.offer.Leaderboard(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
