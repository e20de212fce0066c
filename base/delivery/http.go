package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// statusOf maps domain errors to http statuses so handlers can pass errors
// straight through.
func statusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrDuplicateListing) ||
		errors.Is(err, domain.ErrDuplicateActiveOffer) ||
		errors.Is(err, query.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrAuctionNotStarted) ||
		errors.Is(err, domain.ErrAuctionEnded) ||
		errors.Is(err, domain.ErrOfferBelowReserve) ||
		errors.Is(err, domain.ErrOfferNotOnListing) ||
		errors.Is(err, domain.ErrCurrencyMismatch) ||
		errors.Is(err, domain.ErrInvalidCurrency) ||
		errors.Is(err, domain.ErrInvalidNumberFormat) ||
		errors.Is(err, domain.ErrInvalidChainId) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrBadParamInput) ||
		domain.IsValidationError(err):
		return http.StatusBadRequest
	}
	return fallback
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = statusOf(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
