package settlement

import (
	"net/http"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
)

var (
	ErrStatusCodeNotOk = xerrors.New("http.status != 200")
)

// AcceptOrderPayload asks the settlement service to execute the on-chain
// transfer for an accepted offer.
type AcceptOrderPayload struct {
	ListingId     string           `json:"listingId"`
	OfferId       string           `json:"offerId"`
	Seller        domain.Address   `json:"seller"`
	Buyer         domain.Address   `json:"buyer"`
	ChainId       domain.ChainId   `json:"chainId"`
	TokenContract domain.Address   `json:"tokenContract"`
	TokenId       domain.TokenId   `json:"tokenId"`
	Price         domain.PriceInfo `json:"price"`
}

type AcceptOrderResult struct {
	OrderId         string         `json:"orderId"`
	TransactionHash *domain.TxHash `json:"transactionHash,omitempty"`
}

// Client talks to the settlement service. Acceptance treats settlement as
// best effort, callers must not fail the acceptance when this errors.
type Client interface {
	AcceptOrder(bCtx.Ctx, *AcceptOrderPayload) (*AcceptOrderResult, error)
}

type ClientCfg struct {
	HttpClient http.Client
	Endpoint   string
	Timeout    time.Duration
	Apikey     string
}
