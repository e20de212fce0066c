package account

import (
	"time"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
)

// Account is a wallet account stored in database. It exists mainly to carry
// the signing nonce used by the auth flow.
type Account struct {
	Address   domain.Address `json:"address" bson:"address"`
	Nonce     int32          `json:"-" bson:"nonce"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Updater to update account info
type Updater struct {
	Nonce     int32     `json:"-" bson:"nonce"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt,omitempty"`
}

// Usecase is account usecase
type Usecase interface {
	Create(c ctx.Ctx, address domain.Address) (*Account, error)
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error)
	ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error
}

// Repo is account repo
type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Insert(c ctx.Ctx, account *Account) error
	Update(c ctx.Ctx, address domain.Address, updater *Updater) error
}
