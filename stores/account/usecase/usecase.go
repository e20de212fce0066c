package usecase

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/ethereum"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/account"
)

const (
	nonceRange   = int32(9999999)
	invalidNonce = int32(-1)
)

type AccountUseCaseCfg struct {
	Repo         account.Repo
	SignatureMsg string
}

type impl struct {
	repo         account.Repo
	signatureMsg string
}

// New creates account usecase
func New(cfg *AccountUseCaseCfg) account.Usecase {
	return &impl{
		repo:         cfg.Repo,
		signatureMsg: cfg.SignatureMsg,
	}
}

func (im *impl) Get(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	a, err := im.repo.Get(c, address)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"address": address,
				"err":     err,
			}).Error("repo.Get failed")
		}
		return nil, err
	}
	return a, nil
}

func (im *impl) Create(c ctx.Ctx, address domain.Address) (*account.Account, error) {
	now := time.Now()
	new := &account.Account{
		Address:   address,
		Nonce:     invalidNonce,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := im.repo.Insert(c, new); err != nil {
		c.WithField("err", err).Error("repo.Insert failed")
		return nil, err
	}
	return new, nil
}

func (im *impl) GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error) {
	c = ctx.WithValue(c, "address", address)
	if _, err := im.Get(c, address); err == domain.ErrNotFound {
		// first contact with this wallet, create an empty account
		if _, err := im.Create(c, address); err != nil {
			c.WithField("err", err).Error("im.Create account failed")
			return 0, err
		}
		c.Info("created new account")
	} else if err != nil {
		c.WithField("err", err).Error("get account failed")
		return 0, err
	}

	nonce := im.genNonce()
	if err := im.repo.Update(c, address, &account.Updater{
		Nonce:     nonce,
		UpdatedAt: time.Now(),
	}); err != nil {
		c.WithField("err", err).Error("repo.Update failed")
		return 0, err
	}
	return nonce, nil
}

func (im *impl) ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"address":   address,
		"signature": signature,
	})

	a, err := im.repo.Get(c, address)
	if err != nil {
		c.WithField("err", err).Error("repo.Get failed")
		return err
	}
	if a.Nonce == invalidNonce {
		return domain.ErrInvalidNonce
	}

	// a nonce is single use, burn it no matter how validation goes
	defer im.repo.Update(c, address, &account.Updater{
		Nonce:     invalidNonce,
		UpdatedAt: time.Now(),
	})

	msg := im.makeMessageWithNonce(strconv.Itoa(int(a.Nonce)))
	if isValid, err := ethereum.ValidateMsgSignature(msg, signature, string(address)); err != nil {
		c.WithField("err", err).Error("ValidateMsgSignature failed")
		return err
	} else if !isValid {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (im *impl) makeMessageWithNonce(nonce string) []byte {
	return []byte(fmt.Sprintf(im.signatureMsg, nonce))
}

func (im *impl) genNonce() int32 {
	return rand.Int31n(nonceRange)
}
