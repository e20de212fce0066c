package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain"
	"github.com/namebid/goapi/domain/account"
	"github.com/namebid/goapi/domain/account/mocks"
)

const testSignatureMsg = "Welcome to NameBid!\n\nNonce: %s"

type accountUsecaseSuite struct {
	suite.Suite

	repo *mocks.Repo
	im   account.Usecase
}

func TestAccountUsecaseSuite(t *testing.T) {
	suite.Run(t, new(accountUsecaseSuite))
}

func (s *accountUsecaseSuite) SetupTest() {
	s.repo = &mocks.Repo{}
	s.im = New(&AccountUseCaseCfg{
		Repo:         s.repo,
		SignatureMsg: testSignatureMsg,
	})
}

func (s *accountUsecaseSuite) TestGenerateNonceCreatesAccount() {
	ctx := ctx.Background()
	address := domain.Address("0x1111111111111111111111111111111111111111")

	s.repo.On("Get", mock.Anything, address).Return(nil, domain.ErrNotFound).Once()
	s.repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	s.repo.On("Update", mock.Anything, address, mock.Anything).Return(nil).Once()

	nonce, err := s.im.GenerateNonce(ctx, address)
	s.NoError(err)
	s.True(nonce >= 0 && nonce < nonceRange)
	s.repo.AssertExpectations(s.T())
}

func (s *accountUsecaseSuite) TestValidateSignature() {
	ctx := ctx.Background()

	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())

	nonce := int32(1234567)
	s.repo.On("Get", mock.Anything, address).Return(&account.Account{
		Address:   address.ToLower(),
		Nonce:     nonce,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil).Once()
	s.repo.On("Update", mock.Anything, address, mock.MatchedBy(func(u *account.Updater) bool {
		return u.Nonce == invalidNonce
	})).Return(nil).Once()

	msg := []byte(fmt.Sprintf(testSignatureMsg, "1234567"))
	sig, err := crypto.Sign(accounts.TextHash(msg), key)
	s.Require().NoError(err)
	sig[64] += 27

	s.NoError(s.im.ValidateSignature(ctx, address, hexutil.Encode(sig)))
	s.repo.AssertExpectations(s.T())
}

func (s *accountUsecaseSuite) TestValidateSignatureWrongSigner() {
	ctx := ctx.Background()

	key, err := crypto.GenerateKey()
	s.Require().NoError(err)
	otherKey, err := crypto.GenerateKey()
	s.Require().NoError(err)
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())

	s.repo.On("Get", mock.Anything, address).Return(&account.Account{
		Address: address.ToLower(),
		Nonce:   42,
	}, nil).Once()
	s.repo.On("Update", mock.Anything, address, mock.Anything).Return(nil).Once()

	msg := []byte(fmt.Sprintf(testSignatureMsg, "42"))
	sig, err := crypto.Sign(accounts.TextHash(msg), otherKey)
	s.Require().NoError(err)
	sig[64] += 27

	s.Equal(domain.ErrInvalidSignature, s.im.ValidateSignature(ctx, address, hexutil.Encode(sig)))
}

func (s *accountUsecaseSuite) TestValidateSignatureWithoutNonce() {
	ctx := ctx.Background()
	address := domain.Address("0x2222222222222222222222222222222222222222")

	s.repo.On("Get", mock.Anything, address).Return(&account.Account{
		Address: address,
		Nonce:   invalidNonce,
	}, nil).Once()

	err := s.im.ValidateSignature(ctx, address, "0xdeadbeef")
	s.Equal(domain.ErrInvalidNonce, err)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}
