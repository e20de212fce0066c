package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "invalid address",
			address:    "0x000",
			expIsValid: false,
		},
		{
			desc:       "valid address - real address",
			address:    "0x939ae6A4C8dfDBB1f7085189574F0A938013952A",
			expIsValid: true,
		},
		{
			desc:       "valid address - lower case",
			address:    "0x939ae6a4c8dfdbb1f7085189574f0a938013952b",
			expIsValid: true,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}

func (s *ValidatorTestSuite) TestChainIdValidation() {
	type payload struct {
		ChainId string `validate:"chainId"`
	}

	v := validator.New()
	NewCustomValidator(v)

	tests := []struct {
		desc     string
		chainId  string
		expValid bool
	}{
		{
			desc:     "eip155 mainnet",
			chainId:  "eip155:1",
			expValid: true,
		},
		{
			desc:     "missing reference",
			chainId:  "eip155",
			expValid: false,
		},
		{
			desc:     "bare number",
			chainId:  "1",
			expValid: false,
		},
	}
	for _, t := range tests {
		err := v.Struct(payload{ChainId: t.chainId})
		if t.expValid {
			s.NoError(err, t.desc)
		} else {
			s.Error(err, t.desc)
		}
	}
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
