package htlc

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestCreateMsgValidate(t *testing.T) {
	holder := custodytest.NewAddress()
	mint := custodytest.NewAddress()
	commitment := Commit([]byte("swordfish"))

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"native": {
			msg: &CreateMsg{Holder: holder, Amount: 1000, Expiration: 1700000000, Commitment: commitment},
		},
		"token": {
			msg: &CreateMsg{Holder: holder, Amount: 1000, Expiration: 1700000000, Commitment: commitment, Mint: mint, Decimals: 6},
		},
		"missing holder": {
			msg:     &CreateMsg{Amount: 1000, Expiration: 1700000000, Commitment: commitment},
			wantErr: errors.ErrEmpty,
		},
		"zero amount": {
			msg:     &CreateMsg{Holder: holder, Expiration: 1700000000, Commitment: commitment},
			wantErr: errors.ErrAmount,
		},
		"missing expiration": {
			msg:     &CreateMsg{Holder: holder, Amount: 1000, Commitment: commitment},
			wantErr: errors.ErrInput,
		},
		"expiration before epoch": {
			msg: &CreateMsg{Holder: holder, Amount: 1000, Expiration: -86400, Commitment: commitment},
		},
		"missing commitment": {
			msg:     &CreateMsg{Holder: holder, Amount: 1000, Expiration: 1700000000},
			wantErr: errors.ErrEmpty,
		},
		"decimals of native value": {
			msg:     &CreateMsg{Holder: holder, Amount: 1000, Expiration: 1700000000, Commitment: commitment, Decimals: 9},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestSettlementMsgValidate(t *testing.T) {
	escrow := custodytest.NewAddress()
	claimant := custodytest.NewAddress()
	long := bytes.Repeat([]byte{'x'}, maxSecretSize+1)

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"redeem": {
			msg: &RedeemMsg{Escrow: escrow, Claimant: claimant, Secret: []byte("swordfish")},
		},
		"redeem missing escrow": {
			msg:     &RedeemMsg{Claimant: claimant, Secret: []byte("swordfish")},
			wantErr: errors.ErrEmpty,
		},
		"redeem missing claimant": {
			msg:     &RedeemMsg{Escrow: escrow, Secret: []byte("swordfish")},
			wantErr: errors.ErrEmpty,
		},
		"redeem empty secret": {
			msg:     &RedeemMsg{Escrow: escrow, Claimant: claimant},
			wantErr: errors.ErrEmpty,
		},
		"redeem secret too long": {
			msg:     &RedeemMsg{Escrow: escrow, Claimant: claimant, Secret: long},
			wantErr: errors.ErrInput,
		},
		"refund": {
			msg: &RefundMsg{Escrow: escrow, Secret: []byte("swordfish")},
		},
		"refund missing escrow": {
			msg:     &RefundMsg{Secret: []byte("swordfish")},
			wantErr: errors.ErrEmpty,
		},
		"refund empty secret": {
			msg:     &RefundMsg{Escrow: escrow},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestMsgMarshal(t *testing.T) {
	m := RedeemMsg{
		Escrow:   custodytest.NewAddress(),
		Claimant: custodytest.NewAddress(),
		Secret:   []byte("swordfish"),
	}
	raw, err := m.Marshal()
	assert.Nil(t, err)
	// Two addresses, length prefixed secret and a zero mint.
	assert.Equal(t, 32+32+4+9+32, len(raw))

	other := m
	other.Secret = []byte("marlin")
	raw2, err := other.Marshal()
	assert.Nil(t, err)
	if bytes.Equal(raw, raw2) {
		t.Fatal("secret must be part of the signed content")
	}
}
