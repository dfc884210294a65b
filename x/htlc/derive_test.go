package htlc

import (
	"crypto/sha256"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestCommit(t *testing.T) {
	c := Commit([]byte("swordfish"))
	want := sha256.Sum256([]byte("swordfish"))
	assert.Equal(t, want[:], c[:])

	assert.Equal(t, true, c.Matches([]byte("swordfish")))
	assert.Equal(t, false, c.Matches([]byte("Swordfish")))
	assert.Equal(t, false, c.Matches(nil))
	assert.Equal(t, false, c.IsZero())
	assert.Equal(t, true, Commitment{}.IsZero())
}

func TestParseCommitment(t *testing.T) {
	c := Commit([]byte("swordfish"))

	cases := map[string]struct {
		enc     string
		want    Commitment
		wantErr *errors.Error
	}{
		"valid": {
			enc:  c.String(),
			want: c,
		},
		"not hex": {
			enc:     "zz",
			wantErr: errors.ErrInput,
		},
		"too short": {
			enc:     "abcd",
			wantErr: errors.ErrInput,
		},
		"empty": {
			enc:     "",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseCommitment(tc.enc)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDeriveEscrow(t *testing.T) {
	program := custodytest.NewAddress()
	holder := custodytest.NewAddress()
	commitment := Commit([]byte("swordfish"))

	a1, n1, err := DeriveEscrow(program, holder, commitment, false)
	assert.Nil(t, err)
	a2, n2, err := DeriveEscrow(program, holder, commitment, false)
	assert.Nil(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, n1, n2)

	others := map[string]struct {
		program, holder bool
		secret          string
		token           bool
	}{
		"other holder":  {holder: true, secret: "swordfish"},
		"other program": {program: true, secret: "swordfish"},
		"other secret":  {secret: "marlin"},
		"token escrow":  {secret: "swordfish", token: true},
	}
	for testName, tc := range others {
		t.Run(testName, func(t *testing.T) {
			p, h := program, holder
			if tc.program {
				p = custodytest.NewAddress()
			}
			if tc.holder {
				h = custodytest.NewAddress()
			}
			addr, _, err := DeriveEscrow(p, h, Commit([]byte(tc.secret)), tc.token)
			assert.Nil(t, err)
			if addr.Equals(a1) {
				t.Fatal("derivation must depend on all seeds")
			}
		})
	}
}

func TestVerifyEscrow(t *testing.T) {
	program := custodytest.NewAddress()
	holder := custodytest.NewAddress()
	mint := custodytest.NewAddress()
	commitment := Commit([]byte("swordfish"))

	nativeKey, nativeNonce, err := DeriveEscrow(program, holder, commitment, false)
	assert.Nil(t, err)
	tokenKey, tokenNonce, err := DeriveEscrow(program, holder, commitment, true)
	assert.Nil(t, err)

	native := func() *Escrow {
		return &Escrow{Holder: holder, Amount: 1, Expiration: 1, Commitment: commitment, Nonce: nativeNonce}
	}

	cases := map[string]struct {
		key     func() *Escrow
		addr    custody.Address
		wantErr *errors.Error
	}{
		"native": {
			key:  native,
			addr: nativeKey,
		},
		"token": {
			key: func() *Escrow {
				return &Escrow{Holder: holder, Amount: 1, Expiration: 1, Commitment: commitment, Nonce: tokenNonce, Mint: &mint}
			},
			addr: tokenKey,
		},
		"native record under token key": {
			key:     native,
			addr:    tokenKey,
			wantErr: errors.ErrUnauthorized,
		},
		"holder replaced": {
			key: func() *Escrow {
				e := native()
				e.Holder = custodytest.NewAddress()
				return e
			},
			addr:    nativeKey,
			wantErr: errors.ErrUnauthorized,
		},
		"commitment replaced": {
			key: func() *Escrow {
				e := native()
				e.Commitment = Commit([]byte("marlin"))
				return e
			},
			addr:    nativeKey,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth, err := VerifyEscrow(program, tc.addr, tc.key())
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.addr, auth.Escrow())
				assert.Nil(t, auth.validate())
			}
		})
	}
}

func TestAuthorityMustBeDerived(t *testing.T) {
	var auth Authority
	assert.IsErr(t, errors.ErrUnauthorized, auth.validate())

	_, err := NewNativeAdapter(nil).Vault(auth)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = NewTokenAdapter(nil, custodytest.NewAddress(), 0, 0).Vault(auth)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestNativeVault(t *testing.T) {
	program := custodytest.NewAddress()
	escrow := custodytest.NewAddress()

	v1, err := NativeVault(program, escrow)
	assert.Nil(t, err)
	v2, err := NativeVault(program, escrow)
	assert.Nil(t, err)
	assert.Equal(t, v1, v2)
	if v1.Equals(escrow) {
		t.Fatal("vault must not be the escrow record")
	}
}
