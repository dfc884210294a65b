package htlc

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/token"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, cashctrl cash.Controller, tokens token.Controller) {
	assets := assets{cash: cashctrl, tokens: tokens}
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, bucket: bucket, assets: assets})
	r.Handle(&RedeemMsg{}, RedeemHandler{auth: auth, bucket: bucket, assets: assets})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth, bucket: bucket, assets: assets})
}

// assets selects the adapter of an escrow.
type assets struct {
	cash   cash.Controller
	tokens token.Controller
}

// adapter returns the adapter for native value when mint is zero and the
// adapter of the mint tokens otherwise.
func (a assets) adapter(db custody.ReadOnlyKVStore, conf *Configuration, mint custody.Address) (Adapter, error) {
	if mint.IsZero() {
		return NewNativeAdapter(a.cash), nil
	}
	m, err := a.tokens.Mint(db, mint)
	if err != nil {
		return nil, err
	}
	return NewTokenAdapter(a.tokens, mint, m.Decimals, conf.TokenAccountRent), nil
}

// CreateHandler locks value in a new escrow.
type CreateHandler struct {
	auth   x.Authenticator
	bucket Bucket
	assets assets
}

var _ custody.Handler = CreateHandler{}

// Check verifies the message is well formed and signed by the holder.
func (h CreateHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver creates the escrow record and funds its vault. The record address
// is returned as the result data.
func (h CreateHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key, nonce, err := DeriveEscrow(conf.ProgramID, msg.Holder, msg.Commitment, !msg.Mint.IsZero())
	if err != nil {
		return nil, err
	}
	escrow := &Escrow{
		Holder:     msg.Holder,
		Amount:     msg.Amount,
		Expiration: msg.Expiration,
		Commitment: msg.Commitment,
		Nonce:      nonce,
	}
	if !msg.Mint.IsZero() {
		mint := msg.Mint
		escrow.Mint = &mint
	}
	// Reusing a commitment fails here with a creation conflict.
	if err := h.bucket.Create(db, key.Bytes(), escrow); err != nil {
		return nil, err
	}
	auth, err := VerifyEscrow(conf.ProgramID, key, escrow)
	if err != nil {
		return nil, err
	}

	if conf.RecordRent > 0 {
		if err := h.assets.cash.MoveCoins(db, msg.Holder, key, conf.RecordRent); err != nil {
			return nil, errors.Wrap(err, "record deposit")
		}
	}
	adapter, err := h.assets.adapter(db, conf, msg.Mint)
	if err != nil {
		return nil, err
	}
	if a, ok := adapter.(TokenAdapter); ok && a.decimals != msg.Decimals {
		return nil, errors.Wrapf(errors.ErrAssetMismatch, "mint has %d decimals, got %d", a.decimals, msg.Decimals)
	}
	if err := adapter.Lock(db, auth, msg.Holder, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "lock")
	}

	custody.GetLogger(ctx).Info("escrow created",
		"escrow", key.String(),
		"holder", msg.Holder.String(),
		"amount", msg.Amount,
		"expiration", msg.Expiration.String())
	return &custody.DeliverResult{Data: key.Bytes()}, nil
}

func (h CreateHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*CreateMsg, *Configuration, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Holder) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "holder signature missing")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, conf, nil
}

// settlement is an escrow loaded for redeem or refund, with the authority
// over its vault.
type settlement struct {
	key     custody.Address
	escrow  *Escrow
	auth    Authority
	adapter Adapter
}

// load returns the escrow stored under key once its derivation and asset
// are verified.
func load(db custody.KVStore, bucket Bucket, assets assets, key, mint custody.Address) (*settlement, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	escrow, err := bucket.GetEscrow(db, key)
	if err != nil {
		return nil, err
	}
	auth, err := VerifyEscrow(conf.ProgramID, key, escrow)
	if err != nil {
		return nil, err
	}
	var recorded custody.Address
	if escrow.Mint != nil {
		recorded = *escrow.Mint
	}
	if !recorded.Equals(mint) {
		return nil, errors.Wrapf(errors.ErrAssetMismatch, "escrow of %s, got %s", assetName(recorded), assetName(mint))
	}
	adapter, err := assets.adapter(db, conf, mint)
	if err != nil {
		return nil, err
	}
	switch held, err := adapter.Held(db, auth); {
	case err != nil:
		return nil, errors.Wrap(err, "vault")
	case held < escrow.Amount:
		return nil, errors.Wrapf(errors.ErrState, "vault holds %d of %d", held, escrow.Amount)
	}
	return &settlement{key: key, escrow: escrow, auth: auth, adapter: adapter}, nil
}

func assetName(mint custody.Address) string {
	if mint.IsZero() {
		return "native value"
	}
	return mint.String()
}

// settle moves the escrowed amount to dest and destroys the escrow. All
// deposits return to the holder.
func (s *settlement) settle(db custody.KVStore, bucket Bucket, cashctrl cash.Controller, dest custody.Address) error {
	if err := s.adapter.Release(db, s.auth, dest, s.escrow.Amount); err != nil {
		return errors.Wrap(err, "release")
	}
	if err := s.adapter.Teardown(db, s.auth, s.escrow.Holder); err != nil {
		return errors.Wrap(err, "teardown")
	}
	if _, err := cashctrl.Drain(db, s.key, s.escrow.Holder); err != nil {
		return errors.Wrap(err, "record deposit")
	}
	return bucket.Delete(db, s.key.Bytes())
}

// RedeemHandler releases an escrow to the claimant presenting the secret.
type RedeemHandler struct {
	auth   x.Authenticator
	bucket Bucket
	assets assets
}

var _ custody.Handler = RedeemHandler{}

// Check verifies the secret and the state of the escrow.
func (h RedeemHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver marks the escrow redeemed, moves the value to the claimant and
// destroys the escrow.
func (h RedeemHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	s.escrow.Redeemed = true
	if err := h.bucket.Put(db, s.key.Bytes(), s.escrow); err != nil {
		return nil, err
	}
	if err := s.settle(db, h.bucket, h.assets.cash, msg.Claimant); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow redeemed",
		"escrow", s.key.String(),
		"claimant", msg.Claimant.String(),
		"amount", s.escrow.Amount)
	return &custody.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver. There is
// no expiration check, a valid secret redeems for as long as the escrow
// exists.
func (h RedeemHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*RedeemMsg, *settlement, error) {
	var msg RedeemMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Claimant) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "claimant signature missing")
	}
	s, err := load(db, h.bucket, h.assets, msg.Escrow, msg.Mint)
	if err != nil {
		return nil, nil, err
	}
	if !s.escrow.Commitment.Matches(msg.Secret) {
		return nil, nil, errors.Wrap(ErrInvalidSecret, "secret does not match the commitment")
	}
	if s.escrow.Redeemed {
		return nil, nil, ErrAlreadyRedeemed
	}
	return &msg, s, nil
}

// RefundHandler returns an expired escrow to its holder.
type RefundHandler struct {
	auth   x.Authenticator
	bucket Bucket
	assets assets
}

var _ custody.Handler = RefundHandler{}

// Check verifies the escrow expired and the secret is correct.
func (h RefundHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver moves the value back to the holder and destroys the escrow.
func (h RefundHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := s.settle(db, h.bucket, h.assets.cash, s.escrow.Holder); err != nil {
		return nil, err
	}

	custody.GetLogger(ctx).Info("escrow refunded",
		"escrow", s.key.String(),
		"holder", s.escrow.Holder.String(),
		"amount", s.escrow.Amount)
	return &custody.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver. An
// escrow that has not expired is reported as such whatever the secret.
func (h RefundHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*settlement, error) {
	var msg RefundMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, ok := x.MainSigner(ctx, h.auth); !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "refund must be signed")
	}
	s, err := load(db, h.bucket, h.assets, msg.Escrow, msg.Mint)
	if err != nil {
		return nil, err
	}
	// Expiry comes before the secret so an early refund is always
	// NotExpired, whatever secret it carries.
	if !custody.IsExpired(ctx, s.escrow.Expiration) {
		return nil, errors.Wrapf(ErrNotExpired, "escrow expires at %s", s.escrow.Expiration)
	}
	if !s.escrow.Commitment.Matches(msg.Secret) {
		return nil, errors.Wrap(ErrInvalidSecret, "secret does not match the commitment")
	}
	if s.escrow.Redeemed {
		return nil, ErrAlreadyRedeemed
	}
	return s, nil
}
