package sigs

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData keeps the replay protection state of a single signer.
type UserData struct {
	Pubkey   ed25519.PublicKey
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

// Validate ensures the sequence is sane.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.Pubkey) == 0 {
		return errors.Wrap(ErrInvalidSequence, "needs pubkey")
	}
	if len(u.Pubkey) != 0 && len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrModel, "invalid pubkey length")
	}
	return nil
}

// Copy makes a new UserData with the same content
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   append(ed25519.PublicKey(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

// Marshal serializes the sequence followed by the public key.
func (u *UserData) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteInt64(u.Sequence, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(u.Pubkey, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal loads the state serialized with Marshal.
func (u *UserData) Unmarshal(raw []byte) error {
	dec := bin.NewBorshDecoder(raw)
	seq, err := dec.ReadInt64(bin.LE)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "sequence: %s", err)
	}
	pub, err := dec.ReadByteSlice()
	if err != nil {
		return errors.Wrapf(errors.ErrState, "pubkey: %s", err)
	}
	u.Sequence = seq
	u.Pubkey = nil
	if len(pub) > 0 {
		u.Pubkey = ed25519.PublicKey(pub)
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// SetPubkey will try to set the Pubkey or panic on an illegal operation.
// It is illegal to reset an already set key
func (u *UserData) SetPubkey(pubkey ed25519.PublicKey) {
	if len(u.Pubkey) != 0 {
		panic("Cannot change pubkey for a user")
	}
	u.Pubkey = pubkey
}

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a pubkey
func NewUser(pubkey ed25519.PublicKey) orm.Object {
	var key []byte
	if len(pubkey) != 0 {
		key = custody.AddressFromPubKey(pubkey).Bytes()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db custody.KVStore, pubkey ed25519.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, custody.AddressFromPubKey(pubkey).Bytes())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}
