package htlc

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const confPkg = "htlc"

// Configuration of the escrow extension, kept in the store.
type Configuration struct {
	// ProgramID is the identity all escrow addresses are derived under.
	ProgramID custody.Address `json:"program_id"`
	// RecordRent is the deposit the holder pays for an escrow record.
	RecordRent uint64 `json:"record_rent"`
	// TokenAccountRent is the deposit of a token account created for a
	// vault or for a claimant.
	TokenAccountRent uint64 `json:"token_account_rent"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := custody.ValidateAddress(c.ProgramID); err != nil {
		return errors.Wrap(err, "program id")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	return marshal(&buf, []func() error{
		func() error { return enc.WriteBytes(c.ProgramID.Bytes(), false) },
		func() error { return enc.WriteUint64(c.RecordRent, bin.LE) },
		func() error { return enc.WriteUint64(c.TokenAccountRent, bin.LE) },
	})
}

func (c *Configuration) Unmarshal(raw []byte) error {
	dec := bin.NewBorshDecoder(raw)
	program, err := readAddress(dec)
	if err != nil {
		return err
	}
	recordRent, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "record rent: %s", err)
	}
	accountRent, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "token account rent: %s", err)
	}
	*c = Configuration{
		ProgramID:        program,
		RecordRent:       recordRent,
		TokenAccountRent: accountRent,
	}
	return nil
}

// SaveConfig stores the configuration of the escrow extension.
func SaveConfig(db gconf.Store, c Configuration) error {
	return gconf.Save(db, confPkg, &c)
}

// LoadConfiguration returns the configuration of the escrow extension.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the configuration found in the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
