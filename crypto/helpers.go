package crypto

import (
	"os"

	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// SaveKey writes the raw private key into a new file readable only by its
// owner. An existing file is never overwritten.
func SaveKey(path string, key ed25519.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(key))
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
		}
		return errors.Wrapf(errors.ErrInput, "cannot create private key file: %s", err)
	}
	if _, err := fd.Write(key); err != nil {
		fd.Close()
		return errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot close private key file: %s", err)
	}
	return nil
}

// LoadKey reads a private key written by SaveKey.
func LoadKey(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}
