package gconf

import (
	"bytes"
	"encoding/json"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type MyConfig struct {
	Number int64
	Text   string
}

func (c *MyConfig) Validate() error {
	if c.Number < 0 {
		return errors.Wrap(errors.ErrInput, "negative number")
	}
	return nil
}

func (c *MyConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteInt64(c.Number, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes([]byte(c.Text), true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *MyConfig) Unmarshal(raw []byte) error {
	dec := bin.NewBorshDecoder(raw)
	n, err := dec.ReadInt64(bin.LE)
	if err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	text, err := dec.ReadByteSlice()
	if err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}
	c.Number = n
	c.Text = string(text)
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *MyConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &MyConfig{Number: 852151421, Text: "foobar"},
		},
		"empty": {
			Conf: &MyConfig{},
		},
		"invalid configuration cannot be saved": {
			Conf:        &MyConfig{Number: -1},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got MyConfig
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var conf MyConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &conf))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		opts    string
		want    MyConfig
		wantErr *errors.Error
	}{
		"configuration present": {
			opts: `{"conf": {"mypkg": {"Number": 3, "Text": "three"}}}`,
			want: MyConfig{Number: 3, Text: "three"},
		},
		"configuration of another package": {
			opts:    `{"conf": {"other": {"Number": 3}}}`,
			wantErr: errors.ErrNotFound,
		},
		"no configuration": {
			opts:    `{}`,
			wantErr: errors.ErrNotFound,
		},
		"malformed configuration": {
			opts:    `{"conf": {"mypkg": {"Number": "three"}}}`,
			wantErr: errors.ErrInput,
		},
		"invalid configuration": {
			opts:    `{"conf": {"mypkg": {"Number": -3}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.opts), &opts))

			db := store.MemStore()
			var conf MyConfig
			err := InitConfig(db, opts, "mypkg", &conf)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			var got MyConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
