package htlc

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestConfigurationGenesis(t *testing.T) {
	program := custodytest.NewAddress()

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    *Configuration
	}{
		"configured": {
			genesis: `{"conf": {"htlc": {"program_id": "` + program.String() + `", "record_rent": 1461600, "token_account_rent": 2039280}}}`,
			want: &Configuration{
				ProgramID:        program,
				RecordRent:       1461600,
				TokenAccountRent: 2039280,
			},
		},
		"missing program": {
			genesis: `{"conf": {"htlc": {"record_rent": 1}}}`,
			wantErr: errors.ErrEmpty,
		},
		"missing configuration": {
			genesis: `{"conf": {}}`,
			wantErr: errors.ErrNotFound,
		},
		"malformed": {
			genesis: `{"conf": {"htlc": {"record_rent": "many"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.want == nil {
				return
			}
			conf, err := LoadConfiguration(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, conf)
		})
	}
}
