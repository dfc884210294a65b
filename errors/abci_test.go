package errors

import (
	"fmt"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain weave error": {
			err:      ErrUnauthorized,
			wantLog:  "unauthorized",
			wantCode: ErrUnauthorized.code,
		},
		"wrapped weave error": {
			err:      Wrap(Wrap(ErrAssetMismatch, "mint"), "redeem"),
			wantLog:  "redeem: mint: asset mismatch",
			wantCode: ErrAssetMismatch.code,
		},
		"nil is empty message": {
			err:      nil,
			wantLog:  "",
			wantCode: SuccessABCICode,
		},
		"nil weave error is not an error": {
			err:      (*Error)(nil),
			wantLog:  "",
			wantCode: SuccessABCICode,
		},
		"stdlib is generic message": {
			err:      fmt.Errorf("stdlib error"),
			wantLog:  "internal error",
			wantCode: internalABCICode,
		},
		"stdlib returns error message in debug mode": {
			err:      fmt.Errorf("stdlib error"),
			debug:    true,
			wantLog:  "stdlib error",
			wantCode: internalABCICode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("reduct must not pass through panic error")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("reduct must pass through panic error in debug mode")
	}
	if err := Redact(ErrNotFound, false); !ErrNotFound.Is(err) {
		t.Error("registered errors must be passed through")
	}
}
