package assert

import (
	"testing"

	"github.com/iov-one/treasury/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrNotFound,
			ErrGot:   errors.ErrNotFound,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrNotFound,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrAlreadySigned,
			ErrGot:   errors.Wrap(errors.ErrAlreadySigned, "test"),
			WantFail: false,
		},
		"different": {
			ErrWant:  errors.ErrAlreadySigned,
			ErrGot:   errors.ErrAlreadyExecuted,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestNil(t *testing.T) {
	var nilErr *errors.Error
	cases := map[string]struct {
		Value    interface{}
		WantFail bool
	}{
		"untyped nil":   {Value: nil, WantFail: false},
		"typed nil":     {Value: nilErr, WantFail: false},
		"non nil error": {Value: errors.ErrNotFound, WantFail: true},
		"integer":       {Value: 4, WantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			Nil(mock, tc.Value)
			if failed := mock.failcalls > 0; failed != tc.WantFail {
				t.Fatalf("unexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

// tmock mocks testing.TB and only counts failure calls. It ignores all other
// input.
type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Fatal(args ...interface{}) {
	t.TB.Log(args...)
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.TB.Logf(s, args...)
	t.failcalls++
}
