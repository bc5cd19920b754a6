// Package assert holds the few assertions the tests of this module share.
// Every failure stops the test.
package assert

import (
	"reflect"

	"github.com/iov-one/flow/errors"
)

// Tester is implemented by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil requires value to be nil, including a typed nil. Errors are printed
// with their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("no panic")
		}
	}()
	fn()
}

// IsErr requires got to be of the kind want. A nil want requires no error.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	switch {
	case want.Is(got):
	case want == nil:
		t.Fatalf("want no error, got %+v", got)
	default:
		t.Fatalf("want %q error, got %+v", want, got)
	}
}
