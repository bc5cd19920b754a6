package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Field attaches err to the named field of a model. Nested fields use dot
// notation, for example "Stream.Amount". A nil err gives nil so that the
// result of a validation can be passed in directly.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldErr{name: name, desc: description, parent: err}
}

// AppendField is Append(errs, Field(name, err, "")).
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldErr struct {
	name   string
	desc   string
	parent error
}

func (e *fieldErr) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.name, e.parent)
}

func (e *fieldErr) Cause() error  { return e.parent }
func (e *fieldErr) Field() string { return e.name }

// FieldErrors collects the errors attached to the named field anywhere in
// err, including inside errors grouped by Append.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(interface{ Field() string }); ok && f.Field() == name {
			return append(found, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				found = append(found, FieldErrors(e, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}

// unpacker is implemented by errors grouping several others.
type unpacker interface {
	Unpack() []error
}

// Append groups errs, skipping nils and flattening nested groups. It
// returns nil for no error and the error itself for a single one.
func Append(errs ...error) error {
	var all errorList
	for _, err := range errs {
		switch e := err.(type) {
		case errorList:
			all = append(all, e...)
		default:
			if !isNilErr(err) {
				all = append(all, err)
			}
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

// errorList reports the ABCI code of its first member.
type errorList []error

func (l errorList) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(l))
	for _, err := range l {
		fmt.Fprintf(&b, "\n\t* %s", err)
	}
	return b.String()
}

func (l errorList) Unpack() []error { return l }
func (l errorList) Cause() error    { return l[0] }
