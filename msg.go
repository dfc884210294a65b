package custody

import (
	"reflect"

	"github.com/iov-one/custody/errors"
)

// AssignMsg sets the value of given message to the destination. Destination
// must be a pointer to a message of the same type, or a pointer to a value
// that message can be dereferenced to.
func AssignMsg(msg Msg, destination interface{}) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		if src.IsNil() {
			return errors.Wrap(errors.ErrState, "nil message")
		}
		src = src.Elem()
	}
	if src.Type() != dst.Elem().Type() {
		return errors.Wrapf(errors.ErrType, "want %s message, got %s", dst.Elem().Type(), src.Type())
	}
	dst.Elem().Set(src)
	return nil
}
