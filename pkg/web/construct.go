package web

import (
	"errors"
	"reflect"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/errs"
)

var errNotStructPointer = errors.New("type must be a pointer to a struct")

// construct allocates a zero T, which must be a struct pointer, and
// attaches its context below parent.
func construct[T Node](parent *Context, root element.Root) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return zero, errs.ConstructFailed(t.String(), errNotStructPointer)
	}
	obj, ok := reflect.New(t.Elem()).Interface().(T)
	if !ok {
		return zero, errs.ConstructFailed(t.String(), errNotStructPointer)
	}
	obj.node().adopt(parent, root, t.Elem().Name(), t.String())
	return obj, nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
