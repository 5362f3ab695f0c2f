package util

import (
	"reflect"
)

// MakeHandler will wrap fn in a new func of type typ, which must take exactly one argument.
// This lets a generic func(interface{}) be registered as a typed gateway event handler.
func MakeHandler(typ reflect.Type, fn func(interface{})) interface{} {
	return reflect.MakeFunc(typ, func(args []reflect.Value) []reflect.Value {
		defer LogPanic()
		fn(args[0].Interface())
		return nil
	}).Interface()
}
