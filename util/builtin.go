package util

import (
	"log"
	"runtime/debug"
	"strings"
	"time"
)

//
// Additions to Go's std-lib's builtin
//

type retryFunction func() ([]byte, error)

func LogPanic() {
	if x := recover(); x != nil {
		// recovering from a panic; x contains whatever was passed to panic()
		log.Printf("panic: %v\n%s\n", x, debug.Stack())
	}
}

// RetryFunc will re-try fn by n number of times, in addition to one regular try
func RetryFunc(fn retryFunction, n int, delayMs time.Duration) ([]byte, error) {
	if n < 0 {
		n = 0
	}

	for n > 0 {
		b, err := fn()
		if err == nil {
			return b, err
		}
		n--

		// Wait before re-trying, if we have re-tries left.
		if n > 0 && delayMs > 0 {
			time.Sleep(delayMs * time.Millisecond)
		}
	}

	return fn()
}

// SliceContains will return if slice s contains e
func SliceContains[T comparable](s []T, e T) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// SliceRemove will remove m from s
func SliceRemove[T comparable](s []T, m T) []T {
	ns := make([]T, 0)
	for _, in := range s {
		if in != m {
			ns = append(ns, in)
		}
	}
	return ns
}

// SliceReverse will reverse the order of s
func SliceReverse[S ~[]T, T any](s S) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// SlicesCondition will return if all values of []T match condition c
func SlicesCondition[T any](s []T, c func(s T) bool) bool {
	for _, v := range s {
		if !c(v) {
			return false
		}
	}
	return true
}

// SliceJoin will join any slice based on the property or value that c returns
func SliceJoin[T any](s []T, sep string, c func(s T) *string) string {
	ns := make([]string, 0)
	for _, v := range s {
		if n := c(v); n != nil {
			ns = append(ns, *n)
		}
	}
	return strings.Join(ns, sep)
}

// SliceUnique will return s without duplicates, keeping the first occurrence of each element
func SliceUnique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	ns := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ns = append(ns, v)
	}
	return ns
}
