// Package options holds the plumbing shared by the functional-option APIs
// of parser and joiner.
package options

import "errors"

// Apply runs each option against cfg in order and stops at the first
// error. Nil options are skipped.
func Apply[T any, O ~func(*T) error](cfg *T, opts ...O) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return err
		}
	}
	return nil
}

// CountSet reports how many of the given flags are true.
func CountSet(sources ...bool) int {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	return n
}

// ValidateSingleInputSource returns noSourceMsg when none of sources is set
// and multiSourceMsg when more than one is.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	switch CountSet(sources...) {
	case 0:
		return errors.New(noSourceMsg)
	case 1:
		return nil
	default:
		return errors.New(multiSourceMsg)
	}
}
