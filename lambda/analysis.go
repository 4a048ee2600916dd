// Package lambda decides whether a callable can be registered with
// pybind11 directly and, when it cannot, renders the C++ lambda that
// adapts it.
//
// Everything here is a pure function of its descriptor arguments and is
// safe to call from any number of goroutines.
package lambda

import (
	"strings"

	"github.com/chazu/wrapgen/descriptor"
)

// Reason names one condition that forces a wrapper.
type Reason string

const (
	ReasonReturnsSelf        Reason = "returns-self"
	ReasonImplicitConversion Reason = "implicit-conversion"
	ReasonOutParams          Reason = "out-params"
	ReasonBytesReturn        Reason = "bytes-return"
)

// NeedsWrapper reports whether fn must be registered through a
// synthesized lambda rather than by address.
func NeedsWrapper(fn *descriptor.Function) bool {
	return len(Reasons(fn)) > 0
}

// Reasons lists every condition that forces a wrapper for fn, in a fixed
// order. It is empty when direct registration suffices.
func Reasons(fn *descriptor.Function) []Reason {
	var reasons []Reason
	if fn.Postproc.ReturnsReceiver() {
		reasons = append(reasons, ReasonReturnsSelf)
	}
	if needsImplicitConversion(fn) {
		reasons = append(reasons, ReasonImplicitConversion)
	}
	if hasOutParams(fn) {
		reasons = append(reasons, ReasonOutParams)
	}
	if fn.HasBytesReturn() {
		reasons = append(reasons, ReasonBytesReturn)
	}
	return reasons
}

// hasOutParams reports whether at least one return travels through a
// pointer argument.
func hasOutParams(fn *descriptor.Function) bool {
	n := len(fn.Returns)
	return n >= 2 || (n == 1 && fn.VoidCall)
}

// needsImplicitConversion detects a parameter whose call-site type differs
// from its declared type through an ownership-transferring conversion.
// Only single-parameter functions are examined; wider detection changes
// generated output nothing downstream has been checked against.
func needsImplicitConversion(fn *descriptor.Function) bool {
	if len(fn.Params) != 1 {
		return false
	}
	p := fn.Params[0]
	if !usableExactType(p.ExactType) {
		return false
	}
	return BareType(p.ExactType) != BareType(p.DeclaredType) &&
		p.ToPtrConversion && p.ToUniquePtrConversion
}

// usableExactType rejects exact types that carry no name once
// qualifiers and markers are gone (empty, "::", "const &").
func usableExactType(t string) bool {
	bare := strings.Trim(BareType(t), ": ")
	return bare != ""
}

// BareType strips a leading const and a trailing single-character
// reference or pointer token.
// e.g. "const Foo &" → "Foo", "Foo *" → "Foo"
//
// It only understands whitespace-separated spellings; anything else comes
// back with its whitespace normalized.
func BareType(t string) string {
	tokens := strings.Fields(t)
	if len(tokens) > 0 && tokens[0] == "const" {
		tokens = tokens[1:]
	}
	if n := len(tokens); n > 0 && (tokens[n-1] == "&" || tokens[n-1] == "*") {
		tokens = tokens[:n-1]
	}
	return strings.Join(tokens, " ")
}
