package lambda

import (
	"iter"
	"slices"

	"github.com/chazu/wrapgen/descriptor"
)

// Idioms are the C++ spellings the renderer emits.
type Idioms struct {
	Indent   string // one level of body indentation
	Tuple    string // multi-value return constructor
	Bytes    string // byte-string constructor for Bytes returns
	Receiver string // name of the injected receiver parameter
}

// DefaultIdioms targets pybind11.
var DefaultIdioms = Idioms{
	Indent:   "  ",
	Tuple:    "std::make_tuple",
	Bytes:    "py::bytes",
	Receiver: "self",
}

// WithDefaults fills empty fields from DefaultIdioms.
func (id Idioms) WithDefaults() Idioms {
	if id.Indent == "" {
		id.Indent = DefaultIdioms.Indent
	}
	if id.Tuple == "" {
		id.Tuple = DefaultIdioms.Tuple
	}
	if id.Bytes == "" {
		id.Bytes = DefaultIdioms.Bytes
	}
	if id.Receiver == "" {
		id.Receiver = DefaultIdioms.Receiver
	}
	return id
}

// Synthesizer renders wrappers with a fixed set of idioms.
type Synthesizer struct {
	Idioms Idioms
}

// NewSynthesizer returns a Synthesizer; empty idiom fields take defaults.
func NewSynthesizer(id Idioms) *Synthesizer {
	return &Synthesizer{Idioms: id.WithDefaults()}
}

// Synthesize renders a complete registration statement for fn through a
// lambda, using DefaultIdioms.
func Synthesize(module string, fn *descriptor.Function, cls *descriptor.Class, suffix string) []string {
	return NewSynthesizer(DefaultIdioms).Synthesize(module, fn, cls, suffix)
}

// Synthesize collects Lines into a slice.
func (s *Synthesizer) Synthesize(module string, fn *descriptor.Function, cls *descriptor.Class, suffix string) []string {
	return slices.Collect(s.Lines(module, fn, cls, suffix))
}

// Lines yields the registration statement line by line: the opening
// `module.def("name", [](params) {`, one declaration per return, the
// call, the return, and the closing brace followed by suffix.
func (s *Synthesizer) Lines(module string, fn *descriptor.Function, cls *descriptor.Class, suffix string) iter.Seq[string] {
	id := s.Idioms
	return func(yield func(string) bool) {
		header := module + "." + RegistrationDef(fn) + `("` + fn.Display() + `", [](` +
			id.renderParams(fn, cls) + ") {"
		if !yield(header) {
			return
		}

		for i, r := range fn.Returns {
			if !yield(id.Indent + r.Type + " " + retVar(i) + "{};") {
				return
			}
		}

		call := CallExpr(fn, cls, id.Receiver) + "(" + PlanCallArguments(fn) + ");"
		if fn.DirectReturn() {
			call = retVar(0) + " = " + call
		}
		if !yield(id.Indent + call) {
			return
		}

		for _, line := range id.renderReturn(fn) {
			if !yield(id.Indent + line) {
				return
			}
		}

		yield(Closing(suffix))
	}
}

// RegistrationDef returns the pybind11 registration method for fn.
func RegistrationDef(fn *descriptor.Function) string {
	if fn.IsClassMethod {
		return "def_static"
	}
	return "def"
}

// CallExpr returns the callee expression: receiver.Name for bound
// instance methods, Name otherwise.
func CallExpr(fn *descriptor.Function, cls *descriptor.Class, receiver string) string {
	if bound(fn, cls) {
		return receiver + "." + fn.Name
	}
	return fn.Name
}

// Closing closes the lambda and appends the registration suffix, which
// is passed through unchanged and is expected to close the registration
// call. An empty suffix means there is nothing to append, so Closing
// closes the call itself and returns "});".
func Closing(suffix string) string {
	if suffix == "" {
		return "});"
	}
	return "}, " + suffix
}
