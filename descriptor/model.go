// Package descriptor holds the immutable records that describe a C++
// callable to the binding generator, and the loaders that produce them.
package descriptor

import "strings"

// Function describes one callable to be registered.
type Function struct {
	Name          string // C++ identifier used at the call site
	DisplayName   string // Python-facing name; Name when empty
	Params        []Param
	Returns       []Return
	IsClassMethod bool
	VoidCall      bool // the wrapped callable returns nothing natively
	Postproc      Postproc
}

// Param describes one declared parameter.
type Param struct {
	CallName     string
	DeclaredType string // type used in the wrapper's parameter list
	ExactType    string // type as seen at the call site

	ToPtrConversion       bool
	ToUniquePtrConversion bool
}

// ReturnTag classifies a return value.
type ReturnTag uint8

const (
	Plain ReturnTag = iota
	Bytes
)

func (t ReturnTag) String() string {
	if t == Bytes {
		return "bytes"
	}
	return "plain"
}

// Return describes one value handed back to Python.
type Return struct {
	Type string
	Tag  ReturnTag
}

// Class describes the owner of a member function.
type Class struct {
	ReceiverType string
	Var          string // registration variable; derived from ReceiverType when empty
}

// RegistrationVar returns the variable the class is registered under.
// e.g. "ns::Counter" → "ns_Counter_class"
func (c *Class) RegistrationVar() string {
	if c.Var != "" {
		return c.Var
	}
	return strings.ReplaceAll(c.ReceiverType, "::", "_") + "_class"
}

// Display returns the Python-facing name with any trailing sequential
// marker removed.
func (f *Function) Display() string {
	name := f.DisplayName
	if name == "" {
		name = f.Name
	}
	return strings.TrimRight(name, "#")
}

// HasBytesReturn reports whether any return is tagged Bytes.
func (f *Function) HasBytesReturn() bool {
	for _, r := range f.Returns {
		if r.Tag == Bytes {
			return true
		}
	}
	return false
}

// DirectReturn reports whether ret0 is the call's own return value rather
// than an out-parameter.
func (f *Function) DirectReturn() bool {
	return !f.VoidCall && len(f.Returns) > 0
}
