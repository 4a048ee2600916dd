package descriptor

import "fmt"

// Interface is the on-disk description of one extension module. The same
// shape is read from TOML, YAML and CBOR. The json tags are what
// cue.Context.Encode reads in Validate; dropping them breaks validation.
type Interface struct {
	// Module is the extension module name (the first argument of
	// PYBIND11_MODULE).
	Module string `toml:"module" yaml:"module" json:"module,omitempty" cbor:"1,keyasint,omitempty"`

	// Functions are free functions, registered in declaration order.
	Functions []FunctionSpec `toml:"functions" yaml:"functions" json:"functions,omitempty" cbor:"2,keyasint,omitempty"`

	// Classes are registered after the free functions.
	Classes []ClassSpec `toml:"classes" yaml:"classes" json:"classes,omitempty" cbor:"3,keyasint,omitempty"`
}

// FunctionSpec describes one callable.
type FunctionSpec struct {
	// Name is the C++ identifier called by the binding.
	Name string `toml:"name" yaml:"name" json:"name" cbor:"1,keyasint"`

	// Display is the Python-facing name. Defaults to Name. A trailing "#"
	// marks a sequential overload and is dropped when rendered.
	Display string `toml:"display" yaml:"display" json:"display,omitempty" cbor:"2,keyasint,omitempty"`

	Params  []ParamSpec  `toml:"params" yaml:"params" json:"params,omitempty" cbor:"3,keyasint,omitempty"`
	Returns []ReturnSpec `toml:"returns" yaml:"returns" json:"returns,omitempty" cbor:"4,keyasint,omitempty"`

	// ClassMethod marks a static member; it is registered with def_static
	// and called without a receiver.
	ClassMethod bool `toml:"classmethod" yaml:"classmethod" json:"classmethod,omitempty" cbor:"5,keyasint,omitempty"`

	// Void is set when the C++ function itself returns nothing, so every
	// declared return travels through a pointer out-parameter.
	Void bool `toml:"void" yaml:"void" json:"void,omitempty" cbor:"6,keyasint,omitempty"`

	// Postproc is "->self" to return the receiver, or any other marker.
	Postproc string `toml:"postproc" yaml:"postproc" json:"postproc,omitempty" cbor:"7,keyasint,omitempty"`

	// Suffix is appended verbatim after the registration's callable
	// (argument annotations, return policy, closing paren). When empty a
	// py::arg list is derived from the parameters.
	Suffix string `toml:"suffix" yaml:"suffix" json:"suffix,omitempty" cbor:"8,keyasint,omitempty"`
}

// ParamSpec describes one parameter.
type ParamSpec struct {
	Name string `toml:"name" yaml:"name" json:"name" cbor:"1,keyasint"`
	Type string `toml:"type" yaml:"type" json:"type" cbor:"2,keyasint"`

	// ExactType is the type at the call site; defaults to Type.
	ExactType string `toml:"exact_type" yaml:"exact_type" json:"exact_type,omitempty" cbor:"3,keyasint,omitempty"`

	ToPtr       bool `toml:"to_ptr" yaml:"to_ptr" json:"to_ptr,omitempty" cbor:"4,keyasint,omitempty"`
	ToUniquePtr bool `toml:"to_unique_ptr" yaml:"to_unique_ptr" json:"to_unique_ptr,omitempty" cbor:"5,keyasint,omitempty"`
}

// ReturnSpec describes one returned value.
type ReturnSpec struct {
	Type  string `toml:"type" yaml:"type" json:"type" cbor:"1,keyasint"`
	Bytes bool   `toml:"bytes" yaml:"bytes" json:"bytes,omitempty" cbor:"2,keyasint,omitempty"`
}

// ClassSpec describes a class and its members.
type ClassSpec struct {
	Name      string         `toml:"name" yaml:"name" json:"name" cbor:"1,keyasint"`
	Var       string         `toml:"var" yaml:"var" json:"var,omitempty" cbor:"2,keyasint,omitempty"`
	Functions []FunctionSpec `toml:"functions" yaml:"functions" json:"functions,omitempty" cbor:"3,keyasint,omitempty"`
}

// Binding pairs a function with its owning class, if any.
type Binding struct {
	Function Function
	Class    *Class
	Suffix   string
}

// Bindings flattens the interface: free functions first, then each
// class's members, all in declaration order.
func (i *Interface) Bindings() []Binding {
	var out []Binding
	for _, f := range i.Functions {
		out = append(out, Binding{Function: f.Descriptor(), Suffix: f.Suffix})
	}
	for _, c := range i.Classes {
		cls := c.Descriptor()
		for _, f := range c.Functions {
			out = append(out, Binding{Function: f.Descriptor(), Class: cls, Suffix: f.Suffix})
		}
	}
	return out
}

// Descriptor converts f to an immutable Function.
func (f FunctionSpec) Descriptor() Function {
	fn := Function{
		Name:          f.Name,
		DisplayName:   f.Display,
		IsClassMethod: f.ClassMethod,
		VoidCall:      f.Void,
		Postproc:      ParsePostproc(f.Postproc),
	}
	if len(f.Params) > 0 {
		fn.Params = make([]Param, len(f.Params))
		for i, p := range f.Params {
			exact := p.ExactType
			if exact == "" {
				exact = p.Type
			}
			fn.Params[i] = Param{
				CallName:              p.Name,
				DeclaredType:          p.Type,
				ExactType:             exact,
				ToPtrConversion:       p.ToPtr,
				ToUniquePtrConversion: p.ToUniquePtr,
			}
		}
	}
	if len(f.Returns) > 0 {
		fn.Returns = make([]Return, len(f.Returns))
		for i, r := range f.Returns {
			tag := Plain
			if r.Bytes {
				tag = Bytes
			}
			fn.Returns[i] = Return{Type: r.Type, Tag: tag}
		}
	}
	return fn
}

// Descriptor converts c to a Class.
func (c ClassSpec) Descriptor() *Class {
	return &Class{ReceiverType: c.Name, Var: c.Var}
}

// Merge concatenates interfaces in order. Files that name a module must
// agree on it.
func Merge(ifaces ...*Interface) (*Interface, error) {
	out := &Interface{}
	for _, iface := range ifaces {
		if iface.Module != "" {
			if out.Module != "" && out.Module != iface.Module {
				return nil, fmt.Errorf("descriptor: conflicting module names %q and %q", out.Module, iface.Module)
			}
			out.Module = iface.Module
		}
		out.Functions = append(out.Functions, iface.Functions...)
		out.Classes = append(out.Classes, iface.Classes...)
	}
	return out, nil
}
