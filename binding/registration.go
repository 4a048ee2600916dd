package binding

import (
	"strings"

	"github.com/chazu/wrapgen/descriptor"
	"github.com/chazu/wrapgen/lambda"
)

// Target is the variable a function registers against: the module for
// free functions, the class variable for members.
func Target(cls *descriptor.Class) string {
	if cls == nil {
		return ModuleVar
	}
	return cls.RegistrationVar()
}

// ClassDecl declares the py::class_ variable members register against.
// e.g. `py::class_<ns::Counter> ns_Counter_class(m, "Counter");`
func ClassDecl(cls *descriptor.Class) string {
	name := cls.ReceiverType
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return "py::class_<" + cls.ReceiverType + "> " + cls.RegistrationVar() +
		"(" + ModuleVar + `, "` + name + `");`
}

// Direct registers fn by address.
func Direct(target string, fn *descriptor.Function, cls *descriptor.Class, suffix string) string {
	line := target + "." + lambda.RegistrationDef(fn) + `("` + fn.Display() + `", &` + qualified(fn, cls)
	if suffix == "" {
		return line + ");"
	}
	return line + ", " + suffix
}

// qualified prefixes member names with their class unless the front-end
// already did.
func qualified(fn *descriptor.Function, cls *descriptor.Class) string {
	if cls == nil || strings.Contains(fn.Name, "::") {
		return fn.Name
	}
	return cls.ReceiverType + "::" + fn.Name
}

// ArgSuffix names every parameter for keyword calls and closes the
// registration. It is empty for parameterless functions.
func ArgSuffix(fn *descriptor.Function) string {
	if len(fn.Params) == 0 {
		return ""
	}
	args := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		args[i] = `py::arg("` + p.CallName + `")`
	}
	return strings.Join(args, ", ") + ");"
}
