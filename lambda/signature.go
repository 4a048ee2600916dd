package lambda

import (
	"strings"

	"github.com/chazu/wrapgen/descriptor"
)

// RenderParams renders the lambda's parameter list. Bound instance
// methods get a leading receiver parameter.
func RenderParams(fn *descriptor.Function, cls *descriptor.Class) string {
	return DefaultIdioms.renderParams(fn, cls)
}

func (id Idioms) renderParams(fn *descriptor.Function, cls *descriptor.Class) string {
	params := make([]string, 0, len(fn.Params)+1)
	if bound(fn, cls) {
		params = append(params, cls.ReceiverType+"& "+id.Receiver)
	}
	for _, p := range fn.Params {
		params = append(params, p.DeclaredType+" "+p.CallName)
	}
	return strings.Join(params, ", ")
}

// bound reports whether fn is called through a receiver.
func bound(fn *descriptor.Function, cls *descriptor.Class) bool {
	return cls != nil && !fn.IsClassMethod
}
