package lambda

import (
	"strings"

	"github.com/chazu/wrapgen/descriptor"
)

// RenderReturn renders the lambda's return statement.
func RenderReturn(fn *descriptor.Function) []string {
	return DefaultIdioms.renderReturn(fn)
}

func (id Idioms) renderReturn(fn *descriptor.Function) []string {
	if fn.Postproc.ReturnsReceiver() {
		return []string{"return " + id.Receiver + ";"}
	}

	switch len(fn.Returns) {
	case 0:
		return []string{"return;"}
	case 1:
		return []string{"return " + id.returnValue(fn, 0) + ";"}
	}

	values := make([]string, len(fn.Returns))
	for i := range fn.Returns {
		values[i] = id.returnValue(fn, i)
	}
	return []string{"return " + id.Tuple + "(" + strings.Join(values, ", ") + ");"}
}

// returnValue renders ret<i>, wrapped for byte-like returns.
func (id Idioms) returnValue(fn *descriptor.Function, i int) string {
	if fn.Returns[i].Tag == descriptor.Bytes {
		return id.Bytes + "(" + retVar(i) + ")"
	}
	return retVar(i)
}
