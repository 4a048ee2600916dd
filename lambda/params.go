package lambda

import (
	"strconv"
	"strings"

	"github.com/chazu/wrapgen/descriptor"
)

// PlanCallArguments renders the argument list of the wrapped call: the
// declared parameters followed by the address of every return that is
// passed out by pointer. When the call itself returns a value, ret0
// captures it and is not passed.
func PlanCallArguments(fn *descriptor.Function) string {
	start := 0
	if fn.DirectReturn() {
		start = 1
	}

	args := make([]string, 0, len(fn.Params)+len(fn.Returns))
	for _, p := range fn.Params {
		args = append(args, p.CallName)
	}
	for i := start; i < len(fn.Returns); i++ {
		args = append(args, "&"+retVar(i))
	}
	return strings.Join(args, ", ")
}

func retVar(i int) string {
	return "ret" + strconv.Itoa(i)
}
