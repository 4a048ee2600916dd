package lambda

import (
	"slices"
	"strings"
	"testing"

	"github.com/chazu/wrapgen/descriptor"
)

var counter = &descriptor.Class{ReceiverType: "Counter"}

func TestRenderParams(t *testing.T) {
	fn := &descriptor.Function{
		Name: "Add",
		Params: []descriptor.Param{
			{CallName: "n", DeclaredType: "int"},
			{CallName: "label", DeclaredType: "const std::string&"},
		},
	}

	if got, want := RenderParams(fn, nil), "int n, const std::string& label"; got != want {
		t.Errorf("free: got %q, want %q", got, want)
	}
	if got, want := RenderParams(fn, counter), "Counter& self, int n, const std::string& label"; got != want {
		t.Errorf("bound: got %q, want %q", got, want)
	}

	static := *fn
	static.IsClassMethod = true
	if got, want := RenderParams(&static, counter), "int n, const std::string& label"; got != want {
		t.Errorf("static: got %q, want %q", got, want)
	}

	if got := RenderParams(&descriptor.Function{Name: "F"}, nil); got != "" {
		t.Errorf("empty: got %q", got)
	}
	if got, want := RenderParams(&descriptor.Function{Name: "F"}, counter), "Counter& self"; got != want {
		t.Errorf("receiver only: got %q, want %q", got, want)
	}
}

func TestPlanCallArguments(t *testing.T) {
	two := []descriptor.Return{{Type: "int"}, {Type: "int"}}
	params := []descriptor.Param{{CallName: "a"}, {CallName: "b"}}

	tests := []struct {
		name string
		fn   descriptor.Function
		want string
	}{
		{"params only", descriptor.Function{Params: params}, "a, b"},
		{"nothing", descriptor.Function{}, ""},
		{"void call, two returns", descriptor.Function{VoidCall: true, Returns: two}, "&ret0, &ret1"},
		{"direct ret0", descriptor.Function{Params: params, Returns: two}, "a, b, &ret1"},
		{"single direct return", descriptor.Function{Params: params, Returns: two[:1]}, "a, b"},
		{"single out return", descriptor.Function{VoidCall: true, Returns: two[:1]}, "&ret0"},
		{"params and out returns", descriptor.Function{Params: params, VoidCall: true, Returns: two}, "a, b, &ret0, &ret1"},
	}
	for _, tt := range tests {
		if got := PlanCallArguments(&tt.fn); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRenderReturn(t *testing.T) {
	plain := descriptor.Return{Type: "int"}
	raw := descriptor.Return{Type: "std::string", Tag: descriptor.Bytes}

	tests := []struct {
		name string
		fn   descriptor.Function
		want string
	}{
		{"none", descriptor.Function{}, "return;"},
		{"one", descriptor.Function{Returns: []descriptor.Return{plain}}, "return ret0;"},
		{"one bytes", descriptor.Function{Returns: []descriptor.Return{raw}}, "return py::bytes(ret0);"},
		{"tuple", descriptor.Function{Returns: []descriptor.Return{plain, raw, plain}},
			"return std::make_tuple(ret0, py::bytes(ret1), ret2);"},
		{"self beats tuple", descriptor.Function{
			Returns:  []descriptor.Return{plain, raw},
			Postproc: descriptor.ReturnReceiver(),
		}, "return self;"},
		{"self with no returns", descriptor.Function{Postproc: descriptor.ReturnReceiver()}, "return self;"},
	}
	for _, tt := range tests {
		got := RenderReturn(&tt.fn)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("%s: got %q, want [%q]", tt.name, got, tt.want)
		}
	}
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name   string
		module string
		fn     descriptor.Function
		cls    *descriptor.Class
		suffix string
		want   []string
	}{
		{
			name:   "void call with two out-params",
			module: "m",
			fn: descriptor.Function{
				Name:     "Divmod",
				VoidCall: true,
				Returns:  []descriptor.Return{{Type: "int"}, {Type: "int"}},
			},
			want: []string{
				`m.def("Divmod", []() {`,
				`  int ret0{};`,
				`  int ret1{};`,
				`  Divmod(&ret0, &ret1);`,
				`  return std::make_tuple(ret0, ret1);`,
				`});`,
			},
		},
		{
			name:   "bound method returning self",
			module: "Counter_class",
			fn: descriptor.Function{
				Name:        "Add",
				DisplayName: "add",
				Params:      []descriptor.Param{{CallName: "n", DeclaredType: "int", ExactType: "int"}},
				VoidCall:    true,
				Postproc:    descriptor.ReturnReceiver(),
			},
			cls:    counter,
			suffix: `py::arg("n"));`,
			want: []string{
				`Counter_class.def("add", [](Counter& self, int n) {`,
				`  self.Add(n);`,
				`  return self;`,
				`}, py::arg("n"));`,
			},
		},
		{
			name:   "bytes return",
			module: "m",
			fn: descriptor.Function{
				Name:    "Digest",
				Params:  []descriptor.Param{{CallName: "data", DeclaredType: "const std::string&"}},
				Returns: []descriptor.Return{{Type: "std::string", Tag: descriptor.Bytes}},
			},
			want: []string{
				`m.def("Digest", [](const std::string& data) {`,
				`  std::string ret0{};`,
				`  ret0 = Digest(data);`,
				`  return py::bytes(ret0);`,
				`});`,
			},
		},
		{
			name:   "static method with direct and out returns",
			module: "Counter_class",
			fn: descriptor.Function{
				Name:          "Counter::Parse",
				DisplayName:   "parse#",
				IsClassMethod: true,
				Params:        []descriptor.Param{{CallName: "text", DeclaredType: "absl::string_view"}},
				Returns:       []descriptor.Return{{Type: "bool"}, {Type: "Counter"}},
			},
			cls:    counter,
			suffix: `py::arg("text"), py::return_value_policy::move);`,
			want: []string{
				`Counter_class.def_static("parse", [](absl::string_view text) {`,
				`  bool ret0{};`,
				`  Counter ret1{};`,
				`  ret0 = Counter::Parse(text, &ret1);`,
				`  return std::make_tuple(ret0, ret1);`,
				`}, py::arg("text"), py::return_value_policy::move);`,
			},
		},
		{
			name:   "implicit conversion, no returns",
			module: "m",
			fn: descriptor.Function{
				Name:     "Consume",
				Params:   []descriptor.Param{conversionParam("p")},
				VoidCall: true,
			},
			want: []string{
				`m.def("Consume", [](std::unique_ptr<Base> p) {`,
				`  Consume(p);`,
				`  return;`,
				`});`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(tt.module, &tt.fn, tt.cls, tt.suffix)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestSynthesizeProperties(t *testing.T) {
	for n := 2; n <= 5; n++ {
		returns := make([]descriptor.Return, n)
		for i := range returns {
			returns[i] = descriptor.Return{Type: "int"}
		}
		fn := &descriptor.Function{Name: "F", Returns: returns}
		lines := Synthesize("m", fn, nil, "")

		decls := 0
		for _, l := range lines {
			if strings.HasSuffix(l, "{};") {
				decls++
			}
		}
		if decls != n {
			t.Errorf("n=%d: %d declarations", n, decls)
		}

		ret := lines[len(lines)-2]
		inner := ret[strings.Index(ret, "(")+1 : strings.LastIndex(ret, ")")]
		if got := len(strings.Split(inner, ", ")); got != n {
			t.Errorf("n=%d: return has %d elements: %q", n, got, ret)
		}

		fn.Postproc = descriptor.ReturnReceiver()
		lines = Synthesize("m", fn, counter, "")
		if got := lines[len(lines)-2]; got != "  return self;" {
			t.Errorf("n=%d with ->self: return line %q", n, got)
		}
	}
}

func TestSynthesizeSingleOutParam(t *testing.T) {
	fn := &descriptor.Function{
		Name:     "Fill",
		VoidCall: true,
		Returns:  []descriptor.Return{{Type: "Buffer"}},
	}
	if got := PlanCallArguments(fn); got != "&ret0" {
		t.Errorf("args = %q, want &ret0", got)
	}
	for _, l := range Synthesize("m", fn, nil, "") {
		if strings.Contains(l, "ret0 =") {
			t.Errorf("unexpected assignment in %q", l)
		}
	}
}

func TestSynthesizerIdioms(t *testing.T) {
	s := NewSynthesizer(Idioms{Indent: "\t", Tuple: "py::make_tuple", Receiver: "me"})
	fn := &descriptor.Function{
		Name:     "Pair",
		Returns:  []descriptor.Return{{Type: "int"}, {Type: "std::string", Tag: descriptor.Bytes}},
		VoidCall: true,
	}
	want := []string{
		`c.def("Pair", [](Counter& me) {`,
		"\tint ret0{};",
		"\tstd::string ret1{};",
		"\tme.Pair(&ret0, &ret1);",
		"\treturn py::make_tuple(ret0, py::bytes(ret1));",
		"});",
	}
	if got := s.Synthesize("c", fn, counter, ""); !slices.Equal(got, want) {
		t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestLinesStopsEarly(t *testing.T) {
	fn := &descriptor.Function{Name: "F", Returns: []descriptor.Return{{Type: "int"}, {Type: "int"}}}
	var got []string
	for line := range NewSynthesizer(DefaultIdioms).Lines("m", fn, nil, "") {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[1] != "  int ret0{};" {
		t.Errorf("got %q", got)
	}
}

func TestClosing(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"", "});"},
		{`py::arg("x"));`, `}, py::arg("x"));`},
		{"py::return_value_policy::move);", "}, py::return_value_policy::move);"},
	}
	for _, tt := range tests {
		if got := Closing(tt.suffix); got != tt.want {
			t.Errorf("Closing(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
