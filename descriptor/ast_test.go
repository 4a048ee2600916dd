package descriptor

import (
	"testing"

	"github.com/jhump/protoreflect/dynamic"
)

const sampleAST = `
source: "example.clif"
decls {
  decltype: FUNC
  func {
    name { native: "divmod" cpp_name: "Divmod" }
    params {
      name { native: "a" cpp_name: "a" }
      type { lang_type: "int" cpp_type: "int" }
    }
    returns { type { lang_type: "int" cpp_type: "int" } }
    returns { type { lang_type: "bytes" cpp_type: "std::string" } }
    cpp_void_return: true
  }
}
decls {
  decltype: VAR
}
decls {
  decltype: CLASS
  class_ {
    name { native: "Counter" cpp_name: "ns::Counter" }
    members {
      decltype: FUNC
      func {
        name { native: "add" cpp_name: "Add" }
        params {
          name { native: "p" }
          type {
            lang_type: "Base"
            cpp_type: "std::unique_ptr<Base>"
            cpp_toptr_conversion: true
            cpp_touniqptr_conversion: true
          }
          cpp_exact_type: "Derived *"
        }
        postproc: "->self"
      }
    }
    members {
      decltype: FUNC
      func {
        name { native: "make" cpp_name: "ns::Counter::Make" }
        classmethod: true
      }
    }
  }
}
`

func TestDecodeASTText(t *testing.T) {
	iface, err := DecodeAST([]byte(sampleAST), true)
	if err != nil {
		t.Fatalf("DecodeAST: %v", err)
	}
	if err := Validate(iface); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	checkAST(t, iface)
}

func TestDecodeASTBinary(t *testing.T) {
	root, err := astRoot()
	if err != nil {
		t.Fatal(err)
	}
	msg := dynamic.NewMessage(root)
	if err := msg.UnmarshalText([]byte(sampleAST)); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	data, err := msg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	iface, err := DecodeAST(data, false)
	if err != nil {
		t.Fatalf("DecodeAST: %v", err)
	}
	checkAST(t, iface)
}

func TestDecodeASTMalformed(t *testing.T) {
	if _, err := DecodeAST([]byte("decls { func {"), true); err == nil {
		t.Error("expected error for malformed text")
	}
}

func checkAST(t *testing.T, iface *Interface) {
	t.Helper()
	if len(iface.Functions) != 1 || len(iface.Classes) != 1 {
		t.Fatalf("got %d functions, %d classes", len(iface.Functions), len(iface.Classes))
	}

	f := iface.Functions[0].Descriptor()
	if f.Name != "Divmod" || f.Display() != "divmod" || !f.VoidCall {
		t.Errorf("divmod = %+v", f)
	}
	if len(f.Returns) != 2 || f.Returns[1].Tag != Bytes || f.Returns[1].Type != "std::string" {
		t.Errorf("returns = %+v", f.Returns)
	}

	c := iface.Classes[0]
	if c.Name != "ns::Counter" || len(c.Functions) != 2 {
		t.Fatalf("class = %+v", c)
	}
	add := c.Functions[0].Descriptor()
	if !add.Postproc.ReturnsReceiver() {
		t.Errorf("add postproc = %+v", add.Postproc)
	}
	p := add.Params[0]
	if p.CallName != "p" || p.ExactType != "Derived *" || !p.ToPtrConversion || !p.ToUniquePtrConversion {
		t.Errorf("add param = %+v", p)
	}
	if mk := c.Functions[1]; !mk.ClassMethod || mk.Name != "ns::Counter::Make" {
		t.Errorf("make = %+v", mk)
	}
}
