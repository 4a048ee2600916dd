package descriptor

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"
)

// astProto is the part of the front-end's AST schema this generator
// reads. Message and field names follow the front-end so its text dumps
// decode unchanged.
const astProto = `
syntax = "proto2";

package wrapgen.ast;

message AST {
  optional string source = 1;
  repeated Decl decls = 2;
}

message Decl {
  enum Type {
    UNKNOWN = 0;
    CLASS = 1;
    ENUM = 2;
    VAR = 3;
    CONST = 4;
    FUNC = 5;
  }
  optional Type decltype = 1;
  optional ClassDecl class_ = 2;
  optional FuncDecl func = 6;
}

message Name {
  optional string native = 1;
  optional string cpp_name = 2;
}

message Type {
  optional string lang_type = 1;
  optional string cpp_type = 2;
  optional bool cpp_toptr_conversion = 7;
  optional bool cpp_touniqptr_conversion = 8;
}

message ParamDecl {
  optional Name name = 1;
  optional Type type = 2;
  optional string default_value = 3;
  optional string cpp_exact_type = 4;
}

message FuncDecl {
  optional Name name = 1;
  repeated ParamDecl params = 2;
  repeated ParamDecl returns = 3;
  optional bool classmethod = 7;
  optional bool cpp_void_return = 10;
  optional string postproc = 12;
}

message ClassDecl {
  optional Name name = 1;
  repeated Decl members = 3;
}
`

var astSchema struct {
	once sync.Once
	root *desc.MessageDescriptor
	err  error
}

func astRoot() (*desc.MessageDescriptor, error) {
	astSchema.once.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{"ast.proto": astProto}),
		}
		fds, err := parser.ParseFiles("ast.proto")
		if err != nil {
			astSchema.err = fmt.Errorf("descriptor: parsing ast schema: %w", err)
			return
		}
		astSchema.root = fds[0].FindMessage("wrapgen.ast.AST")
		if astSchema.root == nil {
			astSchema.err = fmt.Errorf("descriptor: ast schema has no AST message")
		}
	})
	return astSchema.root, astSchema.err
}

// DecodeAST converts a front-end AST message, binary or text format, into
// an Interface. Declarations other than functions and classes are skipped.
func DecodeAST(data []byte, text bool) (*Interface, error) {
	root, err := astRoot()
	if err != nil {
		return nil, err
	}

	msg := dynamic.NewMessage(root)
	if text {
		err = msg.UnmarshalText(data)
	} else {
		err = msg.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("descriptor: unmarshal ast: %w", err)
	}

	iface := &Interface{}
	for _, decl := range messages(msg, "decls") {
		switch {
		case decl.HasFieldName("func"):
			iface.Functions = append(iface.Functions, funcSpec(message(decl, "func")))
		case decl.HasFieldName("class_"):
			iface.Classes = append(iface.Classes, classSpec(message(decl, "class_")))
		default:
			log.Debugf("skipping ast decl of type %v", decl.GetFieldByName("decltype"))
		}
	}
	return iface, nil
}

func classSpec(m *dynamic.Message) ClassSpec {
	c := ClassSpec{Name: cppName(message(m, "name"))}
	for _, member := range messages(m, "members") {
		if member.HasFieldName("func") {
			c.Functions = append(c.Functions, funcSpec(message(member, "func")))
		}
	}
	return c
}

func funcSpec(m *dynamic.Message) FunctionSpec {
	name := message(m, "name")
	f := FunctionSpec{
		Name:        cppName(name),
		Display:     str(name, "native"),
		ClassMethod: boolean(m, "classmethod"),
		Void:        boolean(m, "cpp_void_return"),
		Postproc:    str(m, "postproc"),
	}
	for _, p := range messages(m, "params") {
		t := message(p, "type")
		f.Params = append(f.Params, ParamSpec{
			Name:        cppName(message(p, "name")),
			Type:        str(t, "cpp_type"),
			ExactType:   str(p, "cpp_exact_type"),
			ToPtr:       boolean(t, "cpp_toptr_conversion"),
			ToUniquePtr: boolean(t, "cpp_touniqptr_conversion"),
		})
	}
	for _, r := range messages(m, "returns") {
		t := message(r, "type")
		f.Returns = append(f.Returns, ReturnSpec{
			Type:  str(t, "cpp_type"),
			Bytes: str(t, "lang_type") == "bytes",
		})
	}
	return f
}

// cppName prefers the C++ spelling and falls back to the native one.
func cppName(name *dynamic.Message) string {
	if n := str(name, "cpp_name"); n != "" {
		return n
	}
	return str(name, "native")
}

func str(m *dynamic.Message, field string) string {
	if m == nil {
		return ""
	}
	s, _ := m.GetFieldByName(field).(string)
	return s
}

func boolean(m *dynamic.Message, field string) bool {
	if m == nil {
		return false
	}
	b, _ := m.GetFieldByName(field).(bool)
	return b
}

func message(m *dynamic.Message, field string) *dynamic.Message {
	if m == nil || !m.HasFieldName(field) {
		return nil
	}
	sub, _ := m.GetFieldByName(field).(*dynamic.Message)
	return sub
}

func messages(m *dynamic.Message, field string) []*dynamic.Message {
	if m == nil {
		return nil
	}
	fd := m.GetMessageDescriptor().FindFieldByName(field)
	if fd == nil || !fd.IsRepeated() || fd.GetType() != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
		return nil
	}
	vals, _ := m.GetFieldByName(field).([]interface{})
	out := make([]*dynamic.Message, 0, len(vals))
	for _, v := range vals {
		if sub, ok := v.(*dynamic.Message); ok {
			out = append(out, sub)
		}
	}
	return out
}
