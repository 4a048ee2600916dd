package descriptor

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

const interfaceSchema = `
#Ident: =~"^[A-Za-z_][A-Za-z0-9_]*$"
#Name:  =~"^[^\\s]+$"
#Type:  =~"\\S"

#Param: {
	name:           #Ident
	type:           #Type
	exact_type?:    string
	to_ptr?:        bool
	to_unique_ptr?: bool
}

#Return: {
	type:   #Type
	bytes?: bool
}

#Function: {
	name:         #Name
	display?:     #Name
	params?:      [...#Param]
	returns?:     [...#Return]
	classmethod?: bool
	void?:        bool
	postproc?:    string
	suffix?:      string
}

#Class: {
	name:       #Name
	var?:       #Ident
	functions?: [...#Function]
}

#Interface: {
	module?:    #Ident
	functions?: [...#Function]
	classes?:   [...#Class]
}
`

// cue.Context is not safe for concurrent use.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

func loadSchema() error {
	schema.once.Do(func() {
		schema.ctx = cuecontext.New()
		v := schema.ctx.CompileString(interfaceSchema)
		if err := v.Err(); err != nil {
			schema.err = fmt.Errorf("descriptor: compiling schema: %w", err)
			return
		}
		schema.def = v.LookupPath(cue.ParsePath("#Interface"))
	})
	return schema.err
}

// Validate checks the structural shape of an interface document: required
// names present, identifiers well formed, types non-blank. It says nothing
// about whether the C++ types are sound.
func Validate(iface *Interface) error {
	if err := loadSchema(); err != nil {
		return err
	}

	schema.mu.Lock()
	defer schema.mu.Unlock()

	v := schema.ctx.Encode(iface)
	if err := v.Err(); err != nil {
		return fmt.Errorf("descriptor: encoding for validation: %w", err)
	}
	if err := schema.def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}
	return nil
}
