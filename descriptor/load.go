package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("wrapgen.descriptor")

// ErrUnknownFormat is returned for files whose extension has no decoder.
var ErrUnknownFormat = errors.New("descriptor: unknown interface format")

// LoadFile reads an interface file, choosing the decoder by extension,
// and validates it against the interface schema.
func LoadFile(path string) (*Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var iface *Interface
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		iface, err = DecodeTOML(data)
	case ".yaml", ".yml":
		iface, err = DecodeYAML(data)
	case ".cbor":
		iface, err = UnmarshalInterface(data)
	case ".binpb":
		iface, err = DecodeAST(data, false)
	case ".textpb", ".txtpb":
		iface, err = DecodeAST(data, true)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := Validate(iface); err != nil {
		return nil, fmt.Errorf("invalid interface %s: %w", path, err)
	}

	log.Debugf("loaded %s: %d functions, %d classes", path, len(iface.Functions), len(iface.Classes))
	return iface, nil
}

// DecodeTOML parses a TOML interface document. Unknown keys are errors.
func DecodeTOML(data []byte) (*Interface, error) {
	var iface Interface
	md, err := toml.Decode(string(data), &iface)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &iface, nil
}

// DecodeYAML parses a YAML interface document. Unknown keys are errors.
func DecodeYAML(data []byte) (*Interface, error) {
	var iface Interface
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&iface); err != nil {
		return nil, err
	}
	return &iface, nil
}
