package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// LockFile records what the last generation consumed and produced, so an
// unchanged project is not rewritten.
type LockFile struct {
	Inputs     []LockedInput `toml:"inputs"`
	Output     string        `toml:"output"`
	OutputHash string        `toml:"output-hash"`

	// Module is the fallback module name in effect, which a command-line
	// override can change without touching any input.
	Module string `toml:"module"`
}

// LockedInput pins one interface file by content.
type LockedInput struct {
	Path string `toml:"path"`
	Hash string `toml:"hash"`
}

// LockFilePath returns the path to .wrapgen/lock.toml.
func (m *Manifest) LockFilePath() string {
	return filepath.Join(m.Dir, ".wrapgen", "lock.toml")
}

// ReadLock reads a lock file. A missing file yields nil, nil.
func ReadLock(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var lf LockFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &lf, nil
}

// WriteLock writes lf to path, creating parent directories.
func WriteLock(path string, lf *LockFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(lf); err != nil {
		return fmt.Errorf("encoding lock file: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LockInputs hashes the given files.
func LockInputs(paths []string) ([]LockedInput, error) {
	inputs := make([]LockedInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}
		inputs = append(inputs, LockedInput{Path: p, Hash: HashBytes(data)})
	}
	return inputs, nil
}

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// UpToDate reports whether lf was written for the same inputs, output
// path and module as current, and the output file still has the recorded
// content. current.OutputHash is ignored.
func (lf *LockFile) UpToDate(current *LockFile) bool {
	if lf == nil || lf.Output != current.Output || lf.Module != current.Module ||
		!slices.Equal(lf.Inputs, current.Inputs) {
		return false
	}
	data, err := os.ReadFile(current.Output)
	if err != nil {
		return false
	}
	return HashBytes(data) == lf.OutputHash
}
