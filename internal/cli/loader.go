package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/universql/internal/ast"
)

// LoadError represents a query tree document that could not be read.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTree reads a query tree document and decodes it. Read and syntax
// failures are *LoadError; shape failures are *ast.DecodeError.
func LoadTree(path string) (*ast.Tree, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return ast.Decode(doc)
}

// LoadDocument reads a query tree document into generic values. The format
// follows the file extension: .json, .yaml/.yml or .cue.
func LoadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSONDocument(data)
	case ".yaml", ".yml":
		return decodeYAMLDocument(data)
	case ".cue":
		return decodeCUEDocument(path, data)
	default:
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("unsupported file type %q (want .json, .yaml, .yml or .cue)", ext)}
	}
}

// decodeJSONDocument keeps numbers as json.Number so integers stay integers.
func decodeJSONDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing JSON: %v", err)}
	}
	if doc == nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "document must be an object"}
	}
	return doc, nil
}

func decodeYAMLDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	if doc == nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "document must be an object"}
	}
	return doc, nil
}

// decodeCUEDocument evaluates a CUE file and exports it through JSON. The
// value must be concrete.
func decodeCUEDocument(path string, data []byte) (map[string]any, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError("compiling CUE", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError("validating CUE", err)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return nil, cueLoadError("exporting CUE", err)
	}
	return decodeJSONDocument(exported)
}

func cueLoadError(action string, err error) *LoadError {
	loadErr := &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("%s: %v", action, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
