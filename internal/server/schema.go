package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/cartpile/pkg/errors"
)

const createCartSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "id": {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$"},
    "capacity": {"type": "integer", "minimum": 1, "maximum": 1000},
    "seed": {"type": "integer", "minimum": 0}
  }
}`

const itemSchema = `{
  "type": "object",
  "required": ["name", "width"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 128},
    "tag": {"type": "string", "maxLength": 32},
    "width": {"type": "number", "exclusiveMinimum": 0},
    "color": {"type": "string", "pattern": "^#[0-9A-Fa-f]{6}$"}
  }
}`

var (
	createCartValidator = jsonschema.MustCompileString("mem://schemas/create-cart.json", createCartSchema)
	itemValidator       = jsonschema.MustCompileString("mem://schemas/item.json", itemSchema)
)

// decode reads the request body, validates it against schema and decodes
// it into v. An empty body is treated as an empty object.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, v any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "request body is not valid JSON")
	}
	if err := schema.Validate(doc); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s", validationMessage(err))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

// validationMessage returns the most specific cause of a schema failure.
func validationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "body"
	}
	return loc + ": " + ve.Message
}
