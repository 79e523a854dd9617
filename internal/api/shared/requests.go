package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// MaxJSONBodyBytes caps the size of JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// Client-facing messages for undecodable bodies.
const (
	MsgInvalidJSON  = "Invalid JSON payload"
	MsgBodyTooLarge = "Request body too large"
)

// DecodeJSON decodes the request body into a validation.Payload. Numbers are
// kept as json.Number so the validation layer decides how to coerce them.
// An empty body decodes to an empty payload. Anything other than a single
// JSON object is rejected with a 400 domain error.
func DecodeJSON(w http.ResponseWriter, r *http.Request) (validation.Payload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.BadRequest(MsgBodyTooLarge)
		}
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return validation.Payload{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.BadRequest(MsgInvalidJSON)
	}
	if dec.More() {
		return nil, domain.BadRequest(MsgInvalidJSON)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, domain.BadRequest(MsgInvalidJSON)
	}
	return validation.Payload(obj), nil
}
