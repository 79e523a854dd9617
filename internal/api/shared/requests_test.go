package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-api/internal/domain"
)

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) (map[string]any, error) {
		r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		p, err := DecodeJSON(httptest.NewRecorder(), r)
		return p, err
	}

	t.Run("object keeps numbers as json.Number", func(t *testing.T) {
		p, err := decode(`{"name":"Mugs","quantity":2}`)
		require.NoError(t, err)
		assert.Equal(t, "Mugs", p["name"])
		assert.Equal(t, json.Number("2"), p["quantity"])
	})

	t.Run("empty body", func(t *testing.T) {
		p, err := decode("  \n")
		require.NoError(t, err)
		assert.NotNil(t, p)
		assert.Empty(t, p)
	})

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "syntax error", body: `{"name":`, msg: MsgInvalidJSON},
		{name: "trailing comma", body: `{"name":"x",}`, msg: MsgInvalidJSON},
		{name: "array", body: `[1,2]`, msg: MsgInvalidJSON},
		{name: "null", body: `null`, msg: MsgInvalidJSON},
		{name: "two documents", body: `{} {}`, msg: MsgInvalidJSON},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", MaxJSONBodyBytes) + `"}`, msg: MsgBodyTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decode(tc.body)
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domain.KindBadRequest, de.Kind)
			assert.Equal(t, tc.msg, de.Message)
		})
	}
}
