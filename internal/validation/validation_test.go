package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-api/internal/domain"
)

// decode builds a Payload the way the JSON request decoder does.
func decode(t *testing.T, body string) Payload {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var p Payload
	require.NoError(t, dec.Decode(&p))
	return p
}

// fieldErrors returns field -> message for a validation failure.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected *domain.ValidationError, got %T (%v)", err, err)
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestParseCategoryCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr map[string]string
	}{
		{name: "valid", body: `{"name":"Books"}`, want: "Books"},
		{name: "missing name", body: `{}`, wantErr: map[string]string{"name": "Required"}},
		{
			name:    "empty name",
			body:    `{"name":""}`,
			wantErr: map[string]string{"name": "String must contain at least 1 character(s)"},
		},
		{
			name:    "wrong type",
			body:    `{"name":5}`,
			wantErr: map[string]string{"name": "Expected string, received number"},
		},
		{
			name:    "unknown key rejected",
			body:    `{"name":"Books","slug":"books"}`,
			wantErr: map[string]string{"slug": "Unrecognized key: 'slug'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseCategoryCreate(decode(t, tt.body))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, req.Name)
				return
			}
			assert.Equal(t, tt.wantErr, fieldErrors(t, err))
		})
	}
}

func TestParseProductCreate(t *testing.T) {
	categoryID := uuid.New()

	t.Run("coerces string price and stock", func(t *testing.T) {
		p := Payload{
			"title":       "Mug",
			"description": "Ceramic mug",
			"price":       "12.50",
			"stock":       "4",
			"categoryId":  categoryID.String(),
		}
		req, err := ParseProductCreate(p)
		require.NoError(t, err)
		assert.Equal(t, "Mug", req.Title)
		assert.Equal(t, "12.5", req.Price.String())
		assert.Equal(t, 4, req.Stock)
		assert.Equal(t, categoryID, req.CategoryID)
		assert.Nil(t, req.ImageURL)
	})

	t.Run("accepts json numbers", func(t *testing.T) {
		body := `{"title":"Mug","description":"d","price":3.25,"stock":0,"categoryId":"` + categoryID.String() + `"}`
		req, err := ParseProductCreate(decode(t, body))
		require.NoError(t, err)
		assert.Equal(t, "3.25", req.Price.String())
		assert.Equal(t, 0, req.Stock)
	})

	t.Run("reports every violation", func(t *testing.T) {
		p := Payload{
			"title":       "",
			"price":       "-1",
			"stock":       "abc",
			"categoryId":  "not-a-uuid",
			"imageUrl":    "nope",
			"discount":    "10",
			"description": "ok",
		}
		_, err := ParseProductCreate(p)
		assert.Equal(t, map[string]string{
			"discount":   "Unrecognized key: 'discount'",
			"title":      "String must contain at least 1 character(s)",
			"price":      "Number must be greater than 0",
			"stock":      "Expected number, received nan",
			"categoryId": "Invalid uuid",
			"imageUrl":   "Invalid url",
		}, fieldErrors(t, err))
	})

	t.Run("missing fields are required once", func(t *testing.T) {
		_, err := ParseProductCreate(Payload{})
		assert.Equal(t, map[string]string{
			"title":       "Required",
			"description": "Required",
			"price":       "Required",
			"stock":       "Required",
			"categoryId":  "Required",
		}, fieldErrors(t, err))
	})

	t.Run("zero price and fractional stock", func(t *testing.T) {
		p := Payload{
			"title": "Mug", "description": "d", "price": "0", "stock": "1.5",
			"categoryId": categoryID.String(),
		}
		_, err := ParseProductCreate(p)
		assert.Equal(t, map[string]string{
			"price": "Number must be greater than 0",
			"stock": "Expected integer, received float",
		}, fieldErrors(t, err))
	})

	t.Run("negative stock", func(t *testing.T) {
		p := Payload{
			"title": "Mug", "description": "d", "price": "1", "stock": "-3",
			"categoryId": categoryID.String(),
		}
		_, err := ParseProductCreate(p)
		assert.Equal(t, map[string]string{
			"stock": "Number must be greater than or equal to 0",
		}, fieldErrors(t, err))
	})

	bounds := []struct {
		name  string
		price any
		stock any
		want  map[string]string
	}{
		{
			name:  "price with three decimals",
			price: "19.999",
			stock: "1",
			want:  map[string]string{"price": "Number must have at most 2 decimal places"},
		},
		{
			name:  "price rounding to zero",
			price: json.Number("0.001"),
			stock: "1",
			want:  map[string]string{"price": "Number must have at most 2 decimal places"},
		},
		{
			name:  "price at upper bound",
			price: "10000000000",
			stock: "1",
			want:  map[string]string{"price": "Number must be less than 10000000000"},
		},
		{
			name:  "stock above int32",
			price: "1",
			stock: "5000000000",
			want:  map[string]string{"stock": "Number must be less than or equal to 2147483647"},
		},
		{
			name:  "stock beyond int64",
			price: "1",
			stock: "99999999999999999999",
			want:  map[string]string{"stock": "Number must be less than or equal to 2147483647"},
		},
		{
			name:  "stock below int64",
			price: "1",
			stock: "-99999999999999999999",
			want:  map[string]string{"stock": "Number must be greater than or equal to 0"},
		},
	}
	for _, tt := range bounds {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{
				"title": "Mug", "description": "d", "price": tt.price, "stock": tt.stock,
				"categoryId": categoryID.String(),
			}
			_, err := ParseProductCreate(p)
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}

	t.Run("largest accepted values", func(t *testing.T) {
		p := Payload{
			"title": "Mug", "description": "d", "price": "9999999999.99", "stock": "2147483647",
			"categoryId": categoryID.String(),
		}
		req, err := ParseProductCreate(p)
		require.NoError(t, err)
		assert.Equal(t, "9999999999.99", req.Price.String())
		assert.Equal(t, 2147483647, req.Stock)

		p["price"] = "19.990"
		req, err = ParseProductCreate(p)
		require.NoError(t, err)
		assert.Equal(t, "19.99", req.Price.StringFixed(2))
	})
}

func TestParseProductUpdate(t *testing.T) {
	t.Run("empty payload is valid", func(t *testing.T) {
		req, err := ParseProductUpdate(Payload{})
		require.NoError(t, err)
		assert.Nil(t, req.Title)
		assert.Nil(t, req.Price)
		assert.Nil(t, req.Stock)
		assert.Nil(t, req.CategoryID)
	})

	t.Run("present fields are validated", func(t *testing.T) {
		req, err := ParseProductUpdate(Payload{"price": "20", "stock": "7"})
		require.NoError(t, err)
		require.NotNil(t, req.Price)
		assert.Equal(t, "20", req.Price.String())
		require.NotNil(t, req.Stock)
		assert.Equal(t, 7, *req.Stock)

		_, err = ParseProductUpdate(Payload{"price": "0", "title": ""})
		assert.Equal(t, map[string]string{
			"price": "Number must be greater than 0",
			"title": "String must contain at least 1 character(s)",
		}, fieldErrors(t, err))
	})

	t.Run("present fields obey numeric bounds", func(t *testing.T) {
		_, err := ParseProductUpdate(Payload{"price": "0.005", "stock": "3000000000"})
		assert.Equal(t, map[string]string{
			"price": "Number must have at most 2 decimal places",
			"stock": "Number must be less than or equal to 2147483647",
		}, fieldErrors(t, err))
	})

	t.Run("strict", func(t *testing.T) {
		_, err := ParseProductUpdate(Payload{"color": "red"})
		assert.Equal(t, map[string]string{"color": "Unrecognized key: 'color'"}, fieldErrors(t, err))
	})
}

func TestParseUserSchemas(t *testing.T) {
	req, err := ParseUserCreate(decode(t, `{"email":"a@example.com","nickname":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", req.Email)

	_, err = ParseUserCreate(Payload{"email": "not-an-email"})
	assert.Equal(t, map[string]string{"email": "Invalid email"}, fieldErrors(t, err))

	_, err = ParseUserCreate(Payload{})
	assert.Equal(t, map[string]string{"email": "Required"}, fieldErrors(t, err))

	upd, err := ParseUserUpdate(Payload{})
	require.NoError(t, err)
	assert.Nil(t, upd.Email)

	_, err = ParseUserUpdate(Payload{"email": "bad"})
	assert.Equal(t, map[string]string{"email": "Invalid email"}, fieldErrors(t, err))
}

func TestParseCartAdd(t *testing.T) {
	userID, productID := uuid.New(), uuid.New()

	t.Run("quantity defaults to one", func(t *testing.T) {
		body := `{"userId":"` + userID.String() + `","productId":"` + productID.String() + `"}`
		req, err := ParseCartAdd(decode(t, body))
		require.NoError(t, err)
		assert.Equal(t, userID, req.UserID)
		assert.Equal(t, productID, req.ProductID)
		assert.Equal(t, 1, req.Quantity)
	})

	t.Run("explicit quantity", func(t *testing.T) {
		body := `{"userId":"` + userID.String() + `","productId":"` + productID.String() + `","quantity":3}`
		req, err := ParseCartAdd(decode(t, body))
		require.NoError(t, err)
		assert.Equal(t, 3, req.Quantity)
	})

	tests := []struct {
		name     string
		quantity string
		want     string
	}{
		{name: "zero", quantity: `0`, want: "Number must be greater than or equal to 1"},
		{name: "negative", quantity: `-2`, want: "Number must be greater than or equal to 1"},
		{name: "fractional", quantity: `1.5`, want: "Expected integer, received float"},
		{name: "string", quantity: `"2"`, want: "Expected number, received string"},
		{name: "above int32", quantity: `2147483648`, want: "Number must be less than or equal to 2147483647"},
		{name: "int64 max", quantity: `9223372036854775807`, want: "Number must be less than or equal to 2147483647"},
		{name: "beyond int64", quantity: `99999999999999999999`, want: "Number must be less than or equal to 2147483647"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"userId":"` + userID.String() + `","productId":"` + productID.String() + `","quantity":` + tt.quantity + `}`
			_, err := ParseCartAdd(decode(t, body))
			assert.Equal(t, map[string]string{"quantity": tt.want}, fieldErrors(t, err))
		})
	}

	t.Run("int32 max accepted", func(t *testing.T) {
		body := `{"userId":"` + userID.String() + `","productId":"` + productID.String() + `","quantity":2147483647}`
		req, err := ParseCartAdd(decode(t, body))
		require.NoError(t, err)
		assert.Equal(t, 2147483647, req.Quantity)
	})

	t.Run("ids required", func(t *testing.T) {
		_, err := ParseCartAdd(Payload{})
		assert.Equal(t, map[string]string{"userId": "Required", "productId": "Required"}, fieldErrors(t, err))
	})
}

func TestValidateDispatch(t *testing.T) {
	v, err := Validate(CategoryCreate, Payload{"name": "Games"})
	require.NoError(t, err)
	assert.Equal(t, CategoryCreateRequest{Name: "Games"}, v)

	_, err = Validate(UserCreate, Payload{"email": "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Validate(Schema("order-create"), Payload{})
	assert.ErrorIs(t, err, ErrUnknownSchema)
}
