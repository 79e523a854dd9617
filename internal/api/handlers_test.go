package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/mocks"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/service"
	"github.com/storefront-labs/storefront-api/internal/store/memstore"
)

// pngBytes starts with the PNG signature, which is all sniffing needs.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type testAPI struct {
	router   http.Handler
	store    *memstore.Store
	uploader *mocks.MockImageUploader
	tempDir  string
}

func newTestAPI(t *testing.T, maxUploadBytes int64, exposeStack bool) *testAPI {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	s := memstore.New()
	uploader := new(mocks.MockImageUploader)
	tempDir := t.TempDir()

	r := chi.NewRouter()
	Handlers{
		Errors:     NewErrorHandler(log, exposeStack),
		Categories: NewCategoryHandler(service.NewCategoryService(s, log), log),
		Products: NewProductHandler(
			service.NewProductService(s, uploader, log),
			NewUploadStager(tempDir, maxUploadBytes, log),
			log,
		),
		Cart:  NewCartHandler(service.NewCartService(s, log), log),
		Users: NewUserHandler(service.NewUserService(s, log), log),
	}.Mount(r)

	return &testAPI{router: r, store: s, uploader: uploader, tempDir: tempDir}
}

type envelopeBody struct {
	Success    bool                `json:"success"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Errors     []domain.FieldError `json:"errors"`
	Stack      string              `json:"stack"`
}

func (a *testAPI) do(t *testing.T, method, path, contentType string, body []byte) (int, envelopeBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.StatusCode)
	return w.Code, env
}

func (a *testAPI) doJSON(t *testing.T, method, path, body string) (int, envelopeBody) {
	t.Helper()
	return a.do(t, method, path, "application/json", []byte(body))
}

func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(ImageField, filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), buf.Bytes()
}

func decodeData[T any](t *testing.T, env envelopeBody) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (a *testAPI) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := domain.NewCategory(name)
	require.NoError(t, a.store.Categories().Create(context.Background(), c))
	return c
}

func (a *testAPI) seedProduct(t *testing.T, category *domain.Category, title, price string) *domain.Product {
	t.Helper()
	p := domain.NewProduct(title, title+" description", decimal.RequireFromString(price), 3, category.ID, nil)
	require.NoError(t, a.store.Products().Create(context.Background(), p))
	return p
}

func (a *testAPI) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u := domain.NewUser(email)
	require.NoError(t, a.store.Users().Create(context.Background(), u))
	return u
}

func TestCategoryRoutes(t *testing.T) {
	a := newTestAPI(t, 1<<20, false)

	status, env := a.doJSON(t, http.MethodPost, "/categories", `{"name":"Kitchen"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Category created successfully", env.Message)
	created := decodeData[domain.Category](t, env)
	assert.Equal(t, "Kitchen", created.Name)

	status, env = a.doJSON(t, http.MethodPost, "/categories", `{"name":"Garden","slug":"garden"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, MsgValidationFailed, env.Message)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "slug", env.Errors[0].Field)

	status, env = a.doJSON(t, http.MethodPost, "/categories", `{"name":`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON payload", env.Message)
	assert.Nil(t, env.Errors)

	a.seedProduct(t, &created, "Mug", "12.50")
	status, env = a.doJSON(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Categories fetched successfully", env.Message)
	list := decodeData[[]domain.CategoryWithProducts](t, env)
	require.Len(t, list, 1)
	require.Len(t, list[0].Products, 1)
	assert.Equal(t, "Mug", list[0].Products[0].Title)
}

func TestCreateProductMultipart(t *testing.T) {
	t.Run("uploads staged image and removes it", func(t *testing.T) {
		a := newTestAPI(t, 1<<20, false)
		category := a.seedCategory(t, "Kitchen")

		var stagedPath string
		a.uploader.On("Upload", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				stagedPath = args.String(1)
				data, err := os.ReadFile(stagedPath)
				require.NoError(t, err)
				assert.Equal(t, pngBytes, data)
			}).
			Return("https://res.cloudinary.com/demo/image/upload/mug.png", nil)

		ct, body := multipartBody(t, map[string]string{
			"title":       "Mug",
			"description": "Ceramic mug",
			"price":       "12.50",
			"stock":       "7",
			"categoryId":  category.ID.String(),
		}, "mug.png", pngBytes)

		status, env := a.do(t, http.MethodPost, "/products", ct, body)
		require.Equal(t, http.StatusCreated, status, env.Message)
		assert.Equal(t, "Product created successfully", env.Message)

		product := decodeData[map[string]any](t, env)
		assert.Equal(t, 12.5, product["price"])
		assert.Equal(t, float64(7), product["stock"])
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/mug.png", product["imageUrl"])
		assert.NotContains(t, product, "category")

		assert.True(t, strings.HasSuffix(stagedPath, "-mug.png"), stagedPath)
		_, err := os.Stat(stagedPath)
		assert.True(t, errors.Is(err, os.ErrNotExist), "staged file should be removed")
		a.uploader.AssertExpectations(t)
	})

	t.Run("failed upload creates product without image", func(t *testing.T) {
		a := newTestAPI(t, 1<<20, false)
		category := a.seedCategory(t, "Kitchen")
		a.uploader.On("Upload", mock.Anything, mock.Anything).Return("", errors.New("cloudinary down"))

		ct, body := multipartBody(t, map[string]string{
			"title":       "Mug",
			"description": "Ceramic mug",
			"price":       "12.50",
			"stock":       "7",
			"categoryId":  category.ID.String(),
		}, "mug.png", pngBytes)

		status, env := a.do(t, http.MethodPost, "/products", ct, body)
		require.Equal(t, http.StatusCreated, status)
		product := decodeData[map[string]any](t, env)
		assert.Nil(t, product["imageUrl"])
	})

	t.Run("rejects non-image", func(t *testing.T) {
		a := newTestAPI(t, 1<<20, false)
		category := a.seedCategory(t, "Kitchen")

		ct, body := multipartBody(t, map[string]string{
			"title":       "Mug",
			"description": "Ceramic mug",
			"price":       "12.50",
			"stock":       "7",
			"categoryId":  category.ID.String(),
		}, "mug.png", []byte("just some plain text, not an image"))

		status, env := a.do(t, http.MethodPost, "/products", ct, body)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, MsgOnlyImages, env.Message)
		a.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)

		entries, err := os.ReadDir(a.tempDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		a := newTestAPI(t, 16, false)
		category := a.seedCategory(t, "Kitchen")

		ct, body := multipartBody(t, map[string]string{"categoryId": category.ID.String()}, "big.png", pngBytes)

		status, env := a.do(t, http.MethodPost, "/products", ct, body)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, MsgFileTooLarge, env.Message)
	})

	t.Run("validation reports every field", func(t *testing.T) {
		a := newTestAPI(t, 1<<20, false)

		ct, body := multipartBody(t, map[string]string{
			"title": "",
			"price": "abc",
			"stock": "-1",
		}, "", nil)

		status, env := a.do(t, http.MethodPost, "/products", ct, body)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, MsgValidationFailed, env.Message)
		fields := map[string]bool{}
		for _, fe := range env.Errors {
			fields[fe.Field] = true
		}
		for _, f := range []string{"title", "description", "price", "stock", "categoryId"} {
			assert.True(t, fields[f], "missing error for %s: %v", f, env.Errors)
		}
	})
}

func TestProductRoutes(t *testing.T) {
	a := newTestAPI(t, 1<<20, false)
	kitchen := a.seedCategory(t, "Kitchen")
	garden := a.seedCategory(t, "Garden")
	mug := a.seedProduct(t, kitchen, "Mug", "12.50")
	a.seedProduct(t, kitchen, "100% Cotton Towel", "5")
	a.seedProduct(t, garden, "Garden Mug", "3")

	t.Run("create from json", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodPost, "/products",
			`{"title":"Plate","description":"Dinner plate","price":"8","stock":"2","categoryId":"`+kitchen.ID.String()+`"}`)
		require.Equal(t, http.StatusCreated, status, env.Errors)
	})

	t.Run("create with out of range numbers", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodPost, "/products",
			`{"title":"Plate","description":"Dinner plate","price":0.001,"stock":"5000000000","categoryId":"`+kitchen.ID.String()+`"}`)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, MsgValidationFailed, env.Message)
		assert.ElementsMatch(t, []domain.FieldError{
			{Field: "price", Message: "Number must have at most 2 decimal places"},
			{Field: "stock", Message: "Number must be less than or equal to 2147483647"},
		}, env.Errors)
	})

	t.Run("create with unknown category", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodPost, "/products",
			`{"title":"Plate","description":"Dinner plate","price":8,"stock":2,"categoryId":"00000000-0000-4000-8000-000000000000"}`)
		require.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Category not found", env.Message)
	})

	t.Run("list filters", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodGet, "/products?search=MUG", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Products fetched successfully", env.Message)
		assert.Len(t, decodeData[[]domain.Product](t, env), 2)

		_, env = a.doJSON(t, http.MethodGet, "/products?search=mug&categoryId="+kitchen.ID.String(), "")
		products := decodeData[[]domain.Product](t, env)
		require.Len(t, products, 1)
		require.NotNil(t, products[0].Category)
		assert.Equal(t, "Kitchen", products[0].Category.Name)

		_, env = a.doJSON(t, http.MethodGet, "/products?search=100%25", "")
		assert.Len(t, decodeData[[]domain.Product](t, env), 1)

		status, env = a.doJSON(t, http.MethodGet, "/products?categoryId=nope", "")
		require.Equal(t, http.StatusBadRequest, status)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, domain.FieldError{Field: "categoryId", Message: "Invalid uuid"}, env.Errors[0])
	})

	t.Run("get", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodGet, "/products/"+mug.ID.String(), "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Product fetched successfully", env.Message)

		status, env = a.doJSON(t, http.MethodGet, "/products/8c1f7c1e-0000-4000-8000-000000000000", "")
		require.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Product not found", env.Message)

		status, env = a.doJSON(t, http.MethodGet, "/products/not-a-uuid", "")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "id", env.Errors[0].Field)
	})

	t.Run("partial update", func(t *testing.T) {
		status, env := a.doJSON(t, http.MethodPut, "/products/"+mug.ID.String(), `{"stock":"0"}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Product updated successfully", env.Message)
		updated := decodeData[domain.Product](t, env)
		assert.Equal(t, 0, updated.Stock)
		assert.Equal(t, "Mug", updated.Title)

		status, env = a.doJSON(t, http.MethodPut, "/products/"+mug.ID.String(), `{"color":"red"}`)
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "color", env.Errors[0].Field)
	})

	t.Run("delete", func(t *testing.T) {
		user := a.seedUser(t, "buyer@example.com")
		_, err := a.store.CartItems().AddOrIncrement(context.Background(), domain.NewCartItem(user.ID, mug.ID, 1))
		require.NoError(t, err)

		status, env := a.doJSON(t, http.MethodDelete, "/products/"+mug.ID.String(), "")
		require.Equal(t, http.StatusConflict, status)
		assert.Equal(t, MsgReferenced, env.Message)

		status, env = a.doJSON(t, http.MethodDelete, "/products/8c1f7c1e-0000-4000-8000-000000000000", "")
		require.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, MsgRecordNotFound, env.Message)

		rake := a.seedProduct(t, garden, "Rake", "20")
		status, env = a.doJSON(t, http.MethodDelete, "/products/"+rake.ID.String(), "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Product deleted successfully", env.Message)
		assert.Equal(t, "null", string(env.Data))
	})
}

func TestCartRoutes(t *testing.T) {
	a := newTestAPI(t, 1<<20, false)
	kitchen := a.seedCategory(t, "Kitchen")
	mug := a.seedProduct(t, kitchen, "Mug", "12.50")
	user := a.seedUser(t, "buyer@example.com")
	other := a.seedUser(t, "other@example.com")

	add := `{"userId":"` + user.ID.String() + `","productId":"` + mug.ID.String() + `"}`
	status, env := a.doJSON(t, http.MethodPost, "/cart", add)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Item added to cart", env.Message)
	first := decodeData[domain.CartItem](t, env)
	assert.Equal(t, 1, first.Quantity)

	status, env = a.doJSON(t, http.MethodPost, "/cart",
		`{"userId":"`+user.ID.String()+`","productId":"`+mug.ID.String()+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, status)
	merged := decodeData[domain.CartItem](t, env)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)

	status, env = a.doJSON(t, http.MethodPost, "/cart",
		`{"userId":"`+user.ID.String()+`","productId":"`+mug.ID.String()+`","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quantity", env.Errors[0].Field)

	status, env = a.doJSON(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "userId query param is required", env.Message)

	status, env = a.doJSON(t, http.MethodGet, "/cart?userId="+user.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cart items fetched", env.Message)
	summary := decodeData[map[string]any](t, env)
	assert.Equal(t, float64(3), summary["totalQuantity"])
	assert.Equal(t, 37.5, summary["totalPrice"])

	status, env = a.doJSON(t, http.MethodDelete, "/cart/"+first.ID.String()+"?userId="+other.ID.String(), "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cart item not found for this user", env.Message)

	status, env = a.doJSON(t, http.MethodDelete, "/cart/"+first.ID.String(), "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "userId query param is required", env.Message)

	status, env = a.doJSON(t, http.MethodDelete, "/cart/"+first.ID.String()+"?userId="+user.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item removed from cart", env.Message)
}

func TestUserRoutes(t *testing.T) {
	a := newTestAPI(t, 1<<20, false)

	status, env := a.doJSON(t, http.MethodPost, "/users", `{"email":"new@example.com","nickname":"ignored"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created", env.Message)
	user := decodeData[domain.User](t, env)

	status, env = a.doJSON(t, http.MethodPost, "/users", `{"email":"new@example.com"}`)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, MsgDuplicate, env.Message)

	status, env = a.doJSON(t, http.MethodPost, "/users", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email", env.Errors[0].Field)

	status, env = a.doJSON(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Users fetched", env.Message)
	assert.Len(t, decodeData[[]domain.User](t, env), 1)

	status, env = a.doJSON(t, http.MethodGet, "/users/"+user.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User fetched", env.Message)
	detail := decodeData[map[string]any](t, env)
	assert.Equal(t, []any{}, detail["cartItems"])

	status, env = a.doJSON(t, http.MethodPut, "/users/"+user.ID.String(), `{"email":"renamed@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User updated", env.Message)

	status, env = a.doJSON(t, http.MethodPut, "/users/8c1f7c1e-0000-4000-8000-000000000000", `{"email":"x@example.com"}`)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, service.MsgUserNotFound, env.Message)

	status, env = a.doJSON(t, http.MethodDelete, "/users/"+user.ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted", env.Message)

	status, env = a.doJSON(t, http.MethodDelete, "/users/"+user.ID.String(), "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, MsgRecordNotFound, env.Message)
}

func TestUnknownRoutes(t *testing.T) {
	a := newTestAPI(t, 1<<20, false)

	status, env := a.doJSON(t, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, MsgRouteNotFound, env.Message)

	status, env = a.doJSON(t, http.MethodPatch, "/users", "")
	require.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, MsgMethodNotAllowed, env.Message)
}

func TestStackExposure(t *testing.T) {
	dev := newTestAPI(t, 1<<20, true)
	_, env := dev.doJSON(t, http.MethodGet, "/products/8c1f7c1e-0000-4000-8000-000000000000", "")
	assert.Contains(t, env.Stack, "Product not found")

	prod := newTestAPI(t, 1<<20, false)
	_, env = prod.doJSON(t, http.MethodGet, "/products/8c1f7c1e-0000-4000-8000-000000000000", "")
	assert.Empty(t, env.Stack)
}
