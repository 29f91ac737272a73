package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/catalog"
)

type itemResponse struct {
	Data catalog.View `json:"data"`
}

type listResponse struct {
	Data []catalog.View `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(store *catalog.Store) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/items", catalog.NewHandler(catalog.HandlerConfig{Store: store}).Routes)
	return r
}

func TestCatalogHandlers(t *testing.T) {
	store := catalog.NewStore()
	router := newRouter(store)

	var created itemResponse
	t.Run("create", func(t *testing.T) {
		body := `{"name":"Cheese","price":"5.2","quantity":100,"weight":0.1,"perishable":true}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "Cheese", created.Data.Name)
		require.Equal(t, "5.2", created.Data.Price.String())
		require.True(t, created.Data.Perishable)
	})

	t.Run("create rejects negative quantity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"name":"Bad","price":1,"quantity":-1}`)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("create rejects negative price", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"name":"Bad","price":-1,"quantity":1}`)))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "INVALID_ITEM", resp.Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
	})

	t.Run("restock price expire", func(t *testing.T) {
		base := "/api/v1/items/" + string(created.Data.ID)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"/restock", strings.NewReader(`{"quantity":5}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 105, resp.Data.Stock)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, base+"/price", strings.NewReader(`{"price":"6.5"}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "6.5", resp.Data.Price.String())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"/expire", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Data.Expired)
	})

	t.Run("unknown item", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}
