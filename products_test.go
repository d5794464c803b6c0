package bsale

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/testutil"
)

func TestProductsList(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/products.json": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "10", q.Get("limit"))
			assert.Equal(t, "0", q.Get("state"), "explicit zero filter is sent")
			assert.Equal(t, "té", q.Get("name"))
			assert.False(t, q.Has("offset"), "unset pagination is omitted")
			assert.False(t, q.Has("producttypeid"))

			_, _ = io.WriteString(w, `{
				"href": "https://api.bsale.io/v1/products.json",
				"count": 1, "limit": 10, "offset": 0,
				"items": [{"id": 1, "name": "té", "state": 0, "product_type": {"href": "x", "id": "3"}}]
			}`)
		},
	})

	client := newTestClient(t, srv.URL)
	page, err := client.Products.List(context.Background(), &ListProductsParams{
		Pagination: Pagination{Limit: 10},
		Name:       "té",
		State:      Ptr(StateActive),
	})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "té", page.Items[0].Name)
	require.NotNil(t, page.Items[0].ProductType)
	assert.Equal(t, FlexString("3"), page.Items[0].ProductType.ID)
}

func TestProductsGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "bare entity", body: `{"id": 42, "name": "Tea"}`},
		{name: "enveloped entity", body: `{"product": {"id": 42, "name": "Tea"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := testutil.NewMockServer(t, "/products/42.json", testutil.TestToken, tt.body, http.StatusOK)
			client := newTestClient(t, srv.URL)

			product, err := client.Products.Get(context.Background(), 42)
			require.NoError(t, err)
			assert.Equal(t, 42, product.ID)
			assert.Equal(t, "Tea", product.Name)
		})
	}

	t.Run("expand", func(t *testing.T) {
		t.Parallel()

		srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
			"/products/42.json": func(w http.ResponseWriter, r *http.Request) {
				assert.JSONEq(t, `["variants","product_type"]`, r.URL.Query().Get("expand"))
				_, _ = io.WriteString(w, `{"id": 42}`)
			},
		})
		client := newTestClient(t, srv.URL)

		_, err := client.Products.Get(context.Background(), 42, "variants", "product_type")
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		srv := testutil.NewMockServer(t, "/products/9.json", "", `{"message":"product 9"}`, http.StatusNotFound)
		client := newTestClient(t, srv.URL)

		_, err := client.Products.Get(context.Background(), 9)
		bErr := requireKind(t, err, KindNotFound)
		assert.Equal(t, "Resource not found: product 9", bErr.Message)
	})
}

func TestProductsCount(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/products/count.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("state"))
			_, _ = io.WriteString(w, `{"count": 128}`)
		},
	})
	client := newTestClient(t, srv.URL)

	n, err := client.Products.Count(context.Background(), Ptr(StateInactive))
	require.NoError(t, err)
	assert.Equal(t, 128, n)
}

func TestProductsWrites(t *testing.T) {
	t.Parallel()

	var updateBody map[string]any
	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/products.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body CreateProductRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Green tea", body.Name)
			testutil.WriteJSON(t, w, http.StatusCreated, map[string]any{"id": 5, "name": body.Name})
		},
		"/products/5.json": func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&updateBody))
				testutil.WriteJSON(t, w, http.StatusOK, map[string]any{"product": map[string]any{"id": 5, "name": "Black tea"}})
			case http.MethodDelete:
				testutil.WriteJSON(t, w, http.StatusOK, map[string]any{"id": 5, "state": StateInactive})
			default:
				t.Errorf("unexpected method %s", r.Method)
			}
		},
		"/v2/products/pack.json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"code": 200, "data": {"id": 77, "name": "Gift box"}}`)
		},
	})
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	created, err := client.Products.Create(ctx, &CreateProductRequest{Name: "Green tea", ProductTypeID: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)

	updated, err := client.Products.Update(ctx, 5, UpdateProductRequest{Name: "Black tea"})
	require.NoError(t, err)
	assert.Equal(t, "Black tea", updated.Name)
	assert.EqualValues(t, 5, updateBody["id"], "id is injected into the update body")

	deleted, err := client.Products.Delete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateInactive, deleted.State)

	pack, err := client.Products.CreatePack(ctx, &CreatePackRequest{})
	require.NoError(t, err)
	assert.Equal(t, 77, pack.Data.ID)
}

func TestVariantsFindByCode(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/variants.json": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("code") == "SKU-1" {
				_, _ = io.WriteString(w, `{"count":1,"items":[{"id":11,"code":"SKU-1"}]}`)
				return
			}
			_, _ = io.WriteString(w, `{"count":0,"items":[]}`)
		},
	})
	client := newTestClient(t, srv.URL)

	found, err := client.Variants.FindByCode(context.Background(), "SKU-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 11, found.ID)

	missing, err := client.Variants.FindByCode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
