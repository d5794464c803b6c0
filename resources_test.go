package bsale

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/testutil"
)

// TestResourceGet checks the path and envelope key of every single-entity
// lookup.
func TestResourceGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		key  string
		call func(ctx context.Context, c *Client) (any, error)
	}{
		{"/offices/4.json", "office", func(ctx context.Context, c *Client) (any, error) { return c.Offices.Get(ctx, 4) }},
		{"/users/4.json", "user", func(ctx context.Context, c *Client) (any, error) { return c.Users.Get(ctx, 4) }},
		{"/coins/4.json", "coin", func(ctx context.Context, c *Client) (any, error) { return c.Currencies.Get(ctx, 4) }},
		{"/document_types/4.json", "document_type", func(ctx context.Context, c *Client) (any, error) { return c.DocumentTypes.Get(ctx, 4) }},
		{"/payment_types/4.json", "payment_type", func(ctx context.Context, c *Client) (any, error) { return c.PaymentMethods.Get(ctx, 4) }},
		{"/sale_conditions/4.json", "sale_condition", func(ctx context.Context, c *Client) (any, error) { return c.SaleConditions.Get(ctx, 4) }},
		{"/discounts/4.json", "discount", func(ctx context.Context, c *Client) (any, error) { return c.Discounts.Get(ctx, 4) }},
		{"/taxes/4.json", "tax", func(ctx context.Context, c *Client) (any, error) { return c.Taxes.Get(ctx, 4) }},
		{"/shipping_types/4.json", "shipping_type", func(ctx context.Context, c *Client) (any, error) { return c.ShipmentTypes.Get(ctx, 4) }},
		{"/dynamic_attributes/4.json", "dynamic_attribute", func(ctx context.Context, c *Client) (any, error) { return c.DynamicAttributes.Get(ctx, 4) }},
		{"/dynamic_attributes/4/details/9.json", "detail", func(ctx context.Context, c *Client) (any, error) { return c.DynamicAttributes.GetDetail(ctx, 4, 9) }},
		{"/variants/4.json", "variant", func(ctx context.Context, c *Client) (any, error) { return c.Variants.Get(ctx, 4) }},
		{"/stocks/4.json", "stock", func(ctx context.Context, c *Client) (any, error) { return c.Stocks.Get(ctx, 4) }},
		{"/price_lists/4.json", "price_list", func(ctx context.Context, c *Client) (any, error) { return c.PriceLists.Get(ctx, 4) }},
		{"/documents/4.json", "document", func(ctx context.Context, c *Client) (any, error) { return c.Documents.Get(ctx, 4) }},
		{"/clients/4.json", "client", func(ctx context.Context, c *Client) (any, error) { return c.Clients.Get(ctx, 4) }},
		{"/payments/4.json", "payment", func(ctx context.Context, c *Client) (any, error) { return c.Payments.Get(ctx, 4) }},
		{"/webhooks/4.json", "webhook", func(ctx context.Context, c *Client) (any, error) { return c.Webhooks.Get(ctx, 4) }},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			body, err := json.Marshal(map[string]any{tt.key: map[string]any{"id": 4}})
			require.NoError(t, err)

			srv := testutil.NewMockServer(t, tt.path, testutil.TestToken, string(body), http.StatusOK)
			client := newTestClient(t, srv.URL)

			got, err := tt.call(context.Background(), client)
			require.NoError(t, err)

			raw, err := json.Marshal(got)
			require.NoError(t, err)
			var decoded struct {
				ID FlexString `json:"id"`
			}
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, FlexString("4"), decoded.ID, "entity is unwrapped from %q", tt.key)
		})
	}
}

func TestResourceCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		call func(ctx context.Context, c *Client) (int, error)
	}{
		{"/offices/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Offices.Count(ctx, nil) }},
		{"/coins/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Currencies.Count(ctx, nil) }},
		{"/document_types/count.json", func(ctx context.Context, c *Client) (int, error) { return c.DocumentTypes.Count(ctx, nil) }},
		{"/payment_types/count.json", func(ctx context.Context, c *Client) (int, error) { return c.PaymentMethods.Count(ctx, nil) }},
		{"/sale_conditions/count.json", func(ctx context.Context, c *Client) (int, error) { return c.SaleConditions.Count(ctx, nil) }},
		{"/discounts/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Discounts.Count(ctx, nil) }},
		{"/taxes/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Taxes.Count(ctx, nil) }},
		{"/price_lists/count.json", func(ctx context.Context, c *Client) (int, error) { return c.PriceLists.Count(ctx) }},
		{"/documents/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Documents.Count(ctx, nil) }},
		{"/clients/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Clients.Count(ctx, nil) }},
		{"/payments/count.json", func(ctx context.Context, c *Client) (int, error) { return c.Payments.Count(ctx, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			srv := testutil.NewMockServer(t, tt.path, testutil.TestToken, `{"count": 17}`, http.StatusOK)
			client := newTestClient(t, srv.URL)

			n, err := tt.call(context.Background(), client)
			require.NoError(t, err)
			assert.Equal(t, 17, n)
		})
	}
}

func TestDocumentsDelete(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/documents/10.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "3", r.URL.Query().Get("officeId"))
			w.WriteHeader(http.StatusNoContent)
		},
	})
	client := newTestClient(t, srv.URL)

	require.NoError(t, client.Documents.Delete(context.Background(), 10, 3))
}

func TestDocumentsListByDateRange(t *testing.T) {
	t.Parallel()

	const total = 120
	var calls atomic.Int32
	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/documents.json": func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			q := r.URL.Query()
			assert.Equal(t, "[1700000000,1700086400]", q.Get("emissiondaterange"))
			assert.Equal(t, "39", q.Get("documenttypeid"))

			offset, _ := strconv.Atoi(q.Get("offset"))
			limit, _ := strconv.Atoi(q.Get("limit"))
			page := Page[Document]{Count: total, Limit: limit, Offset: offset}
			for i := offset; i < total && i < offset+limit; i++ {
				page.Items = append(page.Items, Document{ID: i + 1})
			}
			testutil.WriteJSON(t, w, http.StatusOK, page)
		},
	})
	client := newTestClient(t, srv.URL)

	docs, err := client.Documents.ListByDateRange(context.Background(), 1700000000, 1700086400, 39)
	require.NoError(t, err)
	require.Len(t, docs, total)
	assert.Equal(t, 1, docs[0].ID)
	assert.Equal(t, total, docs[total-1].ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientsUpdatePoints(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/clients/points.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			var req UpdatePointsRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, PointsAdd, req.Type)
			assert.InDelta(t, 25.0, req.Points, 0.001)
			_, _ = io.WriteString(w, `{"points": 125}`)
		},
	})
	client := newTestClient(t, srv.URL)

	raw, err := client.Clients.UpdatePoints(context.Background(), &UpdatePointsRequest{Type: PointsAdd, ClientID: 8, Points: 25})
	require.NoError(t, err)
	assert.JSONEq(t, `{"points": 125}`, string(raw))
}

func TestConfigurationHelpers(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/coins/2/exchange_rate/1700000000.json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"exchangeRate": 935.5}`)
		},
		"/document_types/number_availables.json": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "33", q.Get("codesii"))
			assert.False(t, q.Has("nextnumber"))
			_, _ = io.WriteString(w, `{"numbers_available": 120, "last": 880}`)
		},
		"/v2/discounts/details/6.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = io.WriteString(w, `{"id": 6}`)
		},
		"/users/sales_summary.json": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "5", q.Get("userid"))
			assert.Equal(t, "100", q.Get("startdate"))
			assert.Equal(t, "200", q.Get("enddate"))
			_, _ = io.WriteString(w, `{"totalSales": 1500}`)
		},
	})
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	rate, err := client.Currencies.GetExchangeRate(ctx, 2, 1700000000)
	require.NoError(t, err)
	assert.InDelta(t, 935.5, rate, 0.0001)

	folios, err := client.DocumentTypes.GetAvailableFolios(ctx, &FolioParams{CodeSII: "33", NextNumber: 9})
	require.NoError(t, err)
	assert.Equal(t, 120, folios.NumbersAvailable)
	assert.Equal(t, 880, folios.Last)

	id, err := client.Discounts.DeleteDetail(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, id)

	summary, err := client.Users.GetSalesSummary(ctx, 5, 100, 200)
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, summary.TotalSales, 0.001)
}
