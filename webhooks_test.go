package bsale

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/go-bsale/internal/testutil"
)

func TestWebhookRegistrationValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		reg        WebhookRegistration
		wantFields []string
	}{
		{
			name: "valid",
			reg:  WebhookRegistration{URL: "https://shop.example/hooks", Topic: TopicStock, Active: 1},
		},
		{
			name:       "missing url",
			reg:        WebhookRegistration{Topic: TopicDocument, Active: 1},
			wantFields: []string{"url"},
		},
		{
			name:       "relative url and unknown topic",
			reg:        WebhookRegistration{URL: "/hooks", Topic: "orders", Active: 1},
			wantFields: []string{"topic", "url"},
		},
		{
			name:       "active out of range",
			reg:        WebhookRegistration{URL: "https://shop.example/hooks", Topic: TopicPrice, Active: 2},
			wantFields: []string{"active"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				_, _ = io.WriteString(w, `{"id": 1}`)
			}))
			t.Cleanup(srv.Close)

			client := newTestClient(t, srv.URL)
			_, err := client.Webhooks.Create(context.Background(), tt.reg)

			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, int32(1), hits.Load())
				return
			}

			bErr := requireKind(t, err, KindValidation)
			fields := make([]string, 0, len(bErr.Errors))
			for _, fe := range bErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Zero(t, hits.Load(), "invalid registrations are not sent")
		})
	}
}

func TestWebhooksRegisterMultiple(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/webhooks.json": func(w http.ResponseWriter, r *http.Request) {
			var reg WebhookRegistration
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&reg))

			if reg.Topic == TopicPayment {
				testutil.WriteJSON(t, w, http.StatusUnprocessableEntity, map[string]any{"message": "duplicate topic"})
				return
			}

			id := created.Add(1)
			testutil.WriteJSON(t, w, http.StatusCreated, map[string]any{
				"webhook": map[string]any{"id": id, "url": reg.URL, "topic": reg.Topic, "active": reg.Active},
			})
		},
	})
	client := newTestClient(t, srv.URL)

	hooks, err := client.Webhooks.RegisterMultiple(context.Background(), []WebhookRegistration{
		{URL: "https://shop.example/stock", Topic: TopicStock, Active: 1},
		{URL: "not a url", Topic: TopicProduct, Active: 1},
		{URL: "https://shop.example/payment", Topic: TopicPayment, Active: 1},
		{URL: "https://shop.example/document", Topic: TopicDocument, Active: 0},
	})

	require.Len(t, hooks, 2, "every valid registration is attempted")
	assert.Equal(t, TopicStock, hooks[0].Topic)
	assert.Equal(t, TopicDocument, hooks[1].Topic)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 2)
	assert.True(t, IsKind(merr.Errors[0], KindValidation))
	assert.True(t, IsKind(merr.Errors[1], KindValidation))
	assert.Contains(t, merr.Errors[0].Error(), "registration 1 (product)")
	assert.Contains(t, merr.Errors[1].Error(), "duplicate topic")

	var bErr *Error
	assert.True(t, errors.As(err, &bErr), "kinds stay reachable through the aggregate")
}

func TestWebhooksUpdateAndSetActive(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := testutil.NewMockServerMulti(t, map[string]http.HandlerFunc{
		"/webhooks/3.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			testutil.WriteJSON(t, w, http.StatusOK, map[string]any{"webhook": map[string]any{"id": 3, "active": 0}})
		},
	})
	client := newTestClient(t, srv.URL)

	hook, err := client.Webhooks.SetActive(context.Background(), 3, false)
	require.NoError(t, err)
	assert.Equal(t, 0, hook.Active)
	assert.Equal(t, map[string]any{"active": float64(0)}, body, "only the active flag is sent")

	_, err = client.Webhooks.Update(context.Background(), 3, WebhookUpdate{Active: Ptr(5)})
	requireKind(t, err, KindValidation)
}

func TestWebhooksFindByTopic(t *testing.T) {
	t.Parallel()

	srv := testutil.NewMockServer(t, "/webhooks.json", testutil.TestToken, `{"count":3,"items":[
		{"id":1,"topic":"stock"},{"id":2,"topic":"price"},{"id":3,"topic":"stock"}
	]}`, http.StatusOK)
	client := newTestClient(t, srv.URL)

	found, err := client.Webhooks.FindByTopic(context.Background(), TopicStock)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].ID)
	assert.Equal(t, 3, found[1].ID)
}

func TestWebhooksGetInstance(t *testing.T) {
	t.Parallel()

	var token, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("access_token")
		path = r.URL.Path
		_, _ = io.WriteString(w, `{"id":"1234","code":"76.543.210-K","name":"Tienda","state":0,"country":"CL","trial":0}`)
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, "https://api.invalid/v1")
	client.engine.credentialBaseURL = srv.URL + "/v1"
	client.UpdateCredentials(Credentials{AccessToken: "expired", ExpiresAt: testNow.Add(-time.Hour)})

	info, err := client.Webhooks.GetInstance(context.Background(), "abc123")
	require.NoError(t, err, "instance lookup works with expired credentials")

	assert.Equal(t, "/v1/instances/basic/abc123.json", path)
	assert.Empty(t, token, "no access token is sent to the credential service")
	assert.Equal(t, FlexString("1234"), info.ID)
	assert.Equal(t, "Tienda", info.Name)

	_, err = client.Webhooks.GetInstance(context.Background(), "")
	requireKind(t, err, KindValidation)
}

func TestParseWebhookPayload(t *testing.T) {
	t.Parallel()

	p, err := ParseWebhookPayload([]byte(`{"cpnId":2,"resource":"/v2/stocks.json?variant=1&office=1","resourceId":"1",
		"topic":"stock","action":"put","officeId":"1","send":1503500856}`))
	require.NoError(t, err)
	assert.Equal(t, TopicStock, p.Topic)
	assert.Equal(t, "1", p.OfficeID)

	_, err = ParseWebhookPayload([]byte(`{"topic":"weather","action":"put"}`))
	requireKind(t, err, KindValidation)

	_, err = ParseWebhookPayload([]byte(`{`))
	requireKind(t, err, KindBase)
}
