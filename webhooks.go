package bsale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
)

// Webhook topics.
const (
	TopicStock    = "stock"
	TopicDocument = "document"
	TopicProduct  = "product"
	TopicVariant  = "variant"
	TopicPrice    = "price"
	TopicPayment  = "payment"
	TopicClient   = "client"
)

// Webhook actions carried by notifications.
const (
	ActionPost   = "post"
	ActionPut    = "put"
	ActionDelete = "delete"
)

var webhookTopics = []any{
	TopicStock, TopicDocument, TopicProduct, TopicVariant, TopicPrice, TopicPayment, TopicClient,
}

// Webhook is a registered notification endpoint.
type Webhook struct {
	Href   string `json:"href"`
	ID     int    `json:"id"`
	URL    string `json:"url"`
	Topic  string `json:"topic"`
	Active int    `json:"active"`
}

// WebhookRegistration is the body of Webhooks.Create. Active is 0 or 1.
type WebhookRegistration struct {
	URL    string `json:"url"`
	Topic  string `json:"topic"`
	Active int    `json:"active"`
}

// Validate checks the registration locally.
func (r WebhookRegistration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&r.Topic, validation.Required, validation.In(webhookTopics...)),
		validation.Field(&r.Active, validation.In(0, 1)),
	)
}

// WebhookUpdate is a partial update; unset fields are left unchanged.
type WebhookUpdate struct {
	URL    string `json:"url,omitempty"`
	Topic  string `json:"topic,omitempty"`
	Active *int   `json:"active,omitempty"`
}

// Validate checks the fields that are set.
func (u WebhookUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.URL, validation.By(absoluteHTTPURL)),
		validation.Field(&u.Topic, validation.In(webhookTopics...)),
		validation.Field(&u.Active, validation.By(activeFlag)),
	)
}

func activeFlag(value any) error {
	p, _ := value.(*int)
	if p == nil || *p == 0 || *p == 1 {
		return nil
	}
	return errors.New("must be 0 or 1")
}

// WebhookPayload is the body Bsale posts to a webhook URL. OfficeID is set
// for document, stock and payment topics, PriceListID for price.
type WebhookPayload struct {
	CompanyID   int    `json:"cpnId"`
	Resource    string `json:"resource"`
	ResourceID  string `json:"resourceId"`
	Topic       string `json:"topic"`
	Action      string `json:"action"`
	Send        int64  `json:"send"`
	OfficeID    string `json:"officeId,omitempty"`
	PriceListID string `json:"priceListId,omitempty"`
}

// ParseWebhookPayload decodes a notification body.
func ParseWebhookPayload(data []byte) (*WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, NewError("Failed to decode webhook payload", err)
	}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.Topic, validation.Required, validation.In(webhookTopics...)),
		validation.Field(&p.Action, validation.In(ActionPost, ActionPut, ActionDelete)),
	)
	if err != nil {
		return nil, validationError("Invalid webhook payload", err)
	}

	return &p, nil
}

// InstanceInfo describes the Bsale instance a webhook token belongs to.
type InstanceInfo struct {
	ID       FlexString `json:"id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	State    int        `json:"state"`
	Country  string     `json:"country"`
	Trial    int        `json:"trial"`
	TrialEnd int64      `json:"trialEnd,omitempty"`
}

// WebhooksService handles /webhooks.
type WebhooksService struct {
	engine *Engine
}

// NewWebhooksService returns a WebhooksService backed by engine.
func NewWebhooksService(engine *Engine) *WebhooksService {
	return &WebhooksService{engine: engine}
}

// List returns the registered webhooks.
func (s *WebhooksService) List(ctx context.Context) (*Page[Webhook], error) {
	return listPage[Webhook](ctx, s.engine, "/webhooks.json", nil)
}

// Get returns a webhook.
func (s *WebhooksService) Get(ctx context.Context, webhookID int) (*Webhook, error) {
	return getItem[Webhook](ctx, s.engine, webhookPath(webhookID), "webhook", nil)
}

// Create registers a webhook. Invalid registrations fail with a validation
// error and no request is sent.
func (s *WebhooksService) Create(ctx context.Context, registration WebhookRegistration) (*Webhook, error) {
	if err := registration.Validate(); err != nil {
		return nil, validationError("Invalid webhook registration", err)
	}
	return sendItem[Webhook](ctx, s.engine, http.MethodPost, "/webhooks.json", "webhook", registration)
}

// Update applies a partial update to a webhook.
func (s *WebhooksService) Update(ctx context.Context, webhookID int, updates WebhookUpdate) (*Webhook, error) {
	if err := updates.Validate(); err != nil {
		return nil, validationError("Invalid webhook update", err)
	}
	return sendItem[Webhook](ctx, s.engine, http.MethodPut, webhookPath(webhookID), "webhook", updates)
}

// Delete removes a webhook.
func (s *WebhooksService) Delete(ctx context.Context, webhookID int) error {
	return s.engine.Delete(ctx, webhookPath(webhookID), nil)
}

// GetInstance resolves the instance behind a webhook token. The call goes
// to the credential service and carries no access token, so it works with
// expired credentials.
func (s *WebhooksService) GetInstance(ctx context.Context, token string) (*InstanceInfo, error) {
	if token == "" {
		return nil, NewValidationError("Invalid instance token", []FieldError{{Field: "token", Message: "cannot be blank"}})
	}

	return doTyped[InstanceInfo](ctx, s.engine, &Request{
		Method:    http.MethodGet,
		Path:      "/instances/basic/" + url.PathEscape(token) + ".json",
		baseURL:   s.engine.credentialBaseURL,
		anonymous: true,
	})
}

// FindByTopic returns the webhooks registered for topic.
func (s *WebhooksService) FindByTopic(ctx context.Context, topic string) ([]Webhook, error) {
	page, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var found []Webhook
	for _, w := range page.Items {
		if w.Topic == topic {
			found = append(found, w)
		}
	}

	return found, nil
}

// RegisterMultiple creates every registration in order. It does not stop at
// the first failure: the webhooks that were created are returned together
// with a *multierror.Error holding one entry per failed registration.
func (s *WebhooksService) RegisterMultiple(ctx context.Context, registrations []WebhookRegistration) ([]Webhook, error) {
	created := make([]Webhook, 0, len(registrations))
	var result *multierror.Error

	for i, registration := range registrations {
		w, err := s.Create(ctx, registration)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "registration %d (%s)", i, registration.Topic))
			continue
		}
		if w != nil {
			created = append(created, *w)
		}
	}

	return created, result.ErrorOrNil()
}

// SetActive enables or disables a webhook.
func (s *WebhooksService) SetActive(ctx context.Context, webhookID int, active bool) (*Webhook, error) {
	flag := 0
	if active {
		flag = 1
	}
	return s.Update(ctx, webhookID, WebhookUpdate{Active: &flag})
}

func webhookPath(webhookID int) string {
	return "/webhooks/" + strconv.Itoa(webhookID) + ".json"
}

// validationError converts ozzo validation errors into a validation *Error
// with one FieldError per field, sorted by field name.
func validationError(message string, err error) *Error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return NewValidationError(message, []FieldError{{Message: err.Error()}})
	}

	details := make([]FieldError, 0, len(fields))
	for field, ferr := range fields {
		details = append(details, FieldError{Field: field, Message: ferr.Error()})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })

	return NewValidationError(message, details)
}
