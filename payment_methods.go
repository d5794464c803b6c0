package bsale

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// PaymentMethod is a way of paying (cash, card, cheque, credit note...).
type PaymentMethod struct {
	Href              string       `json:"href"`
	ID                int          `json:"id"`
	Name              string       `json:"name"`
	IsCash            int          `json:"isCash"`
	IsCheck           int          `json:"isCheck"`
	MaxCheck          int          `json:"maxCheck,omitempty"`
	IsCreditNote      int          `json:"isCreditNote"`
	IsClientCredit    int          `json:"isClientCredit"`
	IsCreditMemo      int          `json:"isCreditMemo"`
	IsVirtual         int          `json:"isVirtual"`
	State             int          `json:"state"`
	LedgerAccount     string       `json:"ledgerAccount"`
	IsAgreementBank   int          `json:"isAgreementBank"`
	AgreementCode     string       `json:"agreementCode,omitempty"`
	DynamicAttributes *ResourceRef `json:"dynamic_attributes,omitempty"`
}

// ListPaymentMethodsParams filters PaymentMethods.List.
type ListPaymentMethodsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name          string `query:"name,omitempty"`
	LedgerAccount string `query:"ledgeraccount,omitempty"`
	State         *int   `query:"state,omitempty"`
}

// CreatePaymentMethodRequest is the body of PaymentMethods.Create.
type CreatePaymentMethodRequest struct {
	Name          string `json:"name"`
	IsCheck       *int   `json:"isCheck,omitempty"`
	MaxCheck      int    `json:"maxCheck,omitempty"`
	LedgerAccount string `json:"ledgerAccount,omitempty"`
	LedgerCode    string `json:"ledgerCode,omitempty"`
}

// PaymentMethodsService handles /payment_types.
type PaymentMethodsService struct {
	engine *Engine
}

// NewPaymentMethodsService returns a PaymentMethodsService backed by engine.
func NewPaymentMethodsService(engine *Engine) *PaymentMethodsService {
	return &PaymentMethodsService{engine: engine}
}

// List returns one page of payment methods.
func (s *PaymentMethodsService) List(ctx context.Context, params *ListPaymentMethodsParams) (*Page[PaymentMethod], error) {
	return listPage[PaymentMethod](ctx, s.engine, "/payment_types.json", params)
}

// Get returns a payment method.
func (s *PaymentMethodsService) Get(ctx context.Context, paymentTypeID int) (*PaymentMethod, error) {
	return getItem[PaymentMethod](ctx, s.engine, "/payment_types/"+strconv.Itoa(paymentTypeID)+".json", "payment_type", nil)
}

// Count returns the number of payment methods.
func (s *PaymentMethodsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/payment_types/count.json", stateParams(state))
}

// Create creates a payment method.
func (s *PaymentMethodsService) Create(ctx context.Context, method *CreatePaymentMethodRequest) (*PaymentMethod, error) {
	return sendItem[PaymentMethod](ctx, s.engine, http.MethodPost, "/payment_types.json", "payment_type", method)
}

// ListDynamicAttributes returns the dynamic attributes of a payment method.
func (s *PaymentMethodsService) ListDynamicAttributes(ctx context.Context, paymentTypeID int) (*Page[json.RawMessage], error) {
	return listPage[json.RawMessage](ctx, s.engine, "/payment_types/"+strconv.Itoa(paymentTypeID)+"/dynamic_attributes.json", nil)
}
