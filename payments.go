package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// Payment is a payment recorded against one or more documents.
type Payment struct {
	Href            string        `json:"href"`
	ID              int           `json:"id"`
	RecordDate      int64         `json:"recordDate"`
	Amount          float64       `json:"amount"`
	OperationNumber string        `json:"operationNumber,omitempty"`
	AccountingDate  string        `json:"accountingDate,omitempty"`
	CheckDate       int64         `json:"checkDate,omitempty"`
	CheckNumber     int64         `json:"checkNumber,omitempty"`
	CheckAmount     float64       `json:"checkAmount,omitempty"`
	CheckTaken      int           `json:"checkTaken,omitempty"`
	IsCreditPayment int           `json:"isCreditPayment,omitempty"`
	CreatedAt       int64         `json:"createdAt"`
	State           int           `json:"state"`
	PaymentType     *ResourceRef  `json:"payment_type,omitempty"`
	Document        *ResourceRef  `json:"document,omitempty"`
	Documents       []ResourceRef `json:"documents,omitempty"`
	Office          *ResourceRef  `json:"office,omitempty"`
	User            *ResourceRef  `json:"user,omitempty"`
}

// GroupedPayment totals payments per payment type and day.
type GroupedPayment struct {
	RecordDate             int64        `json:"recordDate"`
	PaymentTypeTotalAmount float64      `json:"paymentTypeTotalAmount"`
	PaymentTypeID          int          `json:"paymentTypeId"`
	PaymentTypeName        string       `json:"paymentTypeName"`
	IsCheck                int          `json:"isCheck"`
	IsCreditNote           int          `json:"isCreditNote"`
	IsClientCredit         int          `json:"isClientCredit"`
	IsCash                 int          `json:"isCash"`
	Details                *ResourceRef `json:"details,omitempty"`
}

// ListPaymentsParams filters Payments.List.
type ListPaymentsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	RecordDate int64 `query:"recorddate,omitempty"`
	DocumentID int   `query:"documentid,omitempty"`
	Number     int   `query:"number,omitempty"`
	State      *int  `query:"state,omitempty"`
}

// ListGroupedPaymentsParams filters Payments.ListGrouped.
type ListGroupedPaymentsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	RecordDate    int64  `query:"recorddate,omitempty"`
	CodeSII       string `query:"codesii,omitempty"`
	DocumentID    int    `query:"documentid,omitempty"`
	OfficeID      int    `query:"officeid,omitempty"`
	PaymentTypeID int    `query:"paymenttypeid,omitempty"`
}

// CreatePaymentRequest is the body of Payments.Create.
type CreatePaymentRequest struct {
	RecordDate        int64                   `json:"recordDate"`
	Amount            float64                 `json:"amount"`
	DocumentID        int                     `json:"documentId"`
	PaymentTypeID     int                     `json:"paymentTypeId"`
	DynamicAttributes []DynamicAttributeValue `json:"dynamicAttributes,omitempty"`
}

// PaymentsService handles /payments.
type PaymentsService struct {
	engine *Engine
}

// NewPaymentsService returns a PaymentsService backed by engine.
func NewPaymentsService(engine *Engine) *PaymentsService {
	return &PaymentsService{engine: engine}
}

// List returns one page of payments.
func (s *PaymentsService) List(ctx context.Context, params *ListPaymentsParams) (*Page[Payment], error) {
	return listPage[Payment](ctx, s.engine, "/payments.json", params)
}

// Get returns a payment.
func (s *PaymentsService) Get(ctx context.Context, paymentID int, expand ...string) (*Payment, error) {
	return getItem[Payment](ctx, s.engine, "/payments/"+strconv.Itoa(paymentID)+".json", "payment", expandParams(expand))
}

// Count returns the number of payments.
func (s *PaymentsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/payments/count.json", stateParams(state))
}

// Create records a payment.
func (s *PaymentsService) Create(ctx context.Context, payment *CreatePaymentRequest) (*Payment, error) {
	return sendItem[Payment](ctx, s.engine, http.MethodPost, "/payments.json", "payment", payment)
}

// ListGrouped returns payment totals per payment type.
func (s *PaymentsService) ListGrouped(ctx context.Context, params *ListGroupedPaymentsParams) (*Page[GroupedPayment], error) {
	return listPage[GroupedPayment](ctx, s.engine, "/payments/group_payment_types.json", params)
}

// ListByDate returns up to 50 payments recorded at a Unix timestamp.
func (s *PaymentsService) ListByDate(ctx context.Context, recordDate int64) ([]Payment, error) {
	return s.firstPage(ctx, &ListPaymentsParams{Pagination: Pagination{Limit: MaxPageSize}, RecordDate: recordDate})
}

// ListByDocument returns up to 50 payments of a document.
func (s *PaymentsService) ListByDocument(ctx context.Context, documentID int) ([]Payment, error) {
	return s.firstPage(ctx, &ListPaymentsParams{Pagination: Pagination{Limit: MaxPageSize}, DocumentID: documentID})
}

func (s *PaymentsService) firstPage(ctx context.Context, params *ListPaymentsParams) ([]Payment, error) {
	page, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
