package bsale

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Customer is a Bsale client (a buyer). The name avoids a clash with the
// API Client.
type Customer struct {
	Href             string       `json:"href"`
	ID               int          `json:"id"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Code             string       `json:"code"`
	Phone            string       `json:"phone"`
	Company          string       `json:"company"`
	Email            string       `json:"email"`
	HasCredit        int          `json:"hasCredit"`
	MaxCredit        float64      `json:"maxCredit"`
	State            int          `json:"state"`
	Activity         string       `json:"activity"`
	City             string       `json:"city"`
	Municipality     string       `json:"municipality"`
	CompanyOrPerson  int          `json:"companyOrPerson"`
	AccumulatePoints int          `json:"accumulatePoints"`
	Points           float64      `json:"points"`
	SendDTE          int          `json:"sendDte"`
	Note             string       `json:"note"`
	Facebook         string       `json:"facebook"`
	Twitter          string       `json:"twitter"`
	PaymentType      *ResourceRef `json:"payment_type,omitempty"`
	SaleCondition    *ResourceRef `json:"sale_condition,omitempty"`
	Contacts         *ResourceRef `json:"contacts,omitempty"`
	Attributes       *ResourceRef `json:"attributes,omitempty"`
	Addresses        *ResourceRef `json:"addresses,omitempty"`
}

// CustomerContact is a contact person of a customer.
type CustomerContact struct {
	Href      string `json:"href"`
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	State     int    `json:"state"`
}

// CustomerAddress is a delivery or billing address of a customer.
type CustomerAddress struct {
	Href         string `json:"href"`
	ID           int    `json:"id"`
	AddressName  string `json:"addressName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	State        int    `json:"state"`
}

// CustomerAttribute is a dynamic attribute value of a customer.
type CustomerAttribute struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UnpaidDocument is an outstanding document of a customer.
type UnpaidDocument struct {
	ID             int     `json:"id"`
	Number         int     `json:"number"`
	TotalAmount    float64 `json:"totalAmount"`
	ExpirationDate int64   `json:"expirationDate"`
	DocumentType   string  `json:"documentType"`
}

// UnpaidDocuments is the debt report of a customer.
type UnpaidDocuments struct {
	OverdueDebt       float64          `json:"overdueDebt"`
	UpcomingDebt      float64          `json:"upcomingDebt"`
	TotalDebt         float64          `json:"totalDebt"`
	OverdueDocuments  []UnpaidDocument `json:"overdue_documents"`
	UpcomingDocuments []UnpaidDocument `json:"upcoming_documents"`
}

// ListClientsParams filters Clients.List.
type ListClientsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Code             string `query:"code,omitempty"`
	FirstName        string `query:"firstname,omitempty"`
	LastName         string `query:"lastname,omitempty"`
	Email            string `query:"email,omitempty"`
	PaymentTypeID    int    `query:"paymenttypeid,omitempty"`
	SalesConditionID int    `query:"salesconditionid,omitempty"`
	State            *int   `query:"state,omitempty"`
}

// ListAddressesParams filters Clients.ListAddresses.
type ListAddressesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Address      string `query:"address,omitempty"`
	City         string `query:"city,omitempty"`
	Municipality string `query:"municipality,omitempty"`
	State        *int   `query:"state,omitempty"`
}

// DynamicAttributeValue sets a dynamic attribute.
type DynamicAttributeValue struct {
	Description        string `json:"description"`
	DynamicAttributeID int    `json:"dynamicAttributeId"`
}

// CreateClientRequest is the body of Clients.Create.
type CreateClientRequest struct {
	FirstName         string                  `json:"firstName"`
	LastName          string                  `json:"lastName"`
	Email             string                  `json:"email"`
	Code              string                  `json:"code,omitempty"`
	IsForeigner       *int                    `json:"isForeigner,omitempty"`
	Phone             string                  `json:"phone,omitempty"`
	Company           string                  `json:"company,omitempty"`
	Activity          string                  `json:"activity,omitempty"`
	City              string                  `json:"city,omitempty"`
	Municipality      string                  `json:"municipality,omitempty"`
	Address           string                  `json:"address,omitempty"`
	HasCredit         *int                    `json:"hasCredit,omitempty"`
	MaxCredit         float64                 `json:"maxCredit,omitempty"`
	AccumulatePoints  *int                    `json:"accumulatePoints,omitempty"`
	Note              string                  `json:"note,omitempty"`
	Facebook          string                  `json:"facebook,omitempty"`
	Twitter           string                  `json:"twitter,omitempty"`
	DynamicAttributes []DynamicAttributeValue `json:"dynamicAttributes,omitempty"`
}

// UpdateClientRequest is the body of Clients.Update.
type UpdateClientRequest struct {
	FirstName        string  `json:"firstName,omitempty"`
	LastName         string  `json:"lastName,omitempty"`
	Email            string  `json:"email,omitempty"`
	Code             string  `json:"code,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	Company          string  `json:"company,omitempty"`
	Activity         string  `json:"activity,omitempty"`
	City             string  `json:"city,omitempty"`
	Municipality     string  `json:"municipality,omitempty"`
	Address          string  `json:"address,omitempty"`
	HasCredit        *int    `json:"hasCredit,omitempty"`
	MaxCredit        float64 `json:"maxCredit,omitempty"`
	AccumulatePoints *int    `json:"accumulatePoints,omitempty"`
	Note             string  `json:"note,omitempty"`
	Facebook         string  `json:"facebook,omitempty"`
	Twitter          string  `json:"twitter,omitempty"`
}

// CreateContactRequest is the body of Clients.CreateContact.
type CreateContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// AddressRequest is the body of Clients.CreateAddress and
// Clients.UpdateAddress.
type AddressRequest struct {
	AddressName  string `json:"addressName,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Municipality string `json:"municipality,omitempty"`
}

// Point movement types.
const (
	PointsAdd      = 0
	PointsSubtract = 1
)

// UpdatePointsRequest adds or subtracts loyalty points.
type UpdatePointsRequest struct {
	Type        int     `json:"type"`
	ClientID    int     `json:"clientId"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
	OrderID     int     `json:"orderId,omitempty"`
}

// ClientsService handles /clients.
type ClientsService struct {
	engine *Engine
}

// NewClientsService returns a ClientsService backed by engine.
func NewClientsService(engine *Engine) *ClientsService {
	return &ClientsService{engine: engine}
}

// List returns one page of customers.
func (s *ClientsService) List(ctx context.Context, params *ListClientsParams) (*Page[Customer], error) {
	return listPage[Customer](ctx, s.engine, "/clients.json", params)
}

// Get returns a customer.
func (s *ClientsService) Get(ctx context.Context, clientID int, expand ...string) (*Customer, error) {
	return getItem[Customer](ctx, s.engine, clientPath(clientID), "client", expandParams(expand))
}

// Count returns the number of customers, optionally restricted to a state
// (StateDeleted included).
func (s *ClientsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/clients/count.json", stateParams(state))
}

// Create creates a customer.
func (s *ClientsService) Create(ctx context.Context, client *CreateClientRequest) (*Customer, error) {
	return sendItem[Customer](ctx, s.engine, http.MethodPost, "/clients.json", "client", client)
}

// Update updates a customer.
func (s *ClientsService) Update(ctx context.Context, clientID int, updates *UpdateClientRequest) (*Customer, error) {
	return sendItem[Customer](ctx, s.engine, http.MethodPut, clientPath(clientID), "client", updates)
}

// Delete marks a customer deleted and returns it.
func (s *ClientsService) Delete(ctx context.Context, clientID int) (*Customer, error) {
	return sendItem[Customer](ctx, s.engine, http.MethodDelete, clientPath(clientID), "client", nil)
}

// ListContacts returns the contacts of a customer.
func (s *ClientsService) ListContacts(ctx context.Context, clientID int) (*Page[CustomerContact], error) {
	return listPage[CustomerContact](ctx, s.engine, clientSubPath(clientID, "contacts"), nil)
}

// GetContact returns one contact of a customer.
func (s *ClientsService) GetContact(ctx context.Context, clientID, contactID int) (*CustomerContact, error) {
	return getItem[CustomerContact](ctx, s.engine, clientItemPath(clientID, "contacts", contactID), "contact", nil)
}

// CreateContact adds a contact to a customer.
func (s *ClientsService) CreateContact(ctx context.Context, clientID int, contact *CreateContactRequest) (*CustomerContact, error) {
	return sendItem[CustomerContact](ctx, s.engine, http.MethodPost, clientSubPath(clientID, "contacts"), "contact", contact)
}

// DeleteContact removes a contact.
func (s *ClientsService) DeleteContact(ctx context.Context, clientID, contactID int) error {
	return s.engine.Delete(ctx, clientItemPath(clientID, "contacts", contactID), nil)
}

// ListAddresses returns one page of addresses of a customer.
func (s *ClientsService) ListAddresses(ctx context.Context, clientID int, params *ListAddressesParams) (*Page[CustomerAddress], error) {
	return listPage[CustomerAddress](ctx, s.engine, clientSubPath(clientID, "addresses"), params)
}

// GetAddress returns one address of a customer.
func (s *ClientsService) GetAddress(ctx context.Context, clientID, addressID int) (*CustomerAddress, error) {
	return getItem[CustomerAddress](ctx, s.engine, clientItemPath(clientID, "addresses", addressID), "address", nil)
}

// CreateAddress adds an address to a customer.
func (s *ClientsService) CreateAddress(ctx context.Context, clientID int, address *AddressRequest) (*CustomerAddress, error) {
	return sendItem[CustomerAddress](ctx, s.engine, http.MethodPost, clientSubPath(clientID, "addresses"), "address", address)
}

// UpdateAddress updates an address.
func (s *ClientsService) UpdateAddress(ctx context.Context, clientID, addressID int, updates *AddressRequest) (*CustomerAddress, error) {
	return sendItem[CustomerAddress](ctx, s.engine, http.MethodPut, clientItemPath(clientID, "addresses", addressID), "address", updates)
}

// DeleteAddress removes an address.
func (s *ClientsService) DeleteAddress(ctx context.Context, clientID, addressID int) error {
	return s.engine.Delete(ctx, clientItemPath(clientID, "addresses", addressID), nil)
}

// ListAttributes returns the dynamic attributes of a customer.
func (s *ClientsService) ListAttributes(ctx context.Context, clientID int) (*Page[CustomerAttribute], error) {
	return listPage[CustomerAttribute](ctx, s.engine, clientSubPath(clientID, "attributes"), nil)
}

// UpdatePoints adds or subtracts loyalty points. The response is returned
// undecoded.
func (s *ClientsService) UpdatePoints(ctx context.Context, request *UpdatePointsRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.engine.Put(ctx, "/clients/points.json", request, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListPurchases returns the purchase history of a customer, identified by
// id or by code (the other left zero).
func (s *ClientsService) ListPurchases(ctx context.Context, clientID int, code string) (*Page[json.RawMessage], error) {
	params := Params{}
	if clientID != 0 {
		params["clientid"] = clientID
	}
	if code != "" {
		params["code"] = code
	}
	return listPage[json.RawMessage](ctx, s.engine, "/clients/purchases.json", params)
}

// GetUnpaidDocuments returns the debt of a customer. A zero comparisonDate
// lets the API use today.
func (s *ClientsService) GetUnpaidDocuments(ctx context.Context, clientID int, comparisonDate int64) (*UnpaidDocuments, error) {
	params := Params{"clientid": clientID}
	if comparisonDate != 0 {
		params["comparisondate"] = comparisonDate
	}
	return Get[UnpaidDocuments](ctx, s.engine, "/clients/unpaid_documents.json", params)
}

// FindByCode returns the customer with the given tax id (RUT), or nil.
func (s *ClientsService) FindByCode(ctx context.Context, code string) (*Customer, error) {
	page, err := s.List(ctx, &ListClientsParams{Pagination: Pagination{Limit: 1}, Code: code})
	if err != nil {
		return nil, err
	}
	return firstItem(page), nil
}

// FindByEmail returns the customer with the given email, or nil.
func (s *ClientsService) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	page, err := s.List(ctx, &ListClientsParams{Pagination: Pagination{Limit: 1}, Email: email})
	if err != nil {
		return nil, err
	}
	return firstItem(page), nil
}

func clientPath(clientID int) string {
	return "/clients/" + strconv.Itoa(clientID) + ".json"
}

func clientSubPath(clientID int, sub string) string {
	return "/clients/" + strconv.Itoa(clientID) + "/" + sub + ".json"
}

func clientItemPath(clientID int, sub string, itemID int) string {
	return "/clients/" + strconv.Itoa(clientID) + "/" + sub + "/" + strconv.Itoa(itemID) + ".json"
}
