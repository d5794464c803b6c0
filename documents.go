package bsale

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Document uses.
const (
	DocumentUseSale       = 0
	DocumentUseReturn     = 1
	DocumentUseDispatch   = 2
	DocumentUseSettlement = 3
)

// Tax authority (SII) submission states.
const (
	SIIStatusCorrect   = 0
	SIIStatusSubmitted = 1
	SIIStatusRejected  = 2
)

// Document is a sales document: invoice, receipt, credit note, dispatch
// guide and so on.
type Document struct {
	Href           string `json:"href"`
	ID             int    `json:"id"`
	Number         int    `json:"number"`
	EmissionDate   int64  `json:"emissionDate"`
	ExpirationDate int64  `json:"expirationDate"`
	GenerationDate int64  `json:"generationDate"`
	State          int    `json:"state"`
	Token          string `json:"token"`

	NetAmount    float64 `json:"netAmount"`
	TaxAmount    float64 `json:"taxAmount"`
	TotalAmount  float64 `json:"totalAmount"`
	ExemptAmount float64 `json:"exemptAmount"`

	CommissionRate        float64 `json:"commissionRate,omitempty"`
	CommissionNetAmount   float64 `json:"commissionNetAmount,omitempty"`
	CommissionTaxAmount   float64 `json:"commissionTaxAmount,omitempty"`
	CommissionTotalAmount float64 `json:"commissionTotalAmount,omitempty"`

	ExportNetAmount    float64 `json:"exportNetAmount,omitempty"`
	ExportTaxAmount    float64 `json:"exportTaxAmount,omitempty"`
	ExportTotalAmount  float64 `json:"exportTotalAmount,omitempty"`
	ExportExemptAmount float64 `json:"exportExemptAmount,omitempty"`

	PercentageTaxWithheld float64 `json:"percentageTaxWithheld,omitempty"`
	PurchaseTaxAmount     float64 `json:"purchaseTaxAmount,omitempty"`
	PurchaseTotalAmount   float64 `json:"purchaseTotalAmount,omitempty"`

	TED            string `json:"ted,omitempty"`
	URLTimbre      string `json:"urlTimbre,omitempty"`
	URLXML         string `json:"urlXml,omitempty"`
	RCOFDate       int64  `json:"rcofDate,omitempty"`
	InformedSII    int    `json:"informedSii,omitempty"`
	ResponseMsgSII string `json:"responseMsgSii,omitempty"`

	URLPublicView         string `json:"urlPublicView,omitempty"`
	URLPdf                string `json:"urlPdf,omitempty"`
	URLPublicViewOriginal string `json:"urlPublicViewOriginal,omitempty"`
	URLPdfOriginal        string `json:"urlPdfOriginal,omitempty"`

	Address      string `json:"address,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	City         string `json:"city,omitempty"`
	UserID       int    `json:"userId,omitempty"`
	SalesID      string `json:"salesId,omitempty"`

	DocumentType  *ResourceRef `json:"document_type,omitempty"`
	Client        *ResourceRef `json:"client,omitempty"`
	Office        *ResourceRef `json:"office,omitempty"`
	User          *ResourceRef `json:"user,omitempty"`
	References    *ResourceRef `json:"references,omitempty"`
	DocumentTaxes *ResourceRef `json:"document_taxes,omitempty"`
	Details       *ResourceRef `json:"details,omitempty"`
	Sellers       *ResourceRef `json:"sellers,omitempty"`
	Payments      *ResourceRef `json:"payments,omitempty"`
	Attributes    *ResourceRef `json:"attributes,omitempty"`
}

// DocumentDetail is one line of a document.
type DocumentDetail struct {
	Href         string       `json:"href"`
	ID           int          `json:"id"`
	Comment      string       `json:"comment"`
	Quantity     float64      `json:"quantity"`
	NetUnitValue float64      `json:"netUnitValue"`
	NetAmount    float64      `json:"netAmount"`
	TaxAmount    float64      `json:"taxAmount"`
	TotalAmount  float64      `json:"totalAmount"`
	Discount     float64      `json:"discount"`
	Variant      *ResourceRef `json:"variant,omitempty"`
	Document     *ResourceRef `json:"document,omitempty"`
	Taxes        *ResourceRef `json:"taxes,omitempty"`
}

// DocumentReference links a document to another (e.g. a credit note to its
// invoice).
type DocumentReference struct {
	Href          string       `json:"href"`
	ID            int          `json:"id"`
	Number        FlexString   `json:"number"`
	ReferenceDate int64        `json:"referenceDate"`
	Reason        string       `json:"reason"`
	CodeSII       FlexString   `json:"codeSii"`
	Document      *ResourceRef `json:"document,omitempty"`
}

// DocumentTax is a tax amount on a document.
type DocumentTax struct {
	Href     string       `json:"href"`
	ID       int          `json:"id"`
	Amount   float64      `json:"amount"`
	Tax      *ResourceRef `json:"tax,omitempty"`
	Document *ResourceRef `json:"document,omitempty"`
}

// DocumentSeller is a seller credited on a document.
type DocumentSeller struct {
	Href           string       `json:"href"`
	ID             int          `json:"id"`
	CommissionRate float64      `json:"commissionRate"`
	User           *ResourceRef `json:"user,omitempty"`
	Document       *ResourceRef `json:"document,omitempty"`
}

// DocumentSummary aggregates documents per month, office and type.
type DocumentSummary struct {
	Summaries []struct {
		Month                string  `json:"month"`
		OfficeID             int     `json:"officeId"`
		OfficeName           string  `json:"officeName"`
		DocumentTypeID       int     `json:"documentTypeId"`
		DocumentTypeName     string  `json:"documentTypeName"`
		NetAmount            float64 `json:"netAmount"`
		ExemptAmount         float64 `json:"exemptAmount"`
		TaxAmount            float64 `json:"taxAmount"`
		TotalAmount          float64 `json:"totalAmount"`
		Count                int     `json:"count"`
		DetailLedgerAccounts []struct {
			LedgerAccount string  `json:"ledgerAccount"`
			Amount        float64 `json:"amount"`
		} `json:"detailLedgerAccounts"`
	} `json:"summaries"`
}

// TicketSummary aggregates receipts per SII code.
type TicketSummary struct {
	Summaries []struct {
		CodeSII      FlexString `json:"codeSii"`
		NetAmount    float64    `json:"netAmount"`
		ExemptAmount float64    `json:"exemptAmount"`
		TaxAmount    float64    `json:"taxAmount"`
		Count        int        `json:"count"`
	} `json:"summaries"`
}

// ListDocumentsParams filters Documents.List. Date ranges are
// [start, end] Unix timestamps.
type ListDocumentsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	EmissionDate        int64   `query:"emissiondate,omitempty"`
	ExpirationDate      int64   `query:"expirationdate,omitempty"`
	EmissionDateRange   []int64 `query:"emissiondaterange,omitempty"`
	GenerationDateRange []int64 `query:"generationdaterange,omitempty"`
	RCOFDate            int64   `query:"rcofdate,omitempty"`
	RCOFDateRange       []int64 `query:"rcofdaterange,omitempty"`
	Number              int     `query:"number,omitempty"`
	Token               string  `query:"token,omitempty"`
	DocumentTypeID      int     `query:"documenttypeid,omitempty"`
	CodeSII             string  `query:"codesii,omitempty"`
	ClientID            int     `query:"clientid,omitempty"`
	ClientCode          string  `query:"clientcode,omitempty"`
	OfficeID            int     `query:"officeid,omitempty"`
	SaleConditionID     int     `query:"saleconditionid,omitempty"`
	State               *int    `query:"state,omitempty"`
	InformedSII         *int    `query:"informedsii,omitempty"`
	ReferenceCode       string  `query:"referencecode,omitempty"`
	ReferenceNumber     string  `query:"referencenumber,omitempty"`
	TotalAmount         float64 `query:"totalamount,omitempty"`
	DetailID            int     `query:"detailid,omitempty"`
}

// DocumentClient describes the customer inline when creating a document.
type DocumentClient struct {
	Code            string `json:"code"`
	Company         string `json:"company,omitempty"`
	CompanyOrPerson int    `json:"companyOrPerson"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Address         string `json:"address,omitempty"`
	Municipality    string `json:"municipality,omitempty"`
	City            string `json:"city,omitempty"`
	Activity        string `json:"activity,omitempty"`
	Email           string `json:"email,omitempty"`
}

// CreateDocumentDetail is a line of a document being created. One of
// VariantID, Code or BarCode identifies the variant.
type CreateDocumentDetail struct {
	VariantID    int     `json:"variantId,omitempty"`
	Code         string  `json:"code,omitempty"`
	BarCode      string  `json:"barCode,omitempty"`
	NetUnitValue float64 `json:"netUnitValue"`
	Quantity     float64 `json:"quantity"`
	TaxID        string  `json:"taxId"`
	Comment      string  `json:"comment"`
	Discount     float64 `json:"discount,omitempty"`
	DetailID     int     `json:"detailId,omitempty"`
}

// DocumentPayment is a payment recorded with a new document.
type DocumentPayment struct {
	PaymentTypeID int     `json:"paymentTypeId"`
	Amount        float64 `json:"amount"`
	RecordDate    int64   `json:"recordDate"`
}

// DocumentReferenceInput references another document from a new one.
type DocumentReferenceInput struct {
	Number        string `json:"number"`
	ReferenceDate int64  `json:"referenceDate"`
	Reason        string `json:"reason"`
	CodeSII       int    `json:"codeSii"`
}

// CustomsData is required on export documents.
type CustomsData struct {
	ClauseCode      string  `json:"clauseCode"`
	ClauseAmount    float64 `json:"clauseAmount"`
	SaleModeID      int     `json:"saleModeId"`
	CountryCode     string  `json:"countryCode"`
	TransportPathID int     `json:"transportPathId"`
	TotalPackages   int     `json:"totalPackages"`
}

// DocumentDynamicAttribute sets a dynamic attribute on a new document.
type DocumentDynamicAttribute struct {
	DynamicAttributeID int    `json:"dynamicAttributeId"`
	Description        string `json:"description"`
}

// CreateDocumentRequest is the body of Documents.Create.
type CreateDocumentRequest struct {
	DocumentTypeID int   `json:"documentTypeId,omitempty"`
	CodeSII        int   `json:"codeSii,omitempty"`
	OfficeID       int   `json:"officeId,omitempty"`
	PriceListID    int   `json:"priceListId,omitempty"`
	EmissionDate   int64 `json:"emissionDate"`
	ExpirationDate int64 `json:"expirationDate"`
	DeclareSII     int   `json:"declareSii"`

	Client    *DocumentClient `json:"client,omitempty"`
	ClientID  int             `json:"clientId,omitempty"`
	AddressID int             `json:"addressId,omitempty"`
	SendEmail *int            `json:"sendEmail,omitempty"`

	Details    []CreateDocumentDetail   `json:"details"`
	Payments   []DocumentPayment        `json:"payments,omitempty"`
	References []DocumentReferenceInput `json:"references,omitempty"`

	SellerID int  `json:"sellerId,omitempty"`
	Dispatch *int `json:"dispatch,omitempty"`

	CommissionRate        float64 `json:"commissionRate,omitempty"`
	CommissionCodeSII     int     `json:"commissionCodeSii,omitempty"`
	PercentageTaxWithheld float64 `json:"percentageTaxWithheld,omitempty"`

	CoinID             int          `json:"coinId,omitempty"`
	ExchangeRate       float64      `json:"exchangeRate,omitempty"`
	ExportNetAmount    float64      `json:"exportNetAmount,omitempty"`
	ExportTaxAmount    float64      `json:"exportTaxAmount,omitempty"`
	ExportTotalAmount  float64      `json:"exportTotalAmount,omitempty"`
	ExportExemptAmount float64      `json:"exportExemptAmount,omitempty"`
	HasCustomsData     *int         `json:"hasCustomsData,omitempty"`
	CustomsData        *CustomsData `json:"customsData,omitempty"`

	RenovationID   int   `json:"renovationId,omitempty"`
	RenovationDate int64 `json:"renovationDate,omitempty"`

	SalesID           string                     `json:"salesId,omitempty"`
	DynamicAttributes []DocumentDynamicAttribute `json:"dynamicAttributes,omitempty"`
}

// DocumentsService handles /documents.
type DocumentsService struct {
	engine *Engine
}

// NewDocumentsService returns a DocumentsService backed by engine.
func NewDocumentsService(engine *Engine) *DocumentsService {
	return &DocumentsService{engine: engine}
}

// List returns one page of documents.
func (s *DocumentsService) List(ctx context.Context, params *ListDocumentsParams) (*Page[Document], error) {
	return listPage[Document](ctx, s.engine, "/documents.json", params)
}

// Get returns a document.
func (s *DocumentsService) Get(ctx context.Context, documentID int, expand ...string) (*Document, error) {
	return getItem[Document](ctx, s.engine, documentPath(documentID), "document", expandParams(expand))
}

// Count returns the number of documents.
func (s *DocumentsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/documents/count.json", stateParams(state))
}

// Create emits a document.
func (s *DocumentsService) Create(ctx context.Context, document *CreateDocumentRequest) (*Document, error) {
	return sendItem[Document](ctx, s.engine, http.MethodPost, "/documents.json", "document", document)
}

// Delete voids a document issued by officeID.
func (s *DocumentsService) Delete(ctx context.Context, documentID, officeID int) error {
	return s.engine.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   documentPath(documentID),
		Params: Params{"officeId": officeID},
	}, nil)
}

// GetSummary returns the monthly sales summary.
func (s *DocumentsService) GetSummary(ctx context.Context) (*DocumentSummary, error) {
	return Get[DocumentSummary](ctx, s.engine, "/documents/summary.json", nil)
}

// GetTicketSummary returns the receipt summary between two Unix timestamps.
func (s *DocumentsService) GetTicketSummary(ctx context.Context, startDate, endDate int64) (*TicketSummary, error) {
	return Get[TicketSummary](ctx, s.engine, "/documents/summary/ticket.json", Params{
		"rcofdaterange": []int64{startDate, endDate},
	})
}

// GetCosts returns the cost report for the documents matching params. The
// report shape varies by account, so it is returned undecoded.
func (s *DocumentsService) GetCosts(ctx context.Context, params *ListDocumentsParams) (json.RawMessage, error) {
	p, err := toParams(params)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.engine.Get(ctx, "/documents/costs.json", p, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// ListDetails returns the lines of a document.
func (s *DocumentsService) ListDetails(ctx context.Context, documentID int, expand ...string) (*Page[DocumentDetail], error) {
	return listPage[DocumentDetail](ctx, s.engine, documentSubPath(documentID, "details"), expandParams(expand))
}

// GetDetail returns one line of a document.
func (s *DocumentsService) GetDetail(ctx context.Context, documentID, detailID int) (*DocumentDetail, error) {
	path := "/documents/" + strconv.Itoa(documentID) + "/details/" + strconv.Itoa(detailID) + ".json"
	return getItem[DocumentDetail](ctx, s.engine, path, "detail", nil)
}

// ListReferences returns the documents referenced by a document.
func (s *DocumentsService) ListReferences(ctx context.Context, documentID int) (*Page[DocumentReference], error) {
	return listPage[DocumentReference](ctx, s.engine, documentSubPath(documentID, "references"), nil)
}

// ListTaxes returns the taxes of a document.
func (s *DocumentsService) ListTaxes(ctx context.Context, documentID int) (*Page[DocumentTax], error) {
	return listPage[DocumentTax](ctx, s.engine, documentSubPath(documentID, "document_taxes"), nil)
}

// ListSellers returns the sellers credited on a document.
func (s *DocumentsService) ListSellers(ctx context.Context, documentID int) (*Page[DocumentSeller], error) {
	return listPage[DocumentSeller](ctx, s.engine, documentSubPath(documentID, "sellers"), nil)
}

// ListAttributes returns the dynamic attribute values of a document.
func (s *DocumentsService) ListAttributes(ctx context.Context, documentID int) (*Page[json.RawMessage], error) {
	return listPage[json.RawMessage](ctx, s.engine, documentSubPath(documentID, "attributes"), nil)
}

// ListByDateRange returns every document emitted between two Unix
// timestamps, optionally of one document type (0 for all).
func (s *DocumentsService) ListByDateRange(ctx context.Context, startDate, endDate int64, documentTypeID int) ([]Document, error) {
	return ListAll(ctx, func(ctx context.Context, limit, offset int) (*Page[Document], error) {
		return s.List(ctx, &ListDocumentsParams{
			Pagination:        Pagination{Limit: limit, Offset: offset},
			EmissionDateRange: []int64{startDate, endDate},
			DocumentTypeID:    documentTypeID,
		})
	})
}

// ListByClient returns the first page of up to 50 documents of a client.
func (s *DocumentsService) ListByClient(ctx context.Context, clientID int) ([]Document, error) {
	return s.firstPage(ctx, &ListDocumentsParams{Pagination: Pagination{Limit: MaxPageSize}, ClientID: clientID})
}

// ListByOffice returns the first page of up to 50 documents of an office.
func (s *DocumentsService) ListByOffice(ctx context.Context, officeID int) ([]Document, error) {
	return s.firstPage(ctx, &ListDocumentsParams{Pagination: Pagination{Limit: MaxPageSize}, OfficeID: officeID})
}

func (s *DocumentsService) firstPage(ctx context.Context, params *ListDocumentsParams) ([]Document, error) {
	page, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func documentPath(documentID int) string {
	return "/documents/" + strconv.Itoa(documentID) + ".json"
}

func documentSubPath(documentID int, sub string) string {
	return "/documents/" + strconv.Itoa(documentID) + "/" + sub + ".json"
}
