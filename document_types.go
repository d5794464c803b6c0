package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// DocumentType is a kind of document (invoice, receipt, credit note...).
type DocumentType struct {
	Href                 string       `json:"href"`
	ID                   int          `json:"id"`
	Name                 string       `json:"name"`
	InitialNumber        int          `json:"initialNumber"`
	CodeSII              FlexString   `json:"codeSii"`
	IsElectronicDocument int          `json:"isElectronicDocument"`
	BreakdownTax         int          `json:"breakdownTax"`
	Use                  int          `json:"use"`
	IsSalesNote          int          `json:"isSalesNote"`
	IsExempt             int          `json:"isExempt"`
	RestrictsTax         int          `json:"restrictsTax"`
	UseClient            int          `json:"useClient"`
	ThermalPrinter       int          `json:"thermalPrinter"`
	State                int          `json:"state"`
	CopyNumber           int          `json:"copyNumber"`
	IsCreditNote         int          `json:"isCreditNote"`
	ContinuedHigh        int          `json:"continuedHigh"`
	LedgerAccount        string       `json:"ledgerAccount"`
	IpadPrint            int          `json:"ipadPrint"`
	BookType             *ResourceRef `json:"book_type,omitempty"`
}

// CAF is an authorized folio range issued by the tax authority.
type CAF struct {
	StartDate        int64 `json:"startDate"`
	ExpirationDate   int64 `json:"expirationDate"`
	StartNumber      int   `json:"startNumber"`
	EndNumber        int   `json:"endNumber"`
	LastNumberUsed   int   `json:"lastNumberUsed"`
	NumbersAvailable int   `json:"numbersAvailable"`
	Expired          bool  `json:"expired"`
}

// AvailableFolios reports how many folios remain for a document type.
type AvailableFolios struct {
	NumbersAvailable int `json:"numbers_available"`
	Last             int `json:"last"`
}

// ListDocumentTypesParams filters DocumentTypes.List.
type ListDocumentTypesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name                 string `query:"name,omitempty"`
	CodeSII              string `query:"codesii,omitempty"`
	LedgerAccount        string `query:"ledgeraccount,omitempty"`
	BookTypeID           int    `query:"booktypeid,omitempty"`
	IsElectronicDocument *int   `query:"iselectronicdocument,omitempty"`
	IsSalesNote          *int   `query:"issalesnote,omitempty"`
	State                *int   `query:"state,omitempty"`
}

// FolioParams selects a document type by SII code or id for folio queries.
type FolioParams struct {
	CodeSII        string `query:"codesii,omitempty"`
	DocumentTypeID int    `query:"documenttypeid,omitempty"`
	NextNumber     int    `query:"nextnumber,omitempty"`
}

// UpdateDocumentTypeRequest is the body of DocumentTypes.Update.
type UpdateDocumentTypeRequest struct {
	Name      string `json:"name,omitempty"`
	State     *int   `json:"state,omitempty"`
	UseClient *int   `json:"useClient,omitempty"`
}

// DocumentTypesService handles /document_types.
type DocumentTypesService struct {
	engine *Engine
}

// NewDocumentTypesService returns a DocumentTypesService backed by engine.
func NewDocumentTypesService(engine *Engine) *DocumentTypesService {
	return &DocumentTypesService{engine: engine}
}

// List returns one page of document types.
func (s *DocumentTypesService) List(ctx context.Context, params *ListDocumentTypesParams) (*Page[DocumentType], error) {
	return listPage[DocumentType](ctx, s.engine, "/document_types.json", params)
}

// Get returns a document type.
func (s *DocumentTypesService) Get(ctx context.Context, typeID int, expand ...string) (*DocumentType, error) {
	return getItem[DocumentType](ctx, s.engine, documentTypePath(typeID), "document_type", expandParams(expand))
}

// Count returns the number of document types.
func (s *DocumentTypesService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/document_types/count.json", stateParams(state))
}

// Update updates a document type.
func (s *DocumentTypesService) Update(ctx context.Context, typeID int, updates *UpdateDocumentTypeRequest) (*DocumentType, error) {
	return sendItem[DocumentType](ctx, s.engine, http.MethodPut, documentTypePath(typeID), "document_type", updates)
}

// GetCAF returns the folio authorization of a document type.
func (s *DocumentTypesService) GetCAF(ctx context.Context, params *FolioParams) (*CAF, error) {
	p, err := toParams(params)
	if err != nil {
		return nil, err
	}
	return Get[CAF](ctx, s.engine, "/document_types/caf.json", p)
}

// GetAvailableFolios returns the remaining folios of a document type.
// NextNumber is ignored.
func (s *DocumentTypesService) GetAvailableFolios(ctx context.Context, params *FolioParams) (*AvailableFolios, error) {
	var p Params
	if params != nil {
		var err error
		if p, err = toParams(&FolioParams{CodeSII: params.CodeSII, DocumentTypeID: params.DocumentTypeID}); err != nil {
			return nil, err
		}
	}
	return Get[AvailableFolios](ctx, s.engine, "/document_types/number_availables.json", p)
}

func documentTypePath(typeID int) string {
	return "/document_types/" + strconv.Itoa(typeID) + ".json"
}

// SaleCondition is a credit term (e.g. 30 days).
type SaleCondition struct {
	Href          string `json:"href"`
	ID            int    `json:"id"`
	Name          string `json:"name"`
	TimeCondition int    `json:"timeCondition"`
	TimeUnity     int    `json:"timeUnity"`
	State         int    `json:"state"`
}

// ListSaleConditionsParams filters SaleConditions.List.
type ListSaleConditionsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	TimeCondition int  `query:"timecondition,omitempty"`
	TimeUnity     int  `query:"timeunity,omitempty"`
	State         *int `query:"state,omitempty"`
}

// SaleConditionsService handles /sale_conditions.
type SaleConditionsService struct {
	engine *Engine
}

// NewSaleConditionsService returns a SaleConditionsService backed by engine.
func NewSaleConditionsService(engine *Engine) *SaleConditionsService {
	return &SaleConditionsService{engine: engine}
}

// List returns one page of sale conditions.
func (s *SaleConditionsService) List(ctx context.Context, params *ListSaleConditionsParams) (*Page[SaleCondition], error) {
	return listPage[SaleCondition](ctx, s.engine, "/sale_conditions.json", params)
}

// Get returns a sale condition.
func (s *SaleConditionsService) Get(ctx context.Context, conditionID int) (*SaleCondition, error) {
	return getItem[SaleCondition](ctx, s.engine, "/sale_conditions/"+strconv.Itoa(conditionID)+".json", "sale_condition", nil)
}

// Count returns the number of sale conditions.
func (s *SaleConditionsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/sale_conditions/count.json", stateParams(state))
}

// ShipmentType is a kind of dispatch (sale, transfer between offices...).
type ShipmentType struct {
	Href                 string     `json:"href"`
	ID                   int        `json:"id"`
	Name                 string     `json:"name"`
	CodeSII              FlexString `json:"codeSii"`
	UseDestinationOffice int        `json:"useDestinationOffice"`
	State                int        `json:"state"`
}

// ListShipmentTypesParams filters ShipmentTypes.List.
type ListShipmentTypesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name    string `query:"name,omitempty"`
	CodeSII string `query:"codesii,omitempty"`
	State   *int   `query:"state,omitempty"`
}

// ShipmentTypesService handles /shipping_types.
type ShipmentTypesService struct {
	engine *Engine
}

// NewShipmentTypesService returns a ShipmentTypesService backed by engine.
func NewShipmentTypesService(engine *Engine) *ShipmentTypesService {
	return &ShipmentTypesService{engine: engine}
}

// List returns one page of shipment types.
func (s *ShipmentTypesService) List(ctx context.Context, params *ListShipmentTypesParams) (*Page[ShipmentType], error) {
	return listPage[ShipmentType](ctx, s.engine, "/shipping_types.json", params)
}

// Get returns a shipment type.
func (s *ShipmentTypesService) Get(ctx context.Context, shippingTypeID int) (*ShipmentType, error) {
	return getItem[ShipmentType](ctx, s.engine, "/shipping_types/"+strconv.Itoa(shippingTypeID)+".json", "shipping_type", nil)
}
