package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// Stock is the quantity of a variant in an office.
type Stock struct {
	Href              string       `json:"href"`
	ID                int          `json:"id"`
	Quantity          float64      `json:"quantity"`
	QuantityReserved  float64      `json:"quantityReserved"`
	QuantityAvailable float64      `json:"quantityAvailable"`
	Variant           *ResourceRef `json:"variant,omitempty"`
	Office            *ResourceRef `json:"office,omitempty"`
}

// ListStocksParams filters Stocks.List.
type ListStocksParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	OfficeID  int    `query:"officeid,omitempty"`
	VariantID int    `query:"variantid,omitempty"`
	Code      string `query:"code,omitempty"`
	BarCode   string `query:"barcode,omitempty"`
}

// StocksService handles /stocks.
type StocksService struct {
	engine *Engine
}

// NewStocksService returns a StocksService backed by engine.
func NewStocksService(engine *Engine) *StocksService {
	return &StocksService{engine: engine}
}

// List returns one page of stock records.
func (s *StocksService) List(ctx context.Context, params *ListStocksParams) (*Page[Stock], error) {
	return listPage[Stock](ctx, s.engine, "/stocks.json", params)
}

// Get returns a stock record.
func (s *StocksService) Get(ctx context.Context, stockID int, expand ...string) (*Stock, error) {
	return getItem[Stock](ctx, s.engine, "/stocks/"+strconv.Itoa(stockID)+".json", "stock", expandParams(expand))
}

// GetByVariantAndOffice returns the stock of a variant in an office, or nil.
func (s *StocksService) GetByVariantAndOffice(ctx context.Context, variantID, officeID int) (*Stock, error) {
	page, err := s.List(ctx, &ListStocksParams{
		Pagination: Pagination{Limit: 1},
		VariantID:  variantID,
		OfficeID:   officeID,
	})
	if err != nil {
		return nil, err
	}
	return firstItem(page), nil
}

// ListByVariant returns the stock of a variant across offices (first page
// of up to 50 offices).
func (s *StocksService) ListByVariant(ctx context.Context, variantID int) ([]Stock, error) {
	page, err := s.List(ctx, &ListStocksParams{
		Pagination: Pagination{Limit: MaxPageSize},
		VariantID:  variantID,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// StockReception is an inbound stock movement.
type StockReception struct {
	Href           string       `json:"href"`
	ID             int          `json:"id"`
	AdmissionDate  int64        `json:"admissionDate"`
	Document       string       `json:"document"`
	DocumentNumber string       `json:"documentNumber"`
	Note           string       `json:"note,omitempty"`
	Office         *ResourceRef `json:"office,omitempty"`
	Details        *ResourceRef `json:"details,omitempty"`
}

// StockReceptionDetail is one line of a reception.
type StockReceptionDetail struct {
	Href         string       `json:"href"`
	ID           int          `json:"id"`
	Quantity     float64      `json:"quantity"`
	Cost         float64      `json:"cost"`
	SerialNumber string       `json:"serialNumber,omitempty"`
	Variant      *ResourceRef `json:"variant,omitempty"`
	Reception    *ResourceRef `json:"reception,omitempty"`
}

// ListStockReceptionsParams filters StockReceptions.List.
type ListStockReceptionsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	AdmissionDate  int64  `query:"admissiondate,omitempty"`
	DocumentNumber string `query:"documentnumber,omitempty"`
	OfficeID       int    `query:"officeid,omitempty"`
}

// StockReceptionLine is a line of a reception request. Code is the variant
// SKU.
type StockReceptionLine struct {
	Quantity     float64 `json:"quantity"`
	Code         string  `json:"code"`
	Cost         float64 `json:"cost"`
	SerialNumber string  `json:"serialNumber,omitempty"`
}

// Reception document kinds.
const (
	ReceptionDocumentGuide   = "Guía"
	ReceptionDocumentInvoice = "Factura"
	ReceptionDocumentOther   = "Otro"
)

// CreateStockReceptionRequest is the body of StockReceptions.Create.
type CreateStockReceptionRequest struct {
	Document       string               `json:"document"`
	OfficeID       int                  `json:"officeId"`
	DocumentNumber string               `json:"documentNumber"`
	Note           string               `json:"note,omitempty"`
	Details        []StockReceptionLine `json:"details"`
}

// UpdateStockReceptionRequest is the body of StockReceptions.Update.
type UpdateStockReceptionRequest struct {
	ID             int                  `json:"id"`
	Document       string               `json:"document,omitempty"`
	OfficeID       int                  `json:"officeId,omitempty"`
	DocumentNumber string               `json:"documentNumber,omitempty"`
	Note           string               `json:"note,omitempty"`
	Details        []StockReceptionLine `json:"details,omitempty"`
}

// StockReceptionsService handles /stocks/receptions.
type StockReceptionsService struct {
	engine *Engine
}

// NewStockReceptionsService returns a StockReceptionsService backed by engine.
func NewStockReceptionsService(engine *Engine) *StockReceptionsService {
	return &StockReceptionsService{engine: engine}
}

// List returns one page of receptions.
func (s *StockReceptionsService) List(ctx context.Context, params *ListStockReceptionsParams) (*Page[StockReception], error) {
	return listPage[StockReception](ctx, s.engine, "/stocks/receptions.json", params)
}

// Get returns a reception.
func (s *StockReceptionsService) Get(ctx context.Context, receptionID int, expand ...string) (*StockReception, error) {
	return getItem[StockReception](ctx, s.engine, receptionPath(receptionID), "reception", expandParams(expand))
}

// ListDetails returns the lines of a reception.
func (s *StockReceptionsService) ListDetails(ctx context.Context, receptionID int) (*Page[StockReceptionDetail], error) {
	return listPage[StockReceptionDetail](ctx, s.engine, "/stocks/receptions/"+strconv.Itoa(receptionID)+"/details.json", nil)
}

// GetDetail returns one line of a reception.
func (s *StockReceptionsService) GetDetail(ctx context.Context, receptionID, detailID int) (*StockReceptionDetail, error) {
	path := "/stocks/receptions/" + strconv.Itoa(receptionID) + "/details/" + strconv.Itoa(detailID) + ".json"
	return getItem[StockReceptionDetail](ctx, s.engine, path, "detail", nil)
}

// Create records a reception.
func (s *StockReceptionsService) Create(ctx context.Context, reception *CreateStockReceptionRequest) (*StockReception, error) {
	return sendItem[StockReception](ctx, s.engine, http.MethodPost, "/stocks/receptions.json", "reception", reception)
}

// Update updates a reception.
func (s *StockReceptionsService) Update(ctx context.Context, receptionID int, updates UpdateStockReceptionRequest) (*StockReception, error) {
	updates.ID = receptionID
	return sendItem[StockReception](ctx, s.engine, http.MethodPut, receptionPath(receptionID), "reception", updates)
}

func receptionPath(receptionID int) string {
	return "/stocks/receptions/" + strconv.Itoa(receptionID) + ".json"
}

// StockConsumption is an outbound stock movement not tied to a sale.
type StockConsumption struct {
	Href            string       `json:"href"`
	ID              int          `json:"id"`
	ConsumptionDate int64        `json:"consumptionDate"`
	Note            string       `json:"note,omitempty"`
	Office          *ResourceRef `json:"office,omitempty"`
	ConsumptionType *ResourceRef `json:"consumption_type,omitempty"`
	Details         *ResourceRef `json:"details,omitempty"`
}

// StockConsumptionDetail is one line of a consumption.
type StockConsumptionDetail struct {
	Href         string       `json:"href"`
	ID           int          `json:"id"`
	Quantity     float64      `json:"quantity"`
	SerialNumber string       `json:"serialNumber,omitempty"`
	Variant      *ResourceRef `json:"variant,omitempty"`
	Consumption  *ResourceRef `json:"consumption,omitempty"`
}

// StockConsumptionType classifies consumptions (loss, internal use...).
type StockConsumptionType struct {
	Href  string `json:"href"`
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State int    `json:"state"`
}

// ListStockConsumptionsParams filters StockConsumptions.List.
type ListStockConsumptionsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	ConsumptionDate int64 `query:"consumptiondate,omitempty"`
	OfficeID        int   `query:"officeid,omitempty"`
}

// StockConsumptionLine is a line of a consumption request.
type StockConsumptionLine struct {
	Quantity     float64 `json:"quantity"`
	VariantID    int     `json:"variantId"`
	SerialNumber string  `json:"serialNumber,omitempty"`
}

// CreateStockConsumptionRequest is the body of StockConsumptions.Create.
type CreateStockConsumptionRequest struct {
	Note     string                 `json:"note"`
	OfficeID int                    `json:"officeId"`
	Details  []StockConsumptionLine `json:"details"`
}

// StockConsumptionsService handles /stocks/consumptions.
type StockConsumptionsService struct {
	engine *Engine
}

// NewStockConsumptionsService returns a StockConsumptionsService backed by engine.
func NewStockConsumptionsService(engine *Engine) *StockConsumptionsService {
	return &StockConsumptionsService{engine: engine}
}

// List returns one page of consumptions.
func (s *StockConsumptionsService) List(ctx context.Context, params *ListStockConsumptionsParams) (*Page[StockConsumption], error) {
	return listPage[StockConsumption](ctx, s.engine, "/stocks/consumptions.json", params)
}

// Get returns a consumption.
func (s *StockConsumptionsService) Get(ctx context.Context, consumptionID int, expand ...string) (*StockConsumption, error) {
	path := "/stocks/consumptions/" + strconv.Itoa(consumptionID) + ".json"
	return getItem[StockConsumption](ctx, s.engine, path, "consumption", expandParams(expand))
}

// ListDetails returns the lines of a consumption.
func (s *StockConsumptionsService) ListDetails(ctx context.Context, consumptionID int) (*Page[StockConsumptionDetail], error) {
	return listPage[StockConsumptionDetail](ctx, s.engine, "/stocks/consumptions/"+strconv.Itoa(consumptionID)+"/details.json", nil)
}

// GetDetail returns one line of a consumption.
func (s *StockConsumptionsService) GetDetail(ctx context.Context, consumptionID, detailID int) (*StockConsumptionDetail, error) {
	path := "/stocks/consumptions/" + strconv.Itoa(consumptionID) + "/details/" + strconv.Itoa(detailID) + ".json"
	return getItem[StockConsumptionDetail](ctx, s.engine, path, "detail", nil)
}

// Create records a consumption.
func (s *StockConsumptionsService) Create(ctx context.Context, consumption *CreateStockConsumptionRequest) (*StockConsumption, error) {
	return sendItem[StockConsumption](ctx, s.engine, http.MethodPost, "/stocks/consumptions.json", "consumption", consumption)
}

// ListTypes returns the available consumption types.
func (s *StockConsumptionsService) ListTypes(ctx context.Context) (*Page[StockConsumptionType], error) {
	return listPage[StockConsumptionType](ctx, s.engine, "/stock_consumption_types.json", nil)
}
