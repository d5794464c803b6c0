package bsale

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Variant is a concrete, stockable version of a product (size, colour...).
type Variant struct {
	Href               string         `json:"href"`
	ID                 int            `json:"id"`
	Description        string         `json:"description"`
	UnlimitedStock     int            `json:"unlimitedStock"`
	AllowNegativeStock int            `json:"allowNegativeStock"`
	State              int            `json:"state"`
	BarCode            string         `json:"barCode"`
	Code               string         `json:"code"`
	SerialNumber       int            `json:"serialNumber"`
	Product            *ResourceRef   `json:"product,omitempty"`
	Costs              *ResourceRef   `json:"costs,omitempty"`
	VariantStocks      []VariantStock `json:"variant_stocks,omitempty"`
	// AttributeValues is a link, or the inlined values when expanded.
	AttributeValues json.RawMessage `json:"attribute_values,omitempty"`
}

// AttributeValue is the value of a product type attribute on a variant.
type AttributeValue struct {
	Href        string `json:"href"`
	ID          int    `json:"id"`
	Description string `json:"description"`
	Attribute   struct {
		Href string `json:"href"`
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"attribute"`
}

// VariantStock is the stock of a variant in one office.
type VariantStock struct {
	Href                string       `json:"href"`
	VariantID           int          `json:"variantId"`
	OfficeID            int          `json:"officeId"`
	QuantityAvailable   float64      `json:"quantityAvailable"`
	QuantityReserved    float64      `json:"quantityReserved"`
	QuantityUnavailable float64      `json:"quantityUnAvailable"`
	Office              *ResourceRef `json:"office,omitempty"`
}

// VariantCost is the average cost and FIFO history of a variant.
type VariantCost struct {
	AverageCost float64 `json:"averageCost"`
	History     []struct {
		ReceptionDetail ResourceRef `json:"reception_detail"`
		AdmissionDate   int64       `json:"admissionDate"`
		Cost            float64     `json:"cost"`
		AvailableFifo   float64     `json:"availableFifo"`
	} `json:"history"`
}

// ListVariantsParams filters Variants.List.
type ListVariantsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Description string `query:"description,omitempty"`
	BarCode     string `query:"barcode,omitempty"`
	Code        string `query:"code,omitempty"`
	ProductID   int    `query:"productid,omitempty"`
	State       *int   `query:"state,omitempty"`
}

// AttributeValueRequest sets an attribute value on a variant.
type AttributeValueRequest struct {
	Description string `json:"description"`
	AttributeID int    `json:"attributeId"`
}

// CreateVariantRequest is the body of Variants.Create.
type CreateVariantRequest struct {
	ProductID          int                     `json:"productId"`
	Description        string                  `json:"description"`
	UnlimitedStock     *int                    `json:"unlimitedStock,omitempty"`
	AllowNegativeStock *int                    `json:"allowNegativeStock,omitempty"`
	BarCode            string                  `json:"barCode,omitempty"`
	Code               string                  `json:"code,omitempty"`
	AttributeValues    []AttributeValueRequest `json:"attribute_values,omitempty"`
}

// UpdateVariantRequest is the body of Variants.Update.
type UpdateVariantRequest struct {
	ID                 int                     `json:"id"`
	Description        string                  `json:"description,omitempty"`
	UnlimitedStock     *int                    `json:"unlimitedStock,omitempty"`
	AllowNegativeStock *int                    `json:"allowNegativeStock,omitempty"`
	BarCode            string                  `json:"barCode,omitempty"`
	Code               string                  `json:"code,omitempty"`
	AttributeValues    []AttributeValueRequest `json:"attribute_values,omitempty"`
}

// VariantsService handles /variants.
type VariantsService struct {
	engine *Engine
}

// NewVariantsService returns a VariantsService backed by engine.
func NewVariantsService(engine *Engine) *VariantsService {
	return &VariantsService{engine: engine}
}

// List returns one page of variants.
func (s *VariantsService) List(ctx context.Context, params *ListVariantsParams) (*Page[Variant], error) {
	return listPage[Variant](ctx, s.engine, "/variants.json", params)
}

// Get returns a variant.
func (s *VariantsService) Get(ctx context.Context, variantID int, expand ...string) (*Variant, error) {
	return getItem[Variant](ctx, s.engine, variantPath(variantID), "variant", expandParams(expand))
}

// Count returns the number of variants.
func (s *VariantsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/variants/count.json", stateParams(state))
}

// Create creates a variant.
func (s *VariantsService) Create(ctx context.Context, variant *CreateVariantRequest) (*Variant, error) {
	return sendItem[Variant](ctx, s.engine, http.MethodPost, "/variants.json", "variant", variant)
}

// Update updates a variant.
func (s *VariantsService) Update(ctx context.Context, variantID int, updates UpdateVariantRequest) (*Variant, error) {
	updates.ID = variantID
	return sendItem[Variant](ctx, s.engine, http.MethodPut, variantPath(variantID), "variant", updates)
}

// Delete marks a variant inactive.
func (s *VariantsService) Delete(ctx context.Context, variantID int) (*Variant, error) {
	return sendItem[Variant](ctx, s.engine, http.MethodDelete, variantPath(variantID), "variant", nil)
}

// ListAttributeValues returns the attribute values of a variant.
func (s *VariantsService) ListAttributeValues(ctx context.Context, variantID int) (*Page[AttributeValue], error) {
	return listPage[AttributeValue](ctx, s.engine, "/variants/"+strconv.Itoa(variantID)+"/attribute_values.json", nil)
}

// GetCosts returns the cost information of a variant.
func (s *VariantsService) GetCosts(ctx context.Context, variantID int) (*VariantCost, error) {
	return Get[VariantCost](ctx, s.engine, "/variants/"+strconv.Itoa(variantID)+"/costs.json", nil)
}

// ListAll returns every variant in state.
func (s *VariantsService) ListAll(ctx context.Context, state int) ([]Variant, error) {
	return ListAll(ctx, func(ctx context.Context, limit, offset int) (*Page[Variant], error) {
		return s.List(ctx, &ListVariantsParams{
			Pagination: Pagination{Limit: limit, Offset: offset},
			State:      &state,
		})
	})
}

// FindByCode returns the variant with the given SKU, or nil.
func (s *VariantsService) FindByCode(ctx context.Context, code string) (*Variant, error) {
	return s.findFirst(ctx, &ListVariantsParams{Pagination: Pagination{Limit: 1}, Code: code})
}

// FindByBarcode returns the variant with the given barcode, or nil.
func (s *VariantsService) FindByBarcode(ctx context.Context, barcode string) (*Variant, error) {
	return s.findFirst(ctx, &ListVariantsParams{Pagination: Pagination{Limit: 1}, BarCode: barcode})
}

func (s *VariantsService) findFirst(ctx context.Context, params *ListVariantsParams) (*Variant, error) {
	page, err := s.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return firstItem(page), nil
}

func variantPath(variantID int) string {
	return "/variants/" + strconv.Itoa(variantID) + ".json"
}

// firstItem returns the first item of page, or nil.
func firstItem[T any](page *Page[T]) *T {
	if page == nil || len(page.Items) == 0 {
		return nil
	}
	return &page.Items[0]
}
