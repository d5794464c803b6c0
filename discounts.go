package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// Discount types.
const (
	DiscountTypePercentage = 0
	DiscountTypePriceList  = 1
)

// Discount is a promotion applied at sale time.
type Discount struct {
	Href        string     `json:"href"`
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Percentage  FlexString `json:"percentage"`
	State       int        `json:"state"`
	Automatic   int        `json:"automatic"`
	Type        int        `json:"type,omitempty"`
	MinQuantity float64    `json:"minQuantity,omitempty"`
	ByDate      int        `json:"byDate,omitempty"`
	StartDate   int64      `json:"startDate,omitempty"`
	EndDate     int64      `json:"endDate,omitempty"`
}

// DiscountDetail restricts a discount to a product or variant.
type DiscountDetail struct {
	Href    string `json:"href"`
	ID      int    `json:"id"`
	Product *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"product,omitempty"`
	Variant *struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
		Code        string `json:"code"`
	} `json:"variant,omitempty"`
}

// ListDiscountsParams filters Discounts.List.
type ListDiscountsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name       string `query:"name,omitempty"`
	Percentage string `query:"percentage,omitempty"`
	State      *int   `query:"state,omitempty"`
}

// DiscountRequest is the body of Discounts.Create and Discounts.Update.
// BasePriceListID, DiscountPriceListID and RestrictedPriceLists only apply
// on creation.
type DiscountRequest struct {
	Name                 string   `json:"name,omitempty"`
	Type                 *int     `json:"type,omitempty"`
	State                *int     `json:"state,omitempty"`
	AutoDiscount         *int     `json:"autoDiscount,omitempty"`
	MinQuantity          float64  `json:"minQuantity,omitempty"`
	ByDate               *int     `json:"byDate,omitempty"`
	StartDate            int64    `json:"startDate,omitempty"`
	EndDate              int64    `json:"endDate,omitempty"`
	BasePriceListID      int      `json:"basePriceListId,omitempty"`
	DiscountPriceListID  int      `json:"discountPriceListId,omitempty"`
	Percentage           *float64 `json:"percentage,omitempty"`
	RestrictedPriceLists []int    `json:"restrictedPriceLists,omitempty"`
	AccessProfiles       []int    `json:"accessProfiles,omitempty"`
}

// DiscountDetailRequest restricts a discount to a product or a variant.
type DiscountDetailRequest struct {
	ProductID int `json:"productId,omitempty"`
	VariantID int `json:"variantId,omitempty"`
}

// DiscountsService handles /discounts, with writes on the v2 API.
type DiscountsService struct {
	engine *Engine
}

// NewDiscountsService returns a DiscountsService backed by engine.
func NewDiscountsService(engine *Engine) *DiscountsService {
	return &DiscountsService{engine: engine}
}

// List returns one page of discounts.
func (s *DiscountsService) List(ctx context.Context, params *ListDiscountsParams) (*Page[Discount], error) {
	return listPage[Discount](ctx, s.engine, "/discounts.json", params)
}

// Get returns a discount.
func (s *DiscountsService) Get(ctx context.Context, discountID int) (*Discount, error) {
	return getItem[Discount](ctx, s.engine, "/discounts/"+strconv.Itoa(discountID)+".json", "discount", nil)
}

// Count returns the number of discounts.
func (s *DiscountsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/discounts/count.json", stateParams(state))
}

// Create creates a discount.
func (s *DiscountsService) Create(ctx context.Context, discount *DiscountRequest) (*Discount, error) {
	return sendItem[Discount](ctx, s.engine, http.MethodPost, "/v2/discounts/new.json", "discount", discount)
}

// Update updates a discount.
func (s *DiscountsService) Update(ctx context.Context, discountID int, updates *DiscountRequest) (*Discount, error) {
	return sendItem[Discount](ctx, s.engine, http.MethodPut, "/v2/discounts/"+strconv.Itoa(discountID)+".json", "discount", updates)
}

// ListDetails returns the products and variants a discount applies to.
func (s *DiscountsService) ListDetails(ctx context.Context, discountID int) (*Page[DiscountDetail], error) {
	return listPage[DiscountDetail](ctx, s.engine, "/v2/discounts/"+strconv.Itoa(discountID)+"/details.json", nil)
}

// AddDetail restricts a discount to one more product or variant.
func (s *DiscountsService) AddDetail(ctx context.Context, discountID int, detail DiscountDetailRequest) (*DiscountDetail, error) {
	return sendItem[DiscountDetail](ctx, s.engine, http.MethodPost, "/v2/discounts/"+strconv.Itoa(discountID)+"/details.json", "detail", detail)
}

// DeleteDetail removes a detail and returns its id.
func (s *DiscountsService) DeleteDetail(ctx context.Context, detailID int) (int, error) {
	var resp struct {
		ID int `json:"id"`
	}
	if err := s.engine.Delete(ctx, "/v2/discounts/details/"+strconv.Itoa(detailID)+".json", &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Tax is a tax rate (VAT, specific taxes...).
type Tax struct {
	Href           string  `json:"href"`
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Percentage     float64 `json:"percentage"`
	ForAllProducts int     `json:"forAllProducts"`
	LedgerAccount  string  `json:"ledgerAccount,omitempty"`
	Code           string  `json:"code"`
	State          int     `json:"state"`
}

// ListTaxesParams filters Taxes.List.
type ListTaxesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name          string   `query:"name,omitempty"`
	Percentage    *float64 `query:"percentage,omitempty"`
	Code          string   `query:"code,omitempty"`
	LedgerAccount string   `query:"ledgeraccount,omitempty"`
	State         *int     `query:"state,omitempty"`
}

// TaxesService handles /taxes.
type TaxesService struct {
	engine *Engine
}

// NewTaxesService returns a TaxesService backed by engine.
func NewTaxesService(engine *Engine) *TaxesService {
	return &TaxesService{engine: engine}
}

// List returns one page of taxes.
func (s *TaxesService) List(ctx context.Context, params *ListTaxesParams) (*Page[Tax], error) {
	return listPage[Tax](ctx, s.engine, "/taxes.json", params)
}

// Get returns a tax.
func (s *TaxesService) Get(ctx context.Context, taxID int) (*Tax, error) {
	return getItem[Tax](ctx, s.engine, "/taxes/"+strconv.Itoa(taxID)+".json", "tax", nil)
}

// Count returns the number of taxes.
func (s *TaxesService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/taxes/count.json", stateParams(state))
}
