package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// PriceList is a named set of variant prices in one currency.
type PriceList struct {
	Href        string       `json:"href"`
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	State       int          `json:"state"`
	CoinID      int          `json:"coinId"`
	Coin        *ResourceRef `json:"coin,omitempty"`
	Details     *ResourceRef `json:"details,omitempty"`
}

// PriceListDetail is the price of one variant in a price list.
type PriceListDetail struct {
	Href                  string       `json:"href"`
	ID                    int          `json:"id"`
	VariantValue          float64      `json:"variantValue"`
	VariantValueWithTaxes float64      `json:"variantValueWithTaxes"`
	Variant               *ResourceRef `json:"variant,omitempty"`
}

// ListPriceListsParams filters PriceLists.List.
type ListPriceListsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name   string `query:"name,omitempty"`
	CoinID int    `query:"coinid,omitempty"`
	State  *int   `query:"state,omitempty"`
}

// ListPriceListDetailsParams filters PriceLists.ListDetails.
type ListPriceListDetailsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	VariantID int    `query:"variantid,omitempty"`
	Code      string `query:"code,omitempty"`
	BarCode   string `query:"barcode,omitempty"`
}

// UpdatePriceListDetailRequest sets the net price of a variant.
type UpdatePriceListDetailRequest struct {
	ID           int     `json:"id"`
	VariantValue float64 `json:"variantValue"`
}

// PriceListsService handles /price_lists.
type PriceListsService struct {
	engine *Engine
}

// NewPriceListsService returns a PriceListsService backed by engine.
func NewPriceListsService(engine *Engine) *PriceListsService {
	return &PriceListsService{engine: engine}
}

// List returns one page of price lists.
func (s *PriceListsService) List(ctx context.Context, params *ListPriceListsParams) (*Page[PriceList], error) {
	return listPage[PriceList](ctx, s.engine, "/price_lists.json", params)
}

// Get returns a price list.
func (s *PriceListsService) Get(ctx context.Context, priceListID int, expand ...string) (*PriceList, error) {
	return getItem[PriceList](ctx, s.engine, "/price_lists/"+strconv.Itoa(priceListID)+".json", "price_list", expandParams(expand))
}

// Count returns the number of price lists.
func (s *PriceListsService) Count(ctx context.Context) (int, error) {
	return count(ctx, s.engine, "/price_lists/count.json", nil)
}

// ListDetails returns one page of prices of a price list.
func (s *PriceListsService) ListDetails(ctx context.Context, priceListID int, params *ListPriceListDetailsParams) (*Page[PriceListDetail], error) {
	return listPage[PriceListDetail](ctx, s.engine, "/price_lists/"+strconv.Itoa(priceListID)+"/details.json", params)
}

// GetDetail returns one price of a price list.
func (s *PriceListsService) GetDetail(ctx context.Context, priceListID, detailID int) (*PriceListDetail, error) {
	return getItem[PriceListDetail](ctx, s.engine, priceListDetailPath(priceListID, detailID), "detail", nil)
}

// UpdateDetail changes one price of a price list.
func (s *PriceListsService) UpdateDetail(ctx context.Context, priceListID, detailID int, variantValue float64) (*PriceListDetail, error) {
	body := UpdatePriceListDetailRequest{ID: detailID, VariantValue: variantValue}
	return sendItem[PriceListDetail](ctx, s.engine, http.MethodPut, priceListDetailPath(priceListID, detailID), "detail", body)
}

// GetVariantPrice returns the price of a variant in a price list, or nil.
func (s *PriceListsService) GetVariantPrice(ctx context.Context, priceListID, variantID int) (*PriceListDetail, error) {
	page, err := s.ListDetails(ctx, priceListID, &ListPriceListDetailsParams{
		Pagination: Pagination{Limit: 1},
		VariantID:  variantID,
	})
	if err != nil {
		return nil, err
	}
	return firstItem(page), nil
}

// ListAllDetails returns every price of a price list.
func (s *PriceListsService) ListAllDetails(ctx context.Context, priceListID int) ([]PriceListDetail, error) {
	return ListAll(ctx, func(ctx context.Context, limit, offset int) (*Page[PriceListDetail], error) {
		return s.ListDetails(ctx, priceListID, &ListPriceListDetailsParams{
			Pagination: Pagination{Limit: limit, Offset: offset},
		})
	})
}

func priceListDetailPath(priceListID, detailID int) string {
	return "/price_lists/" + strconv.Itoa(priceListID) + "/details/" + strconv.Itoa(detailID) + ".json"
}
