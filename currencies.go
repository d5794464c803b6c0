package bsale

import (
	"context"
	"encoding/json"
	"strconv"
)

// Currency is a coin the instance can invoice in.
type Currency struct {
	Href       string `json:"href"`
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Decimals   int    `json:"decimals"`
	TotalRound int    `json:"totalRound"`
	State      int    `json:"state,omitempty"`
}

// ListCurrenciesParams filters Currencies.List.
type ListCurrenciesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name    string `query:"name,omitempty"`
	Symbol  string `query:"symbol,omitempty"`
	State   *int   `query:"state,omitempty"`
	Default *bool  `query:"default,omitempty"`
}

// CurrenciesService handles /coins.
type CurrenciesService struct {
	engine *Engine
}

// NewCurrenciesService returns a CurrenciesService backed by engine.
func NewCurrenciesService(engine *Engine) *CurrenciesService {
	return &CurrenciesService{engine: engine}
}

// List returns one page of currencies.
func (s *CurrenciesService) List(ctx context.Context, params *ListCurrenciesParams) (*Page[Currency], error) {
	return listPage[Currency](ctx, s.engine, "/coins.json", params)
}

// Get returns a currency.
func (s *CurrenciesService) Get(ctx context.Context, coinID int) (*Currency, error) {
	return getItem[Currency](ctx, s.engine, "/coins/"+strconv.Itoa(coinID)+".json", "coin", nil)
}

// Count returns the number of currencies.
func (s *CurrenciesService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/coins/count.json", stateParams(state))
}

// GetExchangeRate returns the exchange rate of a currency at a Unix
// timestamp.
func (s *CurrenciesService) GetExchangeRate(ctx context.Context, coinID int, timestamp int64) (float64, error) {
	var resp struct {
		ExchangeRate float64 `json:"exchangeRate"`
	}

	path := "/coins/" + strconv.Itoa(coinID) + "/exchange_rate/" + strconv.FormatInt(timestamp, 10) + ".json"
	if err := s.engine.Get(ctx, path, nil, &resp); err != nil {
		return 0, err
	}

	return resp.ExchangeRate, nil
}

// ListSales returns the sales made in a currency between two Unix
// timestamps (zero bounds are omitted).
func (s *CurrenciesService) ListSales(ctx context.Context, coinID int, startDate, endDate int64) (*Page[json.RawMessage], error) {
	return listPage[json.RawMessage](ctx, s.engine, "/coins/"+strconv.Itoa(coinID)+"/sales.json", periodParams(startDate, endDate))
}
