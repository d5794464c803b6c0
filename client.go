package bsale

// Client groups one service per Bsale resource over a single Engine, so all
// of them share credentials, rate limiting and observability.
type Client struct {
	engine *Engine

	Products          *ProductsService
	ProductTypes      *ProductTypesService
	Variants          *VariantsService
	Stocks            *StocksService
	StockReceptions   *StockReceptionsService
	StockConsumptions *StockConsumptionsService
	PriceLists        *PriceListsService
	Documents         *DocumentsService
	Clients           *ClientsService
	Payments          *PaymentsService
	Webhooks          *WebhooksService

	Offices           *OfficesService
	Users             *UsersService
	Currencies        *CurrenciesService
	DocumentTypes     *DocumentTypesService
	PaymentMethods    *PaymentMethodsService
	SaleConditions    *SaleConditionsService
	Discounts         *DiscountsService
	Taxes             *TaxesService
	ShipmentTypes     *ShipmentTypesService
	DynamicAttributes *DynamicAttributesService
}

// New creates a Client with default settings.
func New(creds Credentials) (*Client, error) {
	return NewWithConfig(&ClientConfig{Credentials: creds})
}

// NewWithConfig creates a Client from cfg.
func NewWithConfig(cfg *ClientConfig) (*Client, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		engine: engine,

		Products:          NewProductsService(engine),
		ProductTypes:      NewProductTypesService(engine),
		Variants:          NewVariantsService(engine),
		Stocks:            NewStocksService(engine),
		StockReceptions:   NewStockReceptionsService(engine),
		StockConsumptions: NewStockConsumptionsService(engine),
		PriceLists:        NewPriceListsService(engine),
		Documents:         NewDocumentsService(engine),
		Clients:           NewClientsService(engine),
		Payments:          NewPaymentsService(engine),
		Webhooks:          NewWebhooksService(engine),

		Offices:           NewOfficesService(engine),
		Users:             NewUsersService(engine),
		Currencies:        NewCurrenciesService(engine),
		DocumentTypes:     NewDocumentTypesService(engine),
		PaymentMethods:    NewPaymentMethodsService(engine),
		SaleConditions:    NewSaleConditionsService(engine),
		Discounts:         NewDiscountsService(engine),
		Taxes:             NewTaxesService(engine),
		ShipmentTypes:     NewShipmentTypesService(engine),
		DynamicAttributes: NewDynamicAttributesService(engine),
	}, nil
}

// UpdateCredentials replaces the credentials used by every service.
func (c *Client) UpdateCredentials(creds Credentials) {
	c.engine.UpdateCredentials(creds)
}

// Credentials returns a copy of the current credentials.
func (c *Client) Credentials() Credentials {
	return c.engine.Credentials()
}

// Engine returns the underlying Engine, for endpoints without a typed
// method.
func (c *Client) Engine() *Engine {
	return c.engine
}
