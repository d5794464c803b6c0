package bsale

import (
	"context"
	"net/http"
	"strconv"
)

// Product classifications.
const (
	ClassificationProduct = 0
	ClassificationService = 1
	ClassificationPack    = 3
)

// Product is a sellable item. Stock and prices live on its variants.
type Product struct {
	Href                   string       `json:"href"`
	ID                     int          `json:"id"`
	Name                   string       `json:"name"`
	Description            string       `json:"description"`
	Classification         int          `json:"classification"`
	LedgerAccount          string       `json:"ledgerAccount"`
	CostCenter             string       `json:"costCenter"`
	AllowDecimal           int          `json:"allowDecimal"`
	StockControl           int          `json:"stockControl"`
	PrintDetailInDocuments int          `json:"printDetailInDocuments"`
	PrintDetailPack        int          `json:"printDetailPack"`
	State                  int          `json:"state"`
	PrestashopProductID    int          `json:"prestashopProductId"`
	PrestashopAttributeID  int          `json:"presashopAttributeId"`
	ProductType            *ResourceRef `json:"product_type,omitempty"`
	Variants               *ResourceRef `json:"variants,omitempty"`
	ProductTaxes           *ResourceRef `json:"product_taxes,omitempty"`
}

// ProductType groups products and defines their attributes.
type ProductType struct {
	Href                 string       `json:"href"`
	ID                   int          `json:"id"`
	Name                 string       `json:"name"`
	IsEditable           int          `json:"isEditable"`
	State                int          `json:"state"`
	ImagestionCategoryID int          `json:"imagestionCategoryId,omitempty"`
	PrestashopCategoryID int          `json:"prestashopCategoryId,omitempty"`
	Attributes           *ResourceRef `json:"attributes,omitempty"`
}

// ProductAttribute is an attribute definition of a product type.
type ProductAttribute struct {
	Href                string `json:"href"`
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	IsMandatory         int    `json:"isMandatory"`
	GenerateVariantName int    `json:"generateVariantName"`
	HasOptions          int    `json:"hasOptions"`
	Options             string `json:"options,omitempty"` // "|" separated
	State               int    `json:"state"`
}

// ProductTax links a product to a tax.
type ProductTax struct {
	Href string      `json:"href"`
	ID   FlexString  `json:"id"`
	Tax  ResourceRef `json:"tax"`
}

// ListProductsParams filters Products.List.
type ListProductsParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name           string `query:"name,omitempty"`
	LedgerAccount  string `query:"ledgeraccount,omitempty"`
	CostCenter     string `query:"costcenter,omitempty"`
	ProductTypeID  int    `query:"producttypeid,omitempty"`
	State          *int   `query:"state,omitempty"`
	Classification *int   `query:"classification,omitempty"`
}

// CreateProductRequest is the body of Products.Create.
type CreateProductRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Classification *int   `json:"classification,omitempty"`
	StockControl   *int   `json:"stockControl,omitempty"`
	ProductTypeID  int    `json:"productTypeId"`
	SerialNumber   *int   `json:"serialNumber,omitempty"`
	IsLot          *int   `json:"isLot,omitempty"`
	Taxes          []int  `json:"taxes,omitempty"`
}

// UpdateProductRequest is the body of Products.Update. ID is set from the
// method argument.
type UpdateProductRequest struct {
	ID             int    `json:"id"`
	Name           string `json:"name,omitempty"`
	ProductTypeID  int    `json:"productTypeId,omitempty"`
	AllowDecimal   *int   `json:"allowDecimal,omitempty"`
	Description    string `json:"description,omitempty"`
	Classification *int   `json:"classification,omitempty"`
	StockControl   *int   `json:"stockControl,omitempty"`
}

// PackDetailRequest is one item of a pack.
type PackDetailRequest struct {
	MultipleVariant int `json:"multipleVariant"`
	ProductPromoID  int `json:"productPromoId"`
	Quantity        int `json:"quantity"`
	VariantPromoID  int `json:"variantPromoId"`
}

// CreatePackRequest is the body of Products.CreatePack.
type CreatePackRequest struct {
	ProductTypeID   int                 `json:"productTypeId"`
	BasePrice       float64             `json:"basePrice"`
	Name            string              `json:"name"`
	BarCode         string              `json:"barCode"`
	Code            string              `json:"code"`
	PriceWithTax    *int                `json:"priceWithTax,omitempty"`
	PrintDetailPack *int                `json:"printDetailPack,omitempty"`
	PackDetails     []PackDetailRequest `json:"packDetails"`
}

// PackDetail is one item of a created pack.
type PackDetail struct {
	ID              int            `json:"id"`
	ProductID       int            `json:"productId"`
	VariantID       int            `json:"variantId"`
	Quantity        float64        `json:"quantity"`
	State           int            `json:"state"`
	PackID          int            `json:"packId"`
	MultipleVariant bool           `json:"multipleVariant"`
	PackInfo        map[string]any `json:"packInfo"`
}

// Pack is the result of Products.CreatePack.
type Pack struct {
	Code FlexString `json:"code"`
	Data struct {
		ID              int          `json:"id"`
		Name            string       `json:"name"`
		Classification  int          `json:"classification"`
		PrintPackDetail bool         `json:"printPackDetail"`
		State           int          `json:"state"`
		ProductTypeID   int          `json:"productTypeId"`
		BrandID         int          `json:"brandId"`
		SKU             string       `json:"sku"`
		BarCode         string       `json:"barCode"`
		PackDetail      []PackDetail `json:"packDetail"`
	} `json:"data"`
}

// ProductsService handles /products.
type ProductsService struct {
	engine *Engine
}

// NewProductsService returns a ProductsService backed by engine.
func NewProductsService(engine *Engine) *ProductsService {
	return &ProductsService{engine: engine}
}

// List returns one page of products.
func (s *ProductsService) List(ctx context.Context, params *ListProductsParams) (*Page[Product], error) {
	return listPage[Product](ctx, s.engine, "/products.json", params)
}

// Get returns a product. expand names related resources to inline.
func (s *ProductsService) Get(ctx context.Context, productID int, expand ...string) (*Product, error) {
	return getItem[Product](ctx, s.engine, "/products/"+strconv.Itoa(productID)+".json", "product", expandParams(expand))
}

// Count returns the number of products, optionally restricted to a state.
func (s *ProductsService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/products/count.json", stateParams(state))
}

// Create creates a product.
func (s *ProductsService) Create(ctx context.Context, product *CreateProductRequest) (*Product, error) {
	return sendItem[Product](ctx, s.engine, http.MethodPost, "/products.json", "product", product)
}

// Update updates a product.
func (s *ProductsService) Update(ctx context.Context, productID int, updates UpdateProductRequest) (*Product, error) {
	updates.ID = productID
	return sendItem[Product](ctx, s.engine, http.MethodPut, "/products/"+strconv.Itoa(productID)+".json", "product", updates)
}

// Delete marks a product inactive and returns it.
func (s *ProductsService) Delete(ctx context.Context, productID int) (*Product, error) {
	return sendItem[Product](ctx, s.engine, http.MethodDelete, "/products/"+strconv.Itoa(productID)+".json", "product", nil)
}

// CreatePack creates a product bundle through the v2 API.
func (s *ProductsService) CreatePack(ctx context.Context, pack *CreatePackRequest) (*Pack, error) {
	return sendItem[Pack](ctx, s.engine, http.MethodPost, "/v2/products/pack.json", "", pack)
}

// ListVariants returns the variants of a product.
func (s *ProductsService) ListVariants(ctx context.Context, productID int) (*Page[Variant], error) {
	return listPage[Variant](ctx, s.engine, "/products/"+strconv.Itoa(productID)+"/variants.json", nil)
}

// ListTaxes returns the taxes applied to a product.
func (s *ProductsService) ListTaxes(ctx context.Context, productID int) (*Page[ProductTax], error) {
	return listPage[ProductTax](ctx, s.engine, "/products/"+strconv.Itoa(productID)+"/product_taxes.json", nil)
}

// GetTax returns one tax association of a product.
func (s *ProductsService) GetTax(ctx context.Context, productID, taxID int) (*ProductTax, error) {
	path := "/products/" + strconv.Itoa(productID) + "/product_taxes/" + strconv.Itoa(taxID) + ".json"
	return getItem[ProductTax](ctx, s.engine, path, "product_tax", nil)
}

// ListAll returns every product in state, expanding the product type.
func (s *ProductsService) ListAll(ctx context.Context, state int) ([]Product, error) {
	return ListAll(ctx, func(ctx context.Context, limit, offset int) (*Page[Product], error) {
		return s.List(ctx, &ListProductsParams{
			Pagination:  Pagination{Limit: limit, Offset: offset},
			FieldParams: FieldParams{Expand: []string{"product_type"}},
			State:       &state,
		})
	})
}

// ProductTypesService handles /product_types.
type ProductTypesService struct {
	engine *Engine
}

// ListProductTypesParams filters ProductTypes.List.
type ListProductTypesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name  string `query:"name,omitempty"`
	State *int   `query:"state,omitempty"`
}

// ProductAttributeRequest defines an attribute when creating or updating a
// product type. ID is set only for existing attributes.
type ProductAttributeRequest struct {
	ID                  int    `json:"id,omitempty"`
	Name                string `json:"name"`
	IsMandatory         int    `json:"isMandatory"`
	GenerateVariantName int    `json:"generateVariantName"`
	HasOptions          int    `json:"hasOptions"`
	Options             string `json:"options,omitempty"`
	State               int    `json:"state"`
}

// CreateProductTypeRequest is the body of ProductTypes.Create.
type CreateProductTypeRequest struct {
	Name       string                    `json:"name"`
	Attributes []ProductAttributeRequest `json:"attributes,omitempty"`
}

// UpdateProductTypeRequest is the body of ProductTypes.Update.
type UpdateProductTypeRequest struct {
	ID         int                       `json:"id"`
	Name       string                    `json:"name,omitempty"`
	Attributes []ProductAttributeRequest `json:"attributes,omitempty"`
}

// NewProductTypesService returns a ProductTypesService backed by engine.
func NewProductTypesService(engine *Engine) *ProductTypesService {
	return &ProductTypesService{engine: engine}
}

// List returns one page of product types.
func (s *ProductTypesService) List(ctx context.Context, params *ListProductTypesParams) (*Page[ProductType], error) {
	return listPage[ProductType](ctx, s.engine, "/product_types.json", params)
}

// Get returns a product type.
func (s *ProductTypesService) Get(ctx context.Context, typeID int, expand ...string) (*ProductType, error) {
	return getItem[ProductType](ctx, s.engine, "/product_types/"+strconv.Itoa(typeID)+".json", "product_type", expandParams(expand))
}

// Count returns the number of product types.
func (s *ProductTypesService) Count(ctx context.Context, state *int) (int, error) {
	return count(ctx, s.engine, "/product_types/count.json", stateParams(state))
}

// Create creates a product type.
func (s *ProductTypesService) Create(ctx context.Context, productType *CreateProductTypeRequest) (*ProductType, error) {
	return sendItem[ProductType](ctx, s.engine, http.MethodPost, "/product_types.json", "product_type", productType)
}

// Update updates a product type.
func (s *ProductTypesService) Update(ctx context.Context, typeID int, updates UpdateProductTypeRequest) (*ProductType, error) {
	updates.ID = typeID
	return sendItem[ProductType](ctx, s.engine, http.MethodPut, "/product_types/"+strconv.Itoa(typeID)+".json", "product_type", updates)
}

// Delete marks a product type inactive.
func (s *ProductTypesService) Delete(ctx context.Context, typeID int) (*ProductType, error) {
	return sendItem[ProductType](ctx, s.engine, http.MethodDelete, "/product_types/"+strconv.Itoa(typeID)+".json", "product_type", nil)
}

// ListProducts returns the products of a type.
func (s *ProductTypesService) ListProducts(ctx context.Context, typeID int) (*Page[Product], error) {
	return listPage[Product](ctx, s.engine, "/product_types/"+strconv.Itoa(typeID)+"/products.json", nil)
}

// ListAttributes returns the attribute definitions of a type.
func (s *ProductTypesService) ListAttributes(ctx context.Context, typeID int) (*Page[ProductAttribute], error) {
	return listPage[ProductAttribute](ctx, s.engine, "/product_types/"+strconv.Itoa(typeID)+"/attributes.json", nil)
}

// GetAttribute returns one attribute definition.
func (s *ProductTypesService) GetAttribute(ctx context.Context, typeID, attributeID int) (*ProductAttribute, error) {
	path := "/product_types/" + strconv.Itoa(typeID) + "/attributes/" + strconv.Itoa(attributeID) + ".json"
	return getItem[ProductAttribute](ctx, s.engine, path, "attribute", nil)
}
