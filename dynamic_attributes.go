package bsale

import (
	"context"
	"strconv"
)

// DynamicAttribute is a custom field attached to documents or payments.
type DynamicAttribute struct {
	Href         string       `json:"href"`
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Tip          string       `json:"tip"`
	Type         int          `json:"type"`
	IsMandatory  int          `json:"isMandatory"`
	State        int          `json:"state"`
	PaymentType  *ResourceRef `json:"payment_type,omitempty"`
	DocumentType *ResourceRef `json:"document_type,omitempty"`
	Details      *ResourceRef `json:"details,omitempty"`
}

// DynamicAttributeDetail is an allowed value of a dynamic attribute.
type DynamicAttributeDetail struct {
	Href  string `json:"href"`
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// ListDynamicAttributesParams filters DynamicAttributes.List.
type ListDynamicAttributesParams struct {
	Pagination  `query:",squash"`
	FieldParams `query:",squash"`

	Name           string `query:"name,omitempty"`
	Type           *int   `query:"type,omitempty"`
	State          *int   `query:"state,omitempty"`
	PaymentTypeID  int    `query:"paymenttypeid,omitempty"`
	DocumentTypeID int    `query:"documenttypeid,omitempty"`
}

// DynamicAttributesService handles /dynamic_attributes.
type DynamicAttributesService struct {
	engine *Engine
}

// NewDynamicAttributesService returns a DynamicAttributesService backed by engine.
func NewDynamicAttributesService(engine *Engine) *DynamicAttributesService {
	return &DynamicAttributesService{engine: engine}
}

// List returns one page of dynamic attributes.
func (s *DynamicAttributesService) List(ctx context.Context, params *ListDynamicAttributesParams) (*Page[DynamicAttribute], error) {
	return listPage[DynamicAttribute](ctx, s.engine, "/dynamic_attributes.json", params)
}

// Get returns a dynamic attribute.
func (s *DynamicAttributesService) Get(ctx context.Context, attributeID int) (*DynamicAttribute, error) {
	return getItem[DynamicAttribute](ctx, s.engine, "/dynamic_attributes/"+strconv.Itoa(attributeID)+".json", "dynamic_attribute", nil)
}

// ListDetails returns the allowed values of a dynamic attribute.
func (s *DynamicAttributesService) ListDetails(ctx context.Context, attributeID int) (*Page[DynamicAttributeDetail], error) {
	return listPage[DynamicAttributeDetail](ctx, s.engine, "/dynamic_attributes/"+strconv.Itoa(attributeID)+"/details.json", nil)
}

// GetDetail returns one allowed value of a dynamic attribute.
func (s *DynamicAttributesService) GetDetail(ctx context.Context, attributeID, detailID int) (*DynamicAttributeDetail, error) {
	path := "/dynamic_attributes/" + strconv.Itoa(attributeID) + "/details/" + strconv.Itoa(detailID) + ".json"
	return getItem[DynamicAttributeDetail](ctx, s.engine, path, "detail", nil)
}
