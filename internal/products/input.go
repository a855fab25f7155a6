package product

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

// CreateProductRequest is the product form payload. Only title and categoryId are required.
type CreateProductRequest struct {
	Title      string     `json:"title" validate:"required,notblank,max=256"`
	Brand      string     `json:"brand" validate:"max=128"`
	Model      string     `json:"model" validate:"max=128"`
	SKU        string     `json:"sku" validate:"max=64"`
	Barcode    string     `json:"barcode" validate:"max=64"`
	CategoryID *uuid.UUID `json:"categoryId" validate:"required"`

	Price            decimal.Decimal            `json:"price"`
	ComparePrice     *decimal.Decimal           `json:"comparePrice"`
	CostPrice        *decimal.Decimal           `json:"costPrice"`
	Currency         string                     `json:"currency" validate:"omitempty,len=3"`
	RegionalPrices   map[string]decimal.Decimal `json:"regionalPrices"`
	WholesaleEnabled bool                       `json:"wholesaleEnabled"`
	WholesaleTiers   []WholesaleTier            `json:"wholesaleTiers" validate:"max=10"`

	PresaleEnabled   bool `json:"presaleEnabled"`
	PresaleDays      int  `json:"presaleDays" validate:"min=0,max=365"`
	FlashSaleEnabled bool `json:"flashSaleEnabled"`

	Stock       int    `json:"stock" validate:"min=0"`
	MinOrderQty int    `json:"minOrderQty" validate:"min=0"`
	Unit        string `json:"unit" validate:"max=32"`

	Images        []string            `json:"images" validate:"max=50"`
	MainImage     string              `json:"mainImage"`
	Video         string              `json:"video"`
	VideoCover    string              `json:"videoCover"`
	CountryImages map[string][]string `json:"countryImages"`

	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription" validate:"max=1000"`
	CountryTitles    map[string]string `json:"countryTitles"`
	Keywords         []string          `json:"keywords" validate:"max=50"`
	CustomAttributes []CustomAttribute `json:"customAttributes" validate:"max=100"`
	Qualifications   []Qualification   `json:"qualifications" validate:"max=50"`

	SelectedColors []string `json:"selectedColors"`
	SelectedSizes  []string `json:"selectedSizes"`

	Weight           *decimal.Decimal `json:"weight"`
	PackageSize      *PackageSize     `json:"packageSize"`
	ShippingTemplate string           `json:"shippingTemplate"`
	DeliveryDays     int              `json:"deliveryDays" validate:"min=0"`
	OriginCountry    string           `json:"originCountry"`

	Status   string      `json:"status"`
	GroupIDs []uuid.UUID `json:"groupIds" validate:"max=100"`
}

// UpdateProductRequest is a sparse patch. Absent keys are left alone; an
// explicit null clears the field to its empty value.
type UpdateProductRequest struct {
	Title      types.Optional[string]     `json:"title"`
	Brand      types.Optional[string]     `json:"brand"`
	Model      types.Optional[string]     `json:"model"`
	SKU        types.Optional[string]     `json:"sku"`
	Barcode    types.Optional[string]     `json:"barcode"`
	CategoryID types.Optional[*uuid.UUID] `json:"categoryId"`

	Price            types.Optional[decimal.Decimal]            `json:"price"`
	ComparePrice     types.Optional[*decimal.Decimal]           `json:"comparePrice"`
	CostPrice        types.Optional[*decimal.Decimal]           `json:"costPrice"`
	Currency         types.Optional[string]                     `json:"currency"`
	RegionalPrices   types.Optional[map[string]decimal.Decimal] `json:"regionalPrices"`
	WholesaleEnabled types.Optional[bool]                       `json:"wholesaleEnabled"`
	WholesaleTiers   types.Optional[[]WholesaleTier]            `json:"wholesaleTiers"`

	PresaleEnabled   types.Optional[bool] `json:"presaleEnabled"`
	PresaleDays      types.Optional[int]  `json:"presaleDays"`
	FlashSaleEnabled types.Optional[bool] `json:"flashSaleEnabled"`

	Stock       types.Optional[int]    `json:"stock"`
	MinOrderQty types.Optional[int]    `json:"minOrderQty"`
	Unit        types.Optional[string] `json:"unit"`

	Images        types.Optional[[]string]            `json:"images"`
	MainImage     types.Optional[string]              `json:"mainImage"`
	Video         types.Optional[string]              `json:"video"`
	VideoCover    types.Optional[string]              `json:"videoCover"`
	CountryImages types.Optional[map[string][]string] `json:"countryImages"`

	Description      types.Optional[string]            `json:"description"`
	ShortDescription types.Optional[string]            `json:"shortDescription"`
	CountryTitles    types.Optional[map[string]string] `json:"countryTitles"`
	Keywords         types.Optional[[]string]          `json:"keywords"`
	CustomAttributes types.Optional[[]CustomAttribute] `json:"customAttributes"`
	Qualifications   types.Optional[[]Qualification]   `json:"qualifications"`

	SelectedColors types.Optional[[]string] `json:"selectedColors"`
	SelectedSizes  types.Optional[[]string] `json:"selectedSizes"`

	Weight           types.Optional[*decimal.Decimal] `json:"weight"`
	PackageSize      types.Optional[*PackageSize]     `json:"packageSize"`
	ShippingTemplate types.Optional[string]           `json:"shippingTemplate"`
	DeliveryDays     types.Optional[int]              `json:"deliveryDays"`
	OriginCountry    types.Optional[string]           `json:"originCountry"`

	Status   types.Optional[string]      `json:"status"`
	GroupIDs types.Optional[[]uuid.UUID] `json:"groupIds"`
}

func validationErr(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, field+" "+msg).WithDetails(map[string]string{field: msg})
}

func parseStatus(raw string) (enums.ProductStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return enums.ProductStatusDraft, nil
	}
	status, err := enums.ParseProductStatus(raw)
	if err != nil {
		return "", validationErr("status", "must be one of draft, reviewing, published, rejected, offline")
	}
	return status, nil
}

func checkNonNegative(field string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return validationErr(field, "must be greater than or equal to 0")
	}
	return nil
}

func checkTiers(tiers []WholesaleTier) error {
	for _, tier := range tiers {
		if tier.MinQuantity < 1 {
			return validationErr("wholesaleTiers", "minQuantity must be at least 1")
		}
		if tier.Price.IsNegative() {
			return validationErr("wholesaleTiers", "price must be greater than or equal to 0")
		}
	}
	return nil
}

func checkRegionalPrices(prices map[string]decimal.Decimal) error {
	for region, price := range prices {
		if strings.TrimSpace(region) == "" {
			return validationErr("regionalPrices", "region cannot be empty")
		}
		if price.IsNegative() {
			return validationErr("regionalPrices", "price must be greater than or equal to 0")
		}
	}
	return nil
}

func (r *CreateProductRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return validationErr("title", "is required")
	}
	if r.CategoryID == nil || *r.CategoryID == uuid.Nil {
		return validationErr("categoryId", "is required")
	}
	if r.Price.IsNegative() {
		return validationErr("price", "must be greater than or equal to 0")
	}
	if r.Stock < 0 {
		return validationErr("stock", "must be greater than or equal to 0")
	}
	if err := checkNonNegative("comparePrice", r.ComparePrice); err != nil {
		return err
	}
	if err := checkNonNegative("costPrice", r.CostPrice); err != nil {
		return err
	}
	if err := checkNonNegative("weight", r.Weight); err != nil {
		return err
	}
	if err := checkTiers(r.WholesaleTiers); err != nil {
		return err
	}
	return checkRegionalPrices(r.RegionalPrices)
}
