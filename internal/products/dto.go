package product

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// WholesaleTier is a quantity break price.
type WholesaleTier struct {
	MinQuantity int             `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
}

// CustomAttribute is a free-form name/value pair shown on the listing.
type CustomAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Qualification is an uploaded certificate.
type Qualification struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PackageSize is the shipping box in centimetres.
type PackageSize struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// ProductDTO is the full product payload returned by get, create and update.
type ProductDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	CategoryID *uuid.UUID `json:"categoryId"`

	Title   string `json:"title"`
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	SKU     string `json:"sku"`
	Barcode string `json:"barcode"`

	Price            decimal.Decimal            `json:"price"`
	ComparePrice     *decimal.Decimal           `json:"comparePrice"`
	CostPrice        *decimal.Decimal           `json:"costPrice"`
	Currency         string                     `json:"currency"`
	RegionalPrices   map[string]decimal.Decimal `json:"regionalPrices"`
	WholesaleEnabled bool                       `json:"wholesaleEnabled"`
	WholesaleTiers   []WholesaleTier            `json:"wholesaleTiers"`

	PresaleEnabled   bool `json:"presaleEnabled"`
	PresaleDays      int  `json:"presaleDays"`
	FlashSaleEnabled bool `json:"flashSaleEnabled"`

	Stock       int    `json:"stock"`
	MinOrderQty int    `json:"minOrderQty"`
	Unit        string `json:"unit"`

	Images        []string            `json:"images"`
	MainImage     string              `json:"mainImage"`
	Video         string              `json:"video"`
	VideoCover    string              `json:"videoCover"`
	CountryImages map[string][]string `json:"countryImages"`

	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	CountryTitles    map[string]string `json:"countryTitles"`
	Keywords         []string          `json:"keywords"`
	CustomAttributes []CustomAttribute `json:"customAttributes"`
	Qualifications   []Qualification   `json:"qualifications"`

	SelectedColors []string `json:"selectedColors"`
	SelectedSizes  []string `json:"selectedSizes"`

	Weight           *decimal.Decimal `json:"weight"`
	PackageSize      *PackageSize     `json:"packageSize"`
	ShippingTemplate string           `json:"shippingTemplate"`
	DeliveryDays     int              `json:"deliveryDays"`
	OriginCountry    string           `json:"originCountry"`

	Status            enums.ProductStatus `json:"status"`
	RejectReason      string              `json:"rejectReason"`
	OptimizationTasks int                 `json:"optimizationTasks"`
	Views             int                 `json:"views"`
	Sales             int                 `json:"sales"`

	GroupIDs  []uuid.UUID `json:"groupIds"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ProductListItem is the trimmed row shown in the product table.
type ProductListItem struct {
	ID                uuid.UUID           `json:"id"`
	CategoryID        *uuid.UUID          `json:"categoryId"`
	Title             string              `json:"title"`
	SKU               string              `json:"sku"`
	Brand             string              `json:"brand"`
	MainImage         string              `json:"mainImage"`
	Images            []string            `json:"images"`
	Price             decimal.Decimal     `json:"price"`
	ComparePrice      *decimal.Decimal    `json:"comparePrice"`
	Currency          string              `json:"currency"`
	Stock             int                 `json:"stock"`
	Status            enums.ProductStatus `json:"status"`
	PresaleEnabled    bool                `json:"presaleEnabled"`
	WholesaleEnabled  bool                `json:"wholesaleEnabled"`
	FlashSaleEnabled  bool                `json:"flashSaleEnabled"`
	OptimizationTasks int                 `json:"optimizationTasks"`
	Views             int                 `json:"views"`
	Sales             int                 `json:"sales"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// NewProductDTO decodes the JSON columns of p. Malformed JSON falls back to the empty value.
func NewProductDTO(p *models.Product, groupIDs []uuid.UUID) *ProductDTO {
	if p == nil {
		return nil
	}
	if groupIDs == nil {
		groupIDs = []uuid.UUID{}
	}
	return &ProductDTO{
		ID:                p.ID,
		UserID:            p.UserID,
		CategoryID:        p.CategoryID,
		Title:             p.Title,
		Brand:             p.Brand,
		Model:             p.Model,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Price:             p.Price,
		ComparePrice:      nullDecimalPtr(p.ComparePrice),
		CostPrice:         nullDecimalPtr(p.CostPrice),
		Currency:          p.Currency,
		RegionalPrices:    decodeJSON(p.RegionalPrices, map[string]decimal.Decimal{}),
		WholesaleEnabled:  p.WholesaleEnabled,
		WholesaleTiers:    decodeJSON(p.WholesaleTiers, []WholesaleTier{}),
		PresaleEnabled:    p.PresaleEnabled,
		PresaleDays:       p.PresaleDays,
		FlashSaleEnabled:  p.FlashSaleEnabled,
		Stock:             p.Stock,
		MinOrderQty:       p.MinOrderQty,
		Unit:              p.Unit,
		Images:            decodeJSON(p.Images, []string{}),
		MainImage:         p.MainImage,
		Video:             p.Video,
		VideoCover:        p.VideoCover,
		CountryImages:     decodeJSON(p.CountryImages, map[string][]string{}),
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		CountryTitles:     decodeJSON(p.CountryTitles, map[string]string{}),
		Keywords:          decodeJSON(p.Keywords, []string{}),
		CustomAttributes:  decodeJSON(p.CustomAttributes, []CustomAttribute{}),
		Qualifications:    decodeJSON(p.Qualifications, []Qualification{}),
		SelectedColors:    decodeJSON(p.SelectedColors, []string{}),
		SelectedSizes:     decodeJSON(p.SelectedSizes, []string{}),
		Weight:            nullDecimalPtr(p.Weight),
		PackageSize:       decodeJSON[*PackageSize](p.PackageSize, nil),
		ShippingTemplate:  p.ShippingTemplate,
		DeliveryDays:      p.DeliveryDays,
		OriginCountry:     p.OriginCountry,
		Status:            p.Status,
		RejectReason:      p.RejectReason,
		OptimizationTasks: p.OptimizationTasks,
		Views:             p.Views,
		Sales:             p.Sales,
		GroupIDs:          groupIDs,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func newListItem(p *models.Product) ProductListItem {
	return ProductListItem{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		Title:             p.Title,
		SKU:               p.SKU,
		Brand:             p.Brand,
		MainImage:         p.MainImage,
		Images:            decodeJSON(p.Images, []string{}),
		Price:             p.Price,
		ComparePrice:      nullDecimalPtr(p.ComparePrice),
		Currency:          p.Currency,
		Stock:             p.Stock,
		Status:            p.Status,
		PresaleEnabled:    p.PresaleEnabled,
		WholesaleEnabled:  p.WholesaleEnabled,
		FlashSaleEnabled:  p.FlashSaleEnabled,
		OptimizationTasks: p.OptimizationTasks,
		Views:             p.Views,
		Sales:             p.Sales,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// decodeJSON never fails: empty, null or malformed input yields fallback.
func decodeJSON[T any](raw datatypes.JSON, fallback T) T {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback
	}
	return out
}

// encodeJSON maps nil values to SQL NULL.
func encodeJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

func nullDecimalPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func toNullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}
