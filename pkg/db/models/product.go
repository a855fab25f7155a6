package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// Product is a seller listing. List-valued and map-valued attributes are
// stored as JSON and decoded by the products package.
type Product struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid;index"`

	Title   string `gorm:"column:title;not null"`
	Brand   string `gorm:"column:brand;not null;default:''"`
	Model   string `gorm:"column:model;not null;default:''"`
	SKU     string `gorm:"column:sku;not null;default:'';index"`
	Barcode string `gorm:"column:barcode;not null;default:''"`

	Price            decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	ComparePrice     decimal.NullDecimal `gorm:"column:compare_price;type:numeric(12,2)"`
	CostPrice        decimal.NullDecimal `gorm:"column:cost_price;type:numeric(12,2)"`
	Currency         string              `gorm:"column:currency;not null;default:'USD'"`
	RegionalPrices   datatypes.JSON      `gorm:"column:regional_prices"`
	WholesaleEnabled bool                `gorm:"column:wholesale_enabled;not null;default:false"`
	WholesaleTiers   datatypes.JSON      `gorm:"column:wholesale_tiers"`

	PresaleEnabled   bool `gorm:"column:presale_enabled;not null;default:false"`
	PresaleDays      int  `gorm:"column:presale_days;not null;default:0"`
	FlashSaleEnabled bool `gorm:"column:flash_sale_enabled;not null;default:false"`

	Stock       int    `gorm:"column:stock;not null;default:0"`
	MinOrderQty int    `gorm:"column:min_order_qty;not null;default:1"`
	Unit        string `gorm:"column:unit;not null;default:'piece'"`

	Images        datatypes.JSON `gorm:"column:images"`
	MainImage     string         `gorm:"column:main_image;not null;default:''"`
	Video         string         `gorm:"column:video;not null;default:''"`
	VideoCover    string         `gorm:"column:video_cover;not null;default:''"`
	CountryImages datatypes.JSON `gorm:"column:country_images"`

	Description      string         `gorm:"column:description;not null;default:''"`
	ShortDescription string         `gorm:"column:short_description;not null;default:''"`
	CountryTitles    datatypes.JSON `gorm:"column:country_titles"`
	Keywords         datatypes.JSON `gorm:"column:keywords"`
	CustomAttributes datatypes.JSON `gorm:"column:custom_attributes"`
	Qualifications   datatypes.JSON `gorm:"column:qualifications"`

	SelectedColors datatypes.JSON `gorm:"column:selected_colors"`
	SelectedSizes  datatypes.JSON `gorm:"column:selected_sizes"`

	Weight           decimal.NullDecimal `gorm:"column:weight;type:numeric(10,3)"`
	PackageSize      datatypes.JSON      `gorm:"column:package_size"`
	ShippingTemplate string              `gorm:"column:shipping_template;not null;default:''"`
	DeliveryDays     int                 `gorm:"column:delivery_days;not null;default:0"`
	OriginCountry    string              `gorm:"column:origin_country;not null;default:''"`

	Status            enums.ProductStatus `gorm:"column:status;not null;default:draft;index"`
	RejectReason      string              `gorm:"column:reject_reason;not null;default:''"`
	OptimizationTasks int                 `gorm:"column:optimization_tasks;not null;default:0"`
	Views             int                 `gorm:"column:views;not null;default:0"`
	Sales             int                 `gorm:"column:sales;not null;default:0"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
