package product

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellercenter-backend/pkg/types"
)

// buildUpdateColumns maps the present fields of req onto column values.
func buildUpdateColumns(req UpdateProductRequest) (map[string]any, error) {
	cols := map[string]any{}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if title == "" {
			return nil, validationErr("title", "cannot be empty")
		}
		cols["title"] = title
	}
	if req.CategoryID.Set {
		if req.CategoryID.Null || req.CategoryID.Value == nil {
			return nil, validationErr("categoryId", "cannot be cleared")
		}
		cols["category_id"] = *req.CategoryID.Value
	}
	if req.Price.Set {
		if req.Price.Null {
			return nil, validationErr("price", "cannot be null")
		}
		if req.Price.Value.IsNegative() {
			return nil, validationErr("price", "must be greater than or equal to 0")
		}
		cols["price"] = req.Price.Value
	}
	if req.Stock.Set {
		if req.Stock.Value < 0 {
			return nil, validationErr("stock", "must be greater than or equal to 0")
		}
		cols["stock"] = req.Stock.Value
	}
	if req.PresaleDays.Set {
		if req.PresaleDays.Value < 0 || req.PresaleDays.Value > 365 {
			return nil, validationErr("presaleDays", "must be between 0 and 365")
		}
		cols["presale_days"] = req.PresaleDays.Value
	}
	if req.DeliveryDays.Set {
		if req.DeliveryDays.Value < 0 {
			return nil, validationErr("deliveryDays", "must be greater than or equal to 0")
		}
		cols["delivery_days"] = req.DeliveryDays.Value
	}
	if req.MinOrderQty.Set {
		cols["min_order_qty"] = defaultInt(req.MinOrderQty.Value, 1)
	}
	if req.Status.Set {
		status, err := parseStatus(req.Status.Value)
		if err != nil {
			return nil, err
		}
		cols["status"] = status
	}
	if req.Currency.Set {
		cols["currency"] = defaultString(strings.ToUpper(strings.TrimSpace(req.Currency.Value)), "USD")
	}
	if req.Unit.Set {
		cols["unit"] = defaultString(strings.TrimSpace(req.Unit.Value), "piece")
	}

	for _, d := range []struct {
		column string
		field  string
		opt    types.Optional[*decimal.Decimal]
	}{
		{"compare_price", "comparePrice", req.ComparePrice},
		{"cost_price", "costPrice", req.CostPrice},
		{"weight", "weight", req.Weight},
	} {
		if !d.opt.Set {
			continue
		}
		if err := checkNonNegative(d.field, d.opt.Value); err != nil {
			return nil, err
		}
		cols[d.column] = toNullDecimal(d.opt.Value)
	}

	setTrimmed(cols, "brand", req.Brand)
	setTrimmed(cols, "model", req.Model)
	setTrimmed(cols, "sku", req.SKU)
	setTrimmed(cols, "barcode", req.Barcode)
	setString(cols, "main_image", req.MainImage)
	setString(cols, "video", req.Video)
	setString(cols, "video_cover", req.VideoCover)
	setString(cols, "description", req.Description)
	setString(cols, "short_description", req.ShortDescription)
	setString(cols, "shipping_template", req.ShippingTemplate)
	setString(cols, "origin_country", req.OriginCountry)
	setBool(cols, "wholesale_enabled", req.WholesaleEnabled)
	setBool(cols, "presale_enabled", req.PresaleEnabled)
	setBool(cols, "flash_sale_enabled", req.FlashSaleEnabled)

	if req.RegionalPrices.Set {
		if err := checkRegionalPrices(req.RegionalPrices.Value); err != nil {
			return nil, err
		}
		cols["regional_prices"] = encodeJSON(nonNilMap(req.RegionalPrices.Value))
	}
	if req.WholesaleTiers.Set {
		if err := checkTiers(req.WholesaleTiers.Value); err != nil {
			return nil, err
		}
		cols["wholesale_tiers"] = encodeJSON(nonNilSlice(req.WholesaleTiers.Value))
	}
	setJSONSlice(cols, "images", req.Images)
	setJSONSlice(cols, "keywords", req.Keywords)
	setJSONSlice(cols, "selected_colors", req.SelectedColors)
	setJSONSlice(cols, "selected_sizes", req.SelectedSizes)
	setJSONSlice(cols, "custom_attributes", req.CustomAttributes)
	setJSONSlice(cols, "qualifications", req.Qualifications)
	setJSONMap(cols, "country_images", req.CountryImages)
	setJSONMap(cols, "country_titles", req.CountryTitles)
	if req.PackageSize.Set {
		cols["package_size"] = encodeJSON(req.PackageSize.Value)
	}
	return cols, nil
}

func setString(cols map[string]any, column string, opt types.Optional[string]) {
	if opt.Set {
		cols[column] = opt.Get("")
	}
}

func setTrimmed(cols map[string]any, column string, opt types.Optional[string]) {
	if opt.Set {
		cols[column] = strings.TrimSpace(opt.Get(""))
	}
}

func setBool(cols map[string]any, column string, opt types.Optional[bool]) {
	if opt.Set {
		cols[column] = opt.Get(false)
	}
}

// setJSONSlice writes [] for an explicit null.
func setJSONSlice[T any](cols map[string]any, column string, opt types.Optional[[]T]) {
	if opt.Set {
		cols[column] = encodeJSON(nonNilSlice(opt.Value))
	}
}

// setJSONMap writes {} for an explicit null.
func setJSONMap[V any](cols map[string]any, column string, opt types.Optional[map[string]V]) {
	if opt.Set {
		cols[column] = encodeJSON(nonNilMap(opt.Value))
	}
}

func nonNilSlice[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func nonNilMap[V any](v map[string]V) map[string]V {
	if v == nil {
		return map[string]V{}
	}
	return v
}
