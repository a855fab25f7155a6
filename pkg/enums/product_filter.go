package enums

import "fmt"

// ProductFilter is the quick filter tab on the product table.
type ProductFilter string

const (
	ProductFilterSoldOut   ProductFilter = "soldout"
	ProductFilterPresale   ProductFilter = "presale"
	ProductFilterWholesale ProductFilter = "wholesale"
	ProductFilterFlash     ProductFilter = "flash"
)

var validProductFilters = []ProductFilter{
	ProductFilterSoldOut,
	ProductFilterPresale,
	ProductFilterWholesale,
	ProductFilterFlash,
}

func ParseProductFilter(value string) (ProductFilter, error) {
	for _, candidate := range validProductFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid filter type %q", value)
}

// SearchType picks the column a free-text product search runs against.
type SearchType string

const (
	SearchTypeTitle SearchType = "title"
	SearchTypeSKU   SearchType = "sku"
	SearchTypeID    SearchType = "id"
)

func ParseSearchType(value string) (SearchType, error) {
	switch SearchType(value) {
	case "":
		return SearchTypeTitle, nil
	case SearchTypeTitle, SearchTypeSKU, SearchTypeID:
		return SearchType(value), nil
	}
	return "", fmt.Errorf("invalid search type %q", value)
}
