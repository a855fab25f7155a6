package enums

import "fmt"

// ProductStatus is the listing lifecycle state.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusReviewing ProductStatus = "reviewing"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusRejected  ProductStatus = "rejected"
	ProductStatusOffline   ProductStatus = "offline"
)

var validProductStatuses = []ProductStatus{
	ProductStatusDraft,
	ProductStatusReviewing,
	ProductStatusPublished,
	ProductStatusRejected,
	ProductStatusOffline,
}

// ProductStatuses returns every status in display order.
func ProductStatuses() []ProductStatus {
	out := make([]ProductStatus, len(validProductStatuses))
	copy(out, validProductStatuses)
	return out
}

func (s ProductStatus) String() string {
	return string(s)
}

func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Label returns the human readable status for the given locale ("en" or "zh").
func (s ProductStatus) Label(locale string) string {
	labels, ok := productStatusLabels[locale]
	if !ok {
		labels = productStatusLabels["zh"]
	}
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

var productStatusLabels = map[string]map[ProductStatus]string{
	"zh": {
		ProductStatusDraft:     "草稿",
		ProductStatusReviewing: "审核中",
		ProductStatusPublished: "已上架",
		ProductStatusRejected:  "审核未通过",
		ProductStatusOffline:   "已下架",
	},
	"en": {
		ProductStatusDraft:     "Draft",
		ProductStatusReviewing: "Reviewing",
		ProductStatusPublished: "Published",
		ProductStatusRejected:  "Rejected",
		ProductStatusOffline:   "Offline",
	},
}

func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
