package enums

import "fmt"

// BatchAction names a bulk operation over product ids.
type BatchAction string

const (
	BatchActionOffline BatchAction = "offline"
	BatchActionOnline  BatchAction = "online"
	BatchActionDelete  BatchAction = "delete"
	BatchActionExport  BatchAction = "export"
)

var validBatchActions = []BatchAction{
	BatchActionOffline,
	BatchActionOnline,
	BatchActionDelete,
	BatchActionExport,
}

func (a BatchAction) String() string {
	return string(a)
}

func (a BatchAction) IsValid() bool {
	for _, candidate := range validBatchActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseBatchAction(value string) (BatchAction, error) {
	for _, candidate := range validBatchActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch action %q", value)
}

// ExportFormat selects the spreadsheet encoding of an export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(value) {
	case "":
		return ExportFormatXLSX, nil
	case ExportFormatXLSX, ExportFormatCSV:
		return ExportFormat(value), nil
	}
	return "", fmt.Errorf("invalid export format %q", value)
}
