package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellercenter-backend/pkg/errors"
)

const (
	exportSheet      = "Products"
	exportTimeLayout = "2006-01-02 15:04:05"
	contentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV   = "text/csv; charset=utf-8"
)

// ExportColumns is the fixed header row of every export.
var ExportColumns = []string{
	"ID", "Title", "SKU", "Brand", "Category", "Price", "Compare Price",
	"Stock", "Status", "Groups", "Created At", "Updated At",
}

// ExportFile is a rendered attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// exportRow mirrors ExportColumns; the csv tags are the header names.
type exportRow struct {
	ID           string `csv:"ID"`
	Title        string `csv:"Title"`
	SKU          string `csv:"SKU"`
	Brand        string `csv:"Brand"`
	Category     string `csv:"Category"`
	Price        string `csv:"Price"`
	ComparePrice string `csv:"Compare Price"`
	Stock        int    `csv:"Stock"`
	Status       string `csv:"Status"`
	Groups       string `csv:"Groups"`
	CreatedAt    string `csv:"Created At"`
	UpdatedAt    string `csv:"Updated At"`
}

func (r exportRow) cells() []any {
	return []any{
		r.ID, r.Title, r.SKU, r.Brand, r.Category, r.Price, r.ComparePrice,
		r.Stock, r.Status, r.Groups, r.CreatedAt, r.UpdatedAt,
	}
}

func (s *service) export(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, format enums.ExportFormat, locale string) (*ExportFile, int, error) {
	products, err := s.repo.FindOwned(ctx, userID, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load export rows")
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	categoryIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}
	groups, err := s.repo.GroupNamesFor(ctx, productIDs)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load export groups")
	}
	categories, err := s.repo.CategoryNames(ctx, dedupeIDs(categoryIDs))
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load export categories")
	}

	rows := make([]exportRow, 0, len(products))
	for i := range products {
		rows = append(rows, buildExportRow(&products[i], categories, groups[products[i].ID], locale))
	}

	var file *ExportFile
	switch format {
	case enums.ExportFormatCSV:
		file, err = renderCSV(rows)
	default:
		file, err = renderXLSX(rows)
	}
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export")
	}
	file.Filename = exportFilename(s.now(), format)
	return file, len(rows), nil
}

func buildExportRow(p *models.Product, categories map[uuid.UUID]string, groups []string, locale string) exportRow {
	row := exportRow{
		ID:        p.ID.String(),
		Title:     p.Title,
		SKU:       p.SKU,
		Brand:     p.Brand,
		Price:     p.Price.StringFixed(2),
		Stock:     p.Stock,
		Status:    p.Status.Label(locale),
		Groups:    strings.Join(groups, ", "),
		CreatedAt: p.CreatedAt.UTC().Format(exportTimeLayout),
		UpdatedAt: p.UpdatedAt.UTC().Format(exportTimeLayout),
	}
	if p.CategoryID != nil {
		row.Category = categories[*p.CategoryID]
	}
	if p.ComparePrice.Valid {
		row.ComparePrice = p.ComparePrice.Decimal.StringFixed(2)
	}
	return row
}

func renderXLSX(rows []exportRow) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	header := make([]any, len(ExportColumns))
	for i, col := range ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(ExportColumns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", lastCol, 18); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := row.cells()
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &ExportFile{ContentType: contentTypeXLSX, Body: buf.Bytes()}, nil
}

// renderCSV prefixes a UTF-8 BOM.
func renderCSV(rows []exportRow) (*ExportFile, error) {
	body, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		ContentType: contentTypeCSV,
		Body:        append([]byte("\ufeff"), body...),
	}, nil
}

func exportFilename(now time.Time, format enums.ExportFormat) string {
	return fmt.Sprintf("products-%s.%s", now.Format("20060102150405"), format)
}
