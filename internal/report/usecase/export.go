package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/report/window"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	SummarySheet = "Summary"
	DetailSheet  = "Detailed Sales"
)

var detailHeader = []interface{}{"ID", "Product", "Category", "Date", "Price", "Quantity", "Revenue", "Profit", "Margin"}

// ExportSalesReport writes the report for input to out as an xlsx workbook.
func (uc *reportUseCase) ExportSalesReport(ctx context.Context, input *dto.SalesReportInput, out io.Writer) error {
	res, err := uc.GetSalesReport(ctx, input)
	if err != nil {
		return err
	}
	w, err := window.Resolve(input.StartDate, input.EndDate)
	if err != nil {
		return err
	}

	f, err := salesWorkbook(res, dateRangeLabel(w), uc.opts.Clock())
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, err, "failed to build sales workbook")
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return apperror.Wrap(apperror.KindInternal, err, "failed to write sales workbook")
	}

	uc.logger.Debug("sales report exported",
		zap.String("window", w.String()),
		zap.Int("detailed_sales", len(res.DetailedSales)),
	)
	return nil
}

func dateRangeLabel(w window.Window) string {
	switch {
	case w.Start != "" && w.End != "":
		return fmt.Sprintf("%s to %s", w.Start, w.End)
	case w.Start != "":
		return "Since " + w.Start
	case w.End != "":
		return "Until " + w.End
	default:
		return "All Time"
	}
}

func salesWorkbook(res *dto.SalesReport, dateRange string, exportedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	s := res.SalesSummary
	summary := [][]interface{}{
		{"Sales Report Summary"},
		{"Exported on:", model.FormatTimestamp(exportedAt)},
		{"Date Range:", dateRange},
		nil,
		{"Total Sales Amount", s.TotalSales},
		{"Total Revenue", s.TotalRevenue},
		{"Total Profit", s.TotalProfit},
		{"Total Items Sold", s.ItemsSold},
		{"Total Transactions", s.Transactions},
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(DetailSheet); err != nil {
		f.Close()
		return nil, err
	}
	detail := make([][]interface{}, 0, len(res.DetailedSales)+1)
	detail = append(detail, detailHeader)
	for _, d := range res.DetailedSales {
		detail = append(detail, []interface{}{
			d.ID, d.Product, d.Category, d.Date, d.Price, d.Quantity, d.Revenue, d.Profit, d.Margin,
		})
	}
	if err := writeRows(f, DetailSheet, detail); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeRows fills sheet from A1 down. A nil row is left blank.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
