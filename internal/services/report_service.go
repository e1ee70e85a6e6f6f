package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"tracker-backend/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders the movement report in exportable formats. The
// figures come from the same aggregation path the dashboard uses, so an
// export always matches what the caller just saw on screen.
type ReportService struct {
	Dashboard *DashboardService
}

func NewReportService(dashboard *DashboardService) *ReportService {
	return &ReportService{Dashboard: dashboard}
}

func reportPeriod(filter *models.DashboardFilter) string {
	from, to := "start", "now"
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", from, to)
}

// CSV renders the movement report as a flat CSV file.
func (s *ReportService) CSV(ctx context.Context, scope models.Scope, filter *models.DashboardFilter) ([]byte, error) {
	m, err := s.Dashboard.Metrics(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "metric", "value"},
		{"summary", "period", reportPeriod(filter)},
		{"summary", "opening_balance", strconv.Itoa(m.OpeningBalance)},
		{"summary", "closing_balance", strconv.Itoa(m.ClosingBalance)},
		{"summary", "net_movement", strconv.Itoa(m.NetMovement)},
		{"breakdown", "purchases_delivered", strconv.Itoa(m.Breakdown.PurchaseQuantity)},
		{"breakdown", "transfers_in", strconv.Itoa(m.Breakdown.TransferInQty)},
		{"breakdown", "transfers_out", strconv.Itoa(m.Breakdown.TransferOutQty)},
		{"breakdown", "assigned", strconv.Itoa(m.Breakdown.AssignedQuantity)},
		{"breakdown", "expended", strconv.Itoa(m.Breakdown.ExpendedQuantity)},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}

	if err := w.Write([]string{"activity", "", ""}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"type", "equipment", "base", "quantity", "status", "date"}); err != nil {
		return nil, err
	}
	for _, item := range m.RecentActivity {
		row := []string{
			item.Type, item.EquipmentName, item.BaseName,
			strconv.Itoa(item.Quantity), item.Status, item.Date.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders the movement report as a printable A4 document.
func (s *ReportService) PDF(ctx context.Context, scope models.Scope, filter *models.DashboardFilter) ([]byte, error) {
	m, err := s.Dashboard.Metrics(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Asset Movement Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s    Generated: %s",
		reportPeriod(filter), m.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	summary := []struct {
		label string
		value int
	}{
		{"Opening balance", m.OpeningBalance},
		{"Closing balance", m.ClosingBalance},
		{"Net movement", m.NetMovement},
		{"Purchases delivered", m.Breakdown.PurchaseQuantity},
		{"Transfers in", m.Breakdown.TransferInQty},
		{"Transfers out", m.Breakdown.TransferOutQty},
		{"Assigned to personnel", m.Breakdown.AssignedQuantity},
		{"Expended", m.Breakdown.ExpendedQuantity},
	}
	for _, row := range summary {
		pdf.CellFormat(80, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, strconv.Itoa(row.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Recent Activity")
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 9)
	widths := []float64{25, 55, 40, 20, 25, 25}
	headers := []string{"Type", "Equipment", "Base", "Qty", "Status", "Date"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, item := range m.RecentActivity {
		cells := []string{
			item.Type, item.EquipmentName, item.BaseName,
			strconv.Itoa(item.Quantity), item.Status, item.Date.Format("2006-01-02"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
