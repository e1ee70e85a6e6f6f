package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"tracker-backend/internal/models"
)

func TestMovementReportCSV(t *testing.T) {
	dashboard, _ := newDashboardFixture(10)
	svc := NewReportService(dashboard)
	ctx := context.Background()

	scope := models.Scope{UserID: 1, Role: models.RoleAdmin}
	data, err := svc.CSV(ctx, scope, &models.DashboardFilter{})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) < 10 {
		t.Fatalf("expected summary, breakdown and activity rows, got %d rows", len(records))
	}
	if records[0][0] != "section" {
		t.Errorf("unexpected header row: %v", records[0])
	}

	found := false
	for _, rec := range records {
		if len(rec) >= 3 && rec[1] == "closing_balance" && rec[2] == "150" {
			found = true
		}
	}
	if !found {
		t.Error("closing balance row missing from CSV")
	}
}

func TestMovementReportPDF(t *testing.T) {
	dashboard, _ := newDashboardFixture(10)
	svc := NewReportService(dashboard)
	ctx := context.Background()

	scope := models.Scope{UserID: 1, Role: models.RoleAdmin}
	data, err := svc.PDF(ctx, scope, &models.DashboardFilter{})
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not look like a PDF")
	}
}

func TestMovementReportRespectsScope(t *testing.T) {
	dashboard, _ := newDashboardFixture(10)
	svc := NewReportService(dashboard)
	ctx := context.Background()

	scope := models.Scope{UserID: 2, Role: models.RoleLogisticsOfficer}
	if _, err := svc.CSV(ctx, scope, &models.DashboardFilter{}); err == nil {
		t.Error("expected scope error for officer without base")
	}
}
