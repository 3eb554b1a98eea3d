package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/WideDream/sto-mana/models"
)

func TestCreateRecordComputesDerivedAmounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.ledger.CreateRecord(ctx, RecordInput{
		CustomerName: "Jean",
		Product:      "Rice",
		Quantity:     "2",
		UnitPrice:    "2500",
		Paid:         "3000",
		DueDate:      "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if rec.Total != 5000 {
		t.Errorf("total = %v, want 5000", rec.Total)
	}
	if rec.Loan != 2000 {
		t.Errorf("loan = %v, want 2000", rec.Loan)
	}
	if rec.Date != "2024-06-01" {
		t.Errorf("date = %q, want today", rec.Date)
	}
	if rec.PaymentStatus != models.StatusPending {
		t.Errorf("status = %q, want pending", rec.PaymentStatus)
	}

	overdue, err := s.reports.OverdueRecords(ctx, testToday)
	if err != nil {
		t.Fatalf("OverdueRecords: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != rec.ID || overdue[0].FullName != "Jean" {
		t.Fatalf("overdue = %+v, want the Jean record", overdue)
	}
}

func TestCreateRecordDefaults(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.ledger.CreateRecord(context.Background(), RecordInput{
		CustomerName: "  Alice  ",
		Product:      "Sugar",
		Quantity:     "abc",
		UnitPrice:    "1,200",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if rec.Quantity != 0 || rec.Total != 0 || rec.Loan != 0 {
		t.Errorf("non-numeric quantity should coerce to 0, got %+v", rec)
	}
	if rec.UnitPrice != 1200 {
		t.Errorf("unit price = %v, want 1200", rec.UnitPrice)
	}
	if rec.DueDate != "2024-07-01" {
		t.Errorf("due date = %q, want 30 days after 2024-06-01", rec.DueDate)
	}

	customer, err := s.customers.GetCustomer(context.Background(), *rec.CustomerID)
	if err != nil {
		t.Fatalf("GetCustomer: %v", err)
	}
	if customer.FullName != "Alice" {
		t.Errorf("customer name = %q, want trimmed", customer.FullName)
	}
}

func TestCreateRecordValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		input RecordInput
		field string
	}{
		{"empty customer", RecordInput{CustomerName: "   ", Product: "Rice"}, "customer_name"},
		{"empty product", RecordInput{CustomerName: "Jean", Product: ""}, "product"},
		{"bad date", RecordInput{CustomerName: "Jean", Product: "Rice", Date: "yesterday"}, "date"},
		{"bad due date", RecordInput{CustomerName: "Jean", Product: "Rice", DueDate: "2024-13-40"}, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ledger.CreateRecord(context.Background(), tt.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want validation failure", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("field = %v, want %q", err, tt.field)
			}
		})
	}

	count, err := s.ledger.CountRecords(context.Background())
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected input stored %d records", count)
	}
	customers, _ := s.customers.Count(context.Background())
	if customers != 0 {
		t.Errorf("rejected input created %d customers", customers)
	}
}

func TestCreateRecordReusesCustomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice"})
	second := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Beans"})

	a, _ := s.ledger.GetRecord(ctx, first)
	b, _ := s.ledger.GetRecord(ctx, second)
	if *a.CustomerID != *b.CustomerID {
		t.Errorf("records for the same name got customers %d and %d", *a.CustomerID, *b.CustomerID)
	}
	if b.Customer == nil || b.Customer.FullName != "Jean" {
		t.Errorf("GetRecord did not load the customer: %+v", b.Customer)
	}
}

func TestUpdateRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "1", UnitPrice: "100", Date: "2024-05-10"})
	other := s.mustCreate(t, RecordInput{CustomerName: "Marie", Product: "Oil", Quantity: "3", UnitPrice: "50"})

	rec, err := s.ledger.UpdateRecord(ctx, id, RecordInput{
		CustomerName: "Someone Else",
		Product:      "Rice",
		Quantity:     "4",
		UnitPrice:    "100",
		Paid:         "150",
		Notes:        "bulk",
	})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if rec.Total != 400 || rec.Loan != 250 {
		t.Errorf("total/loan = %v/%v, want 400/250", rec.Total, rec.Loan)
	}
	if rec.Date != "2024-05-10" {
		t.Errorf("blank date overwrote stored date: %q", rec.Date)
	}

	stored, _ := s.ledger.GetRecord(ctx, id)
	if stored.Customer.FullName != "Jean" {
		t.Errorf("update changed the customer to %q", stored.Customer.FullName)
	}
	if stored.Notes != "bulk" {
		t.Errorf("notes = %q", stored.Notes)
	}

	untouched, _ := s.ledger.GetRecord(ctx, other)
	if untouched.Total != 150 || untouched.Quantity != 3 {
		t.Errorf("other record changed: %+v", untouched)
	}

	if _, err := s.ledger.UpdateRecord(ctx, 9999, RecordInput{Product: "Rice"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing record: err = %v, want not found", err)
	}
}

func TestRecordPayment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "2", UnitPrice: "2500", Paid: "3000"})

	rec, err := s.ledger.RecordPayment(ctx, id, "500")
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.Loan != 1500 || rec.PaymentStatus != models.StatusPartial {
		t.Errorf("after partial payment: loan=%v status=%q", rec.Loan, rec.PaymentStatus)
	}

	rec, err = s.ledger.RecordPayment(ctx, id, "1500")
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.Loan != 0 || rec.PaymentStatus != models.StatusPaid {
		t.Errorf("after full payment: loan=%v status=%q", rec.Loan, rec.PaymentStatus)
	}

	if _, err := s.ledger.RecordPayment(ctx, id, "zero"); !errors.Is(err, ErrValidation) {
		t.Errorf("non-numeric payment: err = %v", err)
	}
	if _, err := s.ledger.RecordPayment(ctx, 9999, "10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("payment on missing record: err = %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "2", UnitPrice: "10"})
	before, _ := s.ledger.AggregateTotals(ctx)

	if err := s.ledger.DeleteRecord(ctx, id); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if _, err := s.ledger.GetRecord(ctx, id); !IsNotFound(err) {
		t.Errorf("record still readable after delete: %v", err)
	}
	if err := s.ledger.DeleteRecord(ctx, id); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	after, _ := s.ledger.AggregateTotals(ctx)
	if before.TotalSales != 20 || after.TotalSales != 0 {
		t.Errorf("totals before/after = %v/%v", before.TotalSales, after.TotalSales)
	}
}

func TestAggregateTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	totals, err := s.ledger.AggregateTotals(ctx)
	if err != nil {
		t.Fatalf("AggregateTotals: %v", err)
	}
	if totals.TotalSales != 0 || totals.TotalLoans != 0 {
		t.Errorf("empty ledger totals = %+v", totals)
	}

	s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "2", UnitPrice: "2500", Paid: "3000"})
	s.mustCreate(t, RecordInput{CustomerName: "Marie", Product: "Oil", Quantity: "1", UnitPrice: "1000", Paid: "1000"})

	totals, err = s.ledger.AggregateTotals(ctx)
	if err != nil {
		t.Fatalf("AggregateTotals: %v", err)
	}
	if totals.TotalSales != 6000 || totals.TotalLoans != 2000 {
		t.Errorf("totals = %+v, want 6000/2000", totals)
	}
}

func TestListRecordsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jean := s.mustCreate(t, RecordInput{CustomerName: "Jean Claude", Product: "Rice 5kg", Date: "2024-03-01", PaymentStatus: "paid"})
	marie := s.mustCreate(t, RecordInput{CustomerName: "Marie", Product: "Brown rice", Date: "2024-04-15"})
	odd := s.mustCreate(t, RecordInput{CustomerName: "50% Off", Product: "Oil", Date: "2024-05-20"})

	tests := []struct {
		name   string
		filter RecordFilter
		want   []uint
	}{
		{"all newest first", RecordFilter{}, []uint{odd, marie, jean}},
		{"export order", RecordFilter{Order: OldestDateFirst}, []uint{jean, marie, odd}},
		{"customer substring", RecordFilter{Customer: "Claude"}, []uint{jean}},
		{"product substring", RecordFilter{Product: "ice"}, []uint{marie, jean}},
		{"exact status", RecordFilter{Status: "pending"}, []uint{odd, marie}},
		{"status is exact", RecordFilter{Status: "pend"}, nil},
		{"inclusive range", RecordFilter{From: "2024-04-15", To: "2024-05-20"}, []uint{odd, marie}},
		{"wildcards are literal", RecordFilter{Customer: "%"}, []uint{odd}},
		{"combined", RecordFilter{Product: "rice", To: "2024-03-31"}, []uint{jean}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.ledger.ListRecords(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListRecords: %v", err)
			}
			var got []uint
			for _, r := range rows {
				got = append(got, r.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if _, err := s.ledger.ListRecords(ctx, RecordFilter{From: "June"}); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid from date: err = %v", err)
	}
}

func TestAddPastLoan(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.ledger.AddPastLoan(context.Background(), "Jean", "7,500", "2024-01-05", "", "from notebook")
	if err != nil {
		t.Fatalf("AddPastLoan: %v", err)
	}
	if rec.Product != PastLoanProduct || rec.Total != 7500 || rec.Loan != 7500 || rec.Paid != 0 {
		t.Errorf("past loan = %+v", rec)
	}
	if rec.PaymentStatus != models.StatusPending {
		t.Errorf("status = %q", rec.PaymentStatus)
	}
}

func TestOverflowingAmountsAreRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RecordInput
		field string
	}{
		{"product overflows", RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "1e200", UnitPrice: "1e200"}, "total"},
		{"total above maximum", RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "1e10", UnitPrice: "1e10"}, "total"},
		{"paid above maximum", RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "1", UnitPrice: "1", Paid: "1e300"}, "paid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ledger.CreateRecord(ctx, tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("err = %v, want validation failure on %s", err, tt.field)
			}
		})
	}

	id := s.mustCreate(t, RecordInput{CustomerName: "Jean", Product: "Rice", Quantity: "2", UnitPrice: "2500"})
	if _, err := s.ledger.UpdateRecord(ctx, id, RecordInput{Product: "Rice", Quantity: "1e200", UnitPrice: "1e200"}); !errors.Is(err, ErrValidation) {
		t.Errorf("overflowing update: err = %v", err)
	}
	if _, err := s.ledger.RecordPayment(ctx, id, "1e300"); !errors.Is(err, ErrValidation) {
		t.Errorf("overflowing payment: err = %v", err)
	}

	rows, err := s.ledger.ListRecords(ctx, RecordFilter{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(rows) != 1 || rows[0].Total != 5000 || rows[0].Loan != 5000 {
		t.Fatalf("rows = %+v, want only the valid record unchanged", rows)
	}
	if _, err := json.Marshal(rows); err != nil {
		t.Errorf("rows do not encode: %v", err)
	}
	totals, _ := s.ledger.AggregateTotals(ctx)
	if totals.TotalSales != 5000 || totals.TotalLoans != 5000 {
		t.Errorf("totals = %+v", totals)
	}
	var buf bytes.Buffer
	if err := NewExportService(s.ledger).WriteCSV(ctx, &buf); err != nil {
		t.Errorf("WriteCSV: %v", err)
	}
}
