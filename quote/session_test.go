package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"pdc/model"
	"pdc/money"
)

func newTwoSupplierSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession("test")
	s.AddSupplier("sup-a", "Alfa Ltda")
	s.AddSupplier("sup-b", "Beta SA")
	return s
}

func set(t *testing.T, s *Session, pid int, supID string, f Field, text string) {
	t.Helper()
	if err := s.SetCell(pid, supID, f, text); err != nil {
		t.Fatalf("SetCell(%d, %q, %s, %q): %v", pid, supID, f, text, err)
	}
}

func TestGrandTotalDerivation(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	p2 := s.AddProduct("Dipirona 500mg", 10)

	set(t, s, p1, "", FieldQuantity, "3")
	set(t, s, p1, "sup-a", FieldUnitPrice, "10,50")
	set(t, s, p2, "sup-a", FieldUnitPrice, "2,00")
	set(t, s, 0, "sup-a", FieldFreight, "15,00")
	set(t, s, 0, "sup-a", FieldDiscount, "5,00")

	// 3*10.50 + 10*2.00 + 15.00 - 5.00 = 61.50
	got := s.Suppliers()[0].GrandTotal
	if got != money.FromCents(6150) {
		t.Errorf("grand total = %s, want 61,50", got)
	}
	// supplier B untouched
	if s.Suppliers()[1].GrandTotal != 0 {
		t.Errorf("supplier B grand total = %s, want 0", s.Suppliers()[1].GrandTotal)
	}
}

func TestDiscountAlwaysSubtracts(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	set(t, s, p1, "", FieldQuantity, "1")
	set(t, s, p1, "sup-a", FieldUnitPrice, "100,00")

	// a pasted negative discount still reduces the total
	set(t, s, 0, "sup-a", FieldDiscount, "-10,00")
	if got := s.Suppliers()[0].GrandTotal; got != money.FromCents(9000) {
		t.Errorf("grand total = %s, want 90,00", got)
	}
}

func TestGrandTotalNeverDrifts(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	set(t, s, p1, "", FieldQuantity, "2")

	rng := rand.New(rand.NewSource(7))
	var last string
	for i := 0; i < 1000; i++ {
		cents := rng.Int63n(1_000_000)
		last = fmt.Sprintf("%d,%02d", cents/100, cents%100)
		set(t, s, p1, "sup-a", FieldUnitPrice, last)
	}
	want := money.Parse(last).MulQty(money.FromUnits(2))
	if got := s.Suppliers()[0].GrandTotal; got != want {
		t.Errorf("after 1000 edits grand total = %s, want %s", got, want)
	}
}

func TestExclusiveApproval(t *testing.T) {
	s := newTwoSupplierSession(t)
	if err := s.SetApproved("sup-a"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetApproved("sup-b"); err != nil {
		t.Fatal(err)
	}
	if s.Suppliers()[0].Approved {
		t.Error("supplier A still approved after B was approved")
	}
	if !s.Suppliers()[1].Approved {
		t.Error("supplier B not approved")
	}
	if err := s.SetApproved("nobody"); !errors.Is(err, ErrUnknownSupplier) {
		t.Errorf("SetApproved(unknown) = %v, want ErrUnknownSupplier", err)
	}
	if got := s.Approved(); got == nil || got.ID != "sup-b" {
		t.Errorf("approval changed by failed SetApproved: %+v", got)
	}
}

func TestRemoveApprovedSupplierClearsApproval(t *testing.T) {
	s := newTwoSupplierSession(t)
	if err := s.SetApproved("sup-a"); err != nil {
		t.Fatal(err)
	}
	s.RemoveSupplier("sup-a")
	if s.Approved() != nil {
		t.Error("approval survived removal of the approved supplier")
	}
	if _, ok := s.InstallmentDifference(); ok {
		t.Error("difference still applicable with no approved supplier")
	}
}

func TestRemoveSupplierReindexes(t *testing.T) {
	s := newTwoSupplierSession(t)
	s.AddSupplier("sup-c", "Gama ME")
	p1 := s.Products()[0].ID
	set(t, s, p1, "", FieldQuantity, "1")
	set(t, s, p1, "sup-c", FieldUnitPrice, "7,77")

	s.RemoveSupplier("sup-b")
	if got := s.SupplierIndex("sup-c"); got != 1 {
		t.Errorf("sup-c index after removal = %d, want 1", got)
	}
	if got := s.Suppliers()[1].GrandTotal; got != money.FromCents(777) {
		t.Errorf("sup-c grand total after removal = %s, want 7,77", got)
	}
	if _, ok := s.Products()[0].Cells["sup-b"]; ok {
		t.Error("removed supplier's cells still on product row")
	}
}

func TestLastRowsProtected(t *testing.T) {
	s := NewSession("test")
	if err := s.RemoveProduct(s.Products()[0].ID); !errors.Is(err, ErrLastProduct) {
		t.Errorf("RemoveProduct(last) = %v, want ErrLastProduct", err)
	}
	if err := s.RemoveInstallment(1); !errors.Is(err, ErrLastInstallment) {
		t.Errorf("RemoveInstallment(last) = %v, want ErrLastInstallment", err)
	}
	if err := s.RemoveClassification(0); !errors.Is(err, ErrLastClassification) {
		t.Errorf("RemoveClassification(last) = %v, want ErrLastClassification", err)
	}
}

func TestRemoveProductRecomputes(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	p2 := s.AddProduct("Soro", 5)
	set(t, s, p1, "", FieldQuantity, "1")
	set(t, s, p1, "sup-a", FieldUnitPrice, "10,00")
	set(t, s, p2, "sup-a", FieldUnitPrice, "4,00")

	if err := s.RemoveProduct(p2); err != nil {
		t.Fatal(err)
	}
	if got := s.Suppliers()[0].GrandTotal; got != money.FromCents(1000) {
		t.Errorf("grand total after row removal = %s, want 10,00", got)
	}
}

func TestInstallmentRenumbering(t *testing.T) {
	s := NewSession("test")
	s.AddInstallment("10/09/2026", money.FromCents(5000), "")
	s.AddInstallment("10/10/2026", money.FromCents(5000), "")

	if err := s.RemoveInstallment(2); err != nil {
		t.Fatal(err)
	}
	got := s.Installments()
	if len(got) != 2 || got[0].Number != 1 || got[1].Number != 2 {
		t.Errorf("numbers after removal = %d,%d, want 1,2", got[0].Number, got[1].Number)
	}
	if got[1].DueDate != "10/10/2026" {
		t.Errorf("wrong installment removed, kept due date %q", got[1].DueDate)
	}
}

func TestReconciliationDifferences(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	set(t, s, p1, "", FieldQuantity, "1")
	set(t, s, p1, "sup-a", FieldUnitPrice, "300,00")
	if err := s.SetApproved("sup-a"); err != nil {
		t.Fatal(err)
	}

	if err := s.SetInstallment(1, "10/09/2026", "100,00"); err != nil {
		t.Fatal(err)
	}
	s.AddInstallment("10/10/2026", money.FromCents(20000), "")

	diff, ok := s.InstallmentDifference()
	if !ok || diff != 0 {
		t.Errorf("installment difference = %s, %v; want 0, true", diff, ok)
	}

	if err := s.SetClassification(0, "Despesas", "Farmácia", "Compra", "250,00"); err != nil {
		t.Fatal(err)
	}
	diff, ok = s.ClassificationDifference()
	if !ok || diff != money.FromCents(5000) {
		t.Errorf("classification difference = %s, %v; want 50,00, true", diff, ok)
	}
}

func TestPasteGrowsAndSkipsTotals(t *testing.T) {
	s := newTwoSupplierSession(t)
	anchor := s.Products()[0].ID

	// description, quantity, unit, priceA, (totalA skipped), priceB
	block := "Dipirona\t10\tCX\t1,50\tlixo\t2,00\n" +
		"Soro\t5\tUN\t3,00\tlixo\t4,00\n"
	if err := s.PasteBlock(anchor, 0, block); err != nil {
		t.Fatal(err)
	}

	rows := s.Products()
	if len(rows) != 2 {
		t.Fatalf("rows after paste = %d, want 2", len(rows))
	}
	if rows[1].Description != "Soro" || rows[1].Quantity.Units() != 5 {
		t.Errorf("grown row = %q qty %d", rows[1].Description, rows[1].Quantity.Units())
	}
	// totals came from prices, never from the pasted "lixo" column
	if got := rows[0].Cells["sup-a"].Total; got != money.FromCents(1500) {
		t.Errorf("row 1 sup-a total = %s, want 15,00", got)
	}
	if got := s.Suppliers()[1].GrandTotal; got != money.FromCents(4000) {
		t.Errorf("sup-b grand total = %s, want 40,00", got)
	}
}

func TestPasteUnknownAnchor(t *testing.T) {
	s := NewSession("test")
	if err := s.PasteBlock(99, 0, "x"); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("PasteBlock(unknown anchor) = %v, want ErrUnknownProduct", err)
	}
}

func TestProductIDsNeverReused(t *testing.T) {
	s := NewSession("test")
	p2 := s.AddProduct("a", 1)
	if err := s.RemoveProduct(p2); err != nil {
		t.Fatal(err)
	}
	p3 := s.AddProduct("b", 1)
	if p3 == p2 {
		t.Errorf("product id %d reused after removal", p3)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTwoSupplierSession(t)
	p1 := s.Products()[0].ID
	set(t, s, p1, "", FieldQuantity, "2")
	set(t, s, p1, "sup-a", FieldUnitPrice, "9,99")
	set(t, s, 0, "sup-b", FieldFreight, "3,00")
	if err := s.SetApproved("sup-a"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSupplierDetail("sup-a", "28 dias", "entrega quinta"); err != nil {
		t.Fatal(err)
	}
	s.TempNumber = "TMP-0001"
	s.Status = "Aguardando aprovação"

	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatal(err)
	}

	restored := NewSession("test")
	restored.Restore(snap)

	if restored.TempNumber != "TMP-0001" || restored.Status != "Aguardando aprovação" {
		t.Errorf("identity fields lost: %q %q", restored.TempNumber, restored.Status)
	}
	if got := restored.Approved(); got == nil || got.ID != "sup-a" || got.PaymentTerms != "28 dias" {
		t.Errorf("approved supplier after restore = %+v", got)
	}
	if got := restored.Suppliers()[0].GrandTotal; got != money.FromCents(1998) {
		t.Errorf("restored grand total = %s, want 19,98", got)
	}
	if got := restored.AddProduct("novo", 1); got <= 1 {
		t.Errorf("next product id after restore = %d, want > 1", got)
	}
}

func TestFromLines(t *testing.T) {
	lines := []model.QuotationLine{
		{RecordID: "r1", ProductID: 1, SupplierID: "sup-a", Product: "Dipirona", Quantity: money.FromUnits(10), Unit: "CX", Supplier: "Alfa", UnitPrice: money.FromCents(150), Freight: money.FromCents(500), Approved: true, TempPDCNumber: "TMP-9", PDCNumber: "1234", Version: 3, Active: true},
		{RecordID: "r2", ProductID: 1, SupplierID: "sup-b", Product: "Dipirona", Quantity: money.FromUnits(10), Unit: "CX", Supplier: "Beta", UnitPrice: money.FromCents(200), Version: 3, Active: true},
		{RecordID: "r3", ProductID: 2, SupplierID: "sup-a", Product: "Soro", Quantity: money.FromUnits(4), Unit: "UN", Supplier: "Alfa", UnitPrice: money.FromCents(300), Freight: money.FromCents(500), Active: true},
		{RecordID: "old", ProductID: 9, SupplierID: "sup-a", Product: "Inativo", Active: false},
	}
	s := FromLines("loaded", lines)

	if len(s.Products()) != 2 || len(s.Suppliers()) != 2 {
		t.Fatalf("loaded %d products, %d suppliers", len(s.Products()), len(s.Suppliers()))
	}
	if s.TempNumber != "TMP-9" || s.Number != "1234" {
		t.Errorf("numbers = %q %q", s.TempNumber, s.Number)
	}
	if s.Version != 3 {
		t.Errorf("version = %d, want 3", s.Version)
	}
	if got := s.Approved(); got == nil || got.ID != "sup-a" {
		t.Errorf("approved = %+v, want sup-a", got)
	}
	// 10*1.50 + 4*3.00 + 5.00 freight = 32.00
	if got := s.Suppliers()[0].GrandTotal; got != money.FromCents(3200) {
		t.Errorf("recomputed grand total = %s, want 32,00", got)
	}
	if len(s.QuotationRecordIDs) != 3 {
		t.Errorf("kept %d record ids, want 3 active", len(s.QuotationRecordIDs))
	}
	if got := s.AddProduct("x", 1); got != 3 {
		t.Errorf("next product id = %d, want 3", got)
	}
}
