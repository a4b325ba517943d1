package invoice

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/suhome/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            7,
		OrderNo:       "SU20260101ABC",
		UserID:        3,
		Currency:      "TRY",
		TotalAmount:   models.NewMoneyFromInt(4397),
		CustomerName:  "Ayse Yilmaz",
		CustomerEmail: "ayse@example.com",
		ShippingAddress: models.Address{
			Name:    "Ayse Yilmaz",
			Line1:   "Orta Mah. 12",
			City:    "Istanbul",
			Country: "TR",
		},
		CreatedAt: time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Oak Chair", UnitPrice: models.NewMoneyFromInt(799), Quantity: 1, TotalPrice: models.NewMoneyFromInt(799)},
			{ProductID: 2, ProductName: "Linen Sofa", UnitPrice: models.NewMoneyFromInt(1799), Quantity: 2, TotalPrice: models.NewMoneyFromInt(3598)},
		},
	}
}

func TestBuildUsesOrderSnapshot(t *testing.T) {
	doc, err := Build(sampleOrder(), Seller{Name: "SUHome"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if doc.Number != "SU20260101ABC" {
		t.Fatalf("unexpected number: %s", doc.Number)
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.LinesTotal().String() != "4397.00" || doc.Total.String() != "4397.00" {
		t.Fatalf("unexpected totals: lines=%s total=%s", doc.LinesTotal(), doc.Total)
	}
	if !doc.IssueDate.Equal(sampleOrder().CreatedAt) {
		t.Fatalf("issue date should equal order creation time")
	}
	if doc.BillingAddress.City != "Istanbul" {
		t.Fatalf("billing address should fall back to shipping")
	}
}

func TestBuildFallbackLine(t *testing.T) {
	order := sampleOrder()
	order.Items = nil
	doc, err := Build(order, Seller{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("expected fallback line, got %d lines", len(doc.Lines))
	}
	line := doc.Lines[0]
	if line.Description != "Order total" || line.Quantity != 1 || line.Total.String() != "4397.00" {
		t.Fatalf("unexpected fallback line: %+v", line)
	}
}

func TestBuildNilOrder(t *testing.T) {
	if _, err := Build(nil, Seller{}); err == nil {
		t.Fatalf("expected error for nil order")
	}
}

func TestRenderPDFDeterministic(t *testing.T) {
	first, err := Build(sampleOrder(), Seller{Name: "SUHome", TaxID: "1234567890"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	second, err := Build(sampleOrder(), Seller{Name: "SUHome", TaxID: "1234567890"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	a, err := RenderPDF(first)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	b, err := RenderPDF(second)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(a, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("rendering the same order twice should produce identical bytes")
	}
}

func TestRenderPDFManyLinesPaginates(t *testing.T) {
	order := sampleOrder()
	order.Items = nil
	for i := 0; i < 80; i++ {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   uint(i + 1),
			ProductName: "Item",
			UnitPrice:   models.NewMoneyFromInt(10),
			Quantity:    1,
			TotalPrice:  models.NewMoneyFromInt(10),
		})
	}
	doc, err := Build(order, Seller{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := RenderPDF(doc); err != nil {
		t.Fatalf("render failed: %v", err)
	}
}

func TestFilename(t *testing.T) {
	doc := &Document{Number: "SU1"}
	if doc.Filename() != "invoice-SU1.pdf" {
		t.Fatalf("unexpected filename: %s", doc.Filename())
	}
	var empty *Document
	if empty.Filename() != "invoice.pdf" {
		t.Fatalf("nil document filename mismatch")
	}
}

func utf16BE(value string) []byte {
	units := utf16.Encode([]rune(value))
	out := make([]byte, 2*len(units))
	for i, unit := range units {
		binary.BigEndian.PutUint16(out[2*i:], unit)
	}
	return out
}

func TestRenderPDFKeepsTurkishText(t *testing.T) {
	order := sampleOrder()
	order.CustomerName = "Şule Yılmaz"
	order.ShippingAddress.Name = "Çağrı Öztürk"
	order.ShippingAddress.City = "İstanbul"
	order.Items[0].ProductName = "Meşe Sandalye"
	doc, err := Build(order, Seller{Name: "SUHome Mobilya"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := writePDF(&buf, doc, false); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.Bytes()
	for _, text := range []string{"Şule Yılmaz", "Çağrı Öztürk", "İstanbul", "Meşe Sandalye"} {
		if !bytes.Contains(out, utf16BE(text)) {
			t.Fatalf("pdf content should carry %q as unicode text", text)
		}
	}
	if bytes.Contains(out, []byte(".ule Y.lmaz")) {
		t.Fatalf("turkish letters were replaced")
	}
}
