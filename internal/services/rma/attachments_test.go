package rma

import (
	"errors"
	"testing"
	"time"

	"github.com/asseto/trackgo/internal/models"
)

func TestAddAttachmentSingleSlotReplace(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	var b models.AttachmentBundle

	if err := addAttachment(&b, CategoryInvoice, FileMeta{Filename: "inv-1.pdf", Path: "uploads/a.pdf"}, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := addAttachment(&b, CategoryInvoice, FileMeta{Filename: "inv-2.pdf", Path: "uploads/b.pdf"}, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if b.Invoice == nil {
		t.Fatal("Invoice slot should be populated")
	}
	if b.Invoice.Filename != "inv-2.pdf" {
		t.Errorf("Invoice slot should hold the latest upload, got %q", b.Invoice.Filename)
	}
}

func TestAddAttachmentPhotoAppendOrder(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	var b models.AttachmentBundle

	for _, name := range []string{"front.jpg", "back.jpg", "side.jpg"} {
		if err := addAttachment(&b, CategoryPhoto, FileMeta{Filename: name, Path: "uploads/" + name}, now); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if len(b.Photos) != 3 {
		t.Fatalf("Expected 3 photos, got %d", len(b.Photos))
	}
	for i, want := range []string{"front.jpg", "back.jpg", "side.jpg"} {
		if b.Photos[i].Filename != want {
			t.Errorf("Photo %d: expected %q, got %q", i, want, b.Photos[i].Filename)
		}
	}
}

func TestAddAttachmentUnknownCategory(t *testing.T) {
	var b models.AttachmentBundle
	err := addAttachment(&b, AttachmentCategory("receipt"), FileMeta{Filename: "x.pdf"}, time.Now())
	if err == nil {
		t.Fatal("Expected an error for an unknown category")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected a validation error, got %T", err)
	}
}

func TestDistributeFilesGenericFallback(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	b := distributeFiles(BulkFiles{
		Generic: []FileMeta{
			{Filename: "doc-1.pdf", Path: "uploads/1.pdf"},
			{Filename: "doc-2.jpg", Path: "uploads/2.jpg"},
			{Filename: "doc-3.jpg", Path: "uploads/3.jpg"},
		},
	}, now)

	if b.Invoice == nil || b.Invoice.Filename != "doc-1.pdf" {
		t.Error("First generic file should land in the invoice slot")
	}
	if len(b.Photos) != 2 {
		t.Fatalf("Remaining generic files should become photos, got %d", len(b.Photos))
	}
	if b.Photos[0].Filename != "doc-2.jpg" || b.Photos[1].Filename != "doc-3.jpg" {
		t.Error("Photo order should follow upload order")
	}
}

func TestDistributeFilesExplicitSlots(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	b := distributeFiles(BulkFiles{
		Invoice:       []FileMeta{{Filename: "invoice.pdf"}},
		PurchaseOrder: []FileMeta{{Filename: "po.pdf"}},
		Photos:        []FileMeta{{Filename: "p1.jpg"}},
		AdditionalDocs: []FileMeta{
			{Filename: "diag.txt", Description: "diagnostic log"},
		},
	}, now)

	if b.Invoice == nil || b.Invoice.Filename != "invoice.pdf" {
		t.Error("Invoice slot not populated")
	}
	if b.PurchaseOrder == nil || b.PurchaseOrder.Filename != "po.pdf" {
		t.Error("Purchase order slot not populated")
	}
	if len(b.Photos) != 1 || len(b.AdditionalDocs) != 1 {
		t.Fatalf("Expected 1 photo and 1 additional doc, got %d/%d", len(b.Photos), len(b.AdditionalDocs))
	}
	if b.AdditionalDocs[0].Description != "diagnostic log" {
		t.Errorf("Description should be preserved, got %q", b.AdditionalDocs[0].Description)
	}
}

func TestDistributeFilesExplicitPhotosIgnoreGeneric(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	b := distributeFiles(BulkFiles{
		Invoice: []FileMeta{{Filename: "invoice.pdf"}},
		Photos:  []FileMeta{{Filename: "p1.jpg"}},
		Generic: []FileMeta{{Filename: "g1.pdf"}, {Filename: "g2.jpg"}},
	}, now)

	if b.Invoice.Filename != "invoice.pdf" {
		t.Error("Explicit invoice should win over the generic fallback")
	}
	if len(b.Photos) != 1 || b.Photos[0].Filename != "p1.jpg" {
		t.Error("Explicit photos should win over the generic fallback")
	}
}

func TestResolveAttachment(t *testing.T) {
	b := models.AttachmentBundle{
		Invoice: &models.Upload{Filename: "invoice.pdf", Path: "uploads/inv.pdf"},
		Photos: []models.Upload{
			{Filename: "p1.jpg", Path: "uploads/p1.jpg"},
			{Filename: "p2.jpg", Path: "uploads/p2.jpg"},
		},
	}

	u, err := resolveAttachment(b, CategoryInvoice, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Filename != "invoice.pdf" {
		t.Errorf("Expected invoice.pdf, got %q", u.Filename)
	}

	u, err = resolveAttachment(b, CategoryPhoto, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if u.Filename != "p2.jpg" {
		t.Errorf("Expected p2.jpg, got %q", u.Filename)
	}

	if _, err = resolveAttachment(b, CategoryPhoto, 5); err == nil {
		t.Error("Out-of-range photo index should fail")
	}
	var nferr *NotFoundError
	_, err = resolveAttachment(b, CategoryPurchaseOrder, 0)
	if !errors.As(err, &nferr) {
		t.Errorf("Empty purchase order slot should report not found, got %v", err)
	}
}
