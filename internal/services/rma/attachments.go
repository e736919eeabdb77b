package rma

import (
	"time"

	"github.com/asseto/trackgo/internal/models"
)

// AttachmentCategory selects one of the four slots of the bundle
type AttachmentCategory string

const (
	CategoryInvoice       AttachmentCategory = "invoice"
	CategoryPurchaseOrder AttachmentCategory = "purchaseOrder"
	CategoryPhoto         AttachmentCategory = "photo"
	CategoryAdditional    AttachmentCategory = "additional"
)

// FileMeta describes an already-stored uploaded file. The storage
// collaborator produced the path; this package never reads file bytes.
type FileMeta struct {
	Filename    string
	Path        string
	Description string
}

// addAttachment places one file into the bundle: single slots are
// replaced, list slots are appended in insertion order.
func addAttachment(b *models.AttachmentBundle, category AttachmentCategory, file FileMeta, now time.Time) error {
	upload := models.Upload{Filename: file.Filename, Path: file.Path, UploadedAt: now}

	switch category {
	case CategoryInvoice:
		b.Invoice = &upload
	case CategoryPurchaseOrder:
		b.PurchaseOrder = &upload
	case CategoryPhoto:
		b.Photos = append(b.Photos, upload)
	case CategoryAdditional:
		b.AdditionalDocs = append(b.AdditionalDocs, models.AdditionalDoc{
			Filename:    file.Filename,
			Path:        file.Path,
			Description: file.Description,
			UploadedAt:  now,
		})
	default:
		return newValidationError("attachmentType", "invalid attachment type")
	}
	return nil
}

// BulkFiles carries the categorized files of a bulk submission. Generic
// holds files posted under a single undifferentiated field.
type BulkFiles struct {
	Invoice        []FileMeta
	PurchaseOrder  []FileMeta
	Photos         []FileMeta
	AdditionalDocs []FileMeta
	Generic        []FileMeta
}

// distributeFiles assigns bulk-submitted files to the bundle slots. When
// only the generic field was used, the first file becomes the invoice and
// the remainder become photos (compatibility with single-field clients).
func distributeFiles(files BulkFiles, now time.Time) models.AttachmentBundle {
	var b models.AttachmentBundle

	if len(files.Invoice) > 0 {
		addAttachment(&b, CategoryInvoice, files.Invoice[0], now)
	} else if len(files.Generic) > 0 {
		addAttachment(&b, CategoryInvoice, files.Generic[0], now)
	}

	if len(files.PurchaseOrder) > 0 {
		addAttachment(&b, CategoryPurchaseOrder, files.PurchaseOrder[0], now)
	}

	if len(files.Photos) > 0 {
		for _, f := range files.Photos {
			addAttachment(&b, CategoryPhoto, f, now)
		}
	} else if len(files.Generic) > 1 {
		for _, f := range files.Generic[1:] {
			addAttachment(&b, CategoryPhoto, f, now)
		}
	}

	for _, f := range files.AdditionalDocs {
		addAttachment(&b, CategoryAdditional, f, now)
	}

	return b
}

// DistributeFiles is the boundary-facing wrapper around distributeFiles
func DistributeFiles(files BulkFiles) models.AttachmentBundle {
	return distributeFiles(files, time.Now().UTC())
}

// resolveAttachment finds the stored file for a download request. Index
// selects within the list slots and is ignored for single slots.
func resolveAttachment(b models.AttachmentBundle, category AttachmentCategory, index int) (models.Upload, error) {
	switch category {
	case CategoryInvoice:
		if b.Invoice != nil {
			return *b.Invoice, nil
		}
	case CategoryPurchaseOrder:
		if b.PurchaseOrder != nil {
			return *b.PurchaseOrder, nil
		}
	case CategoryPhoto:
		if index >= 0 && index < len(b.Photos) {
			return b.Photos[index], nil
		}
	case CategoryAdditional:
		if index >= 0 && index < len(b.AdditionalDocs) {
			d := b.AdditionalDocs[index]
			return models.Upload{Filename: d.Filename, Path: d.Path, UploadedAt: d.UploadedAt}, nil
		}
	default:
		return models.Upload{}, newValidationError("fileType", "invalid attachment type")
	}
	return models.Upload{}, &NotFoundError{Resource: "File"}
}
