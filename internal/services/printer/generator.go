package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/asseto/trackgo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRLabel encodes the RMA number as a PNG QR code for shipping labels.
// Scanning resolves to the public tracking lookup.
func QRLabel(rmaNumber string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	content := fmt.Sprintf("RMA/%s", rmaNumber)
	return qrcode.Encode(content, qrcode.Medium, size)
}

// GenerateRMAFormPDF renders the printable RMA form: header with number
// and QR code, reporter block, device block and the status history table.
func GenerateRMAFormPDF(r *models.RMA) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(130, 10, "Return Merchandise Authorization", "", 0, "L", false, 0, "")

	qrPng, err := QRLabel(r.RMANumber, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("rma_qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("rma_qr", 165, 12, 30, 30, false, imgOptions, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, r.RMANumber, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s    Type: %s    Priority: %s", r.Status, r.RMAType, r.Priority), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Submitted: %s", r.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Reporter block
	writeSection(pdf, "Reporter")
	writeField(pdf, "Name", r.ReportedBy)
	writeField(pdf, "Email", r.ReportedByEmail)
	writeField(pdf, "Phone", r.ReportedByPhone)
	pdf.Ln(3)

	// Device block
	writeSection(pdf, "Device")
	writeField(pdf, "Serial number", r.SerialNumber)
	writeField(pdf, "Invoice number", r.InvoiceNumber)
	writeField(pdf, "PO number", r.PONumber)
	if r.Device != nil {
		writeField(pdf, "Type", r.Device.Type)
		writeField(pdf, "SKU", r.Device.SKU)
	}
	pdf.Ln(3)

	// Issue block
	writeSection(pdf, "Issue")
	writeField(pdf, "Reason", r.Reason)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, r.IssueDescription, "", "L", false)
	pdf.Ln(3)

	if r.Vendor != nil || r.VendorRMANumber != "" {
		writeSection(pdf, "Vendor")
		if r.Vendor != nil {
			writeField(pdf, "Vendor", r.Vendor.Vendor)
		}
		writeField(pdf, "Vendor reference", r.VendorRMANumber)
		writeField(pdf, "Tracking number", r.ShippingTrackingNumber)
		if r.EstimatedReturnDate != nil {
			writeField(pdf, "Estimated return", r.EstimatedReturnDate.Format("2006-01-02"))
		}
		pdf.Ln(3)
	}

	// History table
	writeSection(pdf, "Status History")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(35, 6, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Updated By", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, "Notes", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, entry := range r.StatusHistory {
		pdf.CellFormat(35, 6, entry.Timestamp.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, string(entry.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, entry.UpdatedBy, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, entry.Notes, "1", 1, "L", false, 0, "")
	}

	// Footer
	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 5, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}
