package infra

// pdf.go: price-sheet rendering with go-pdf/fpdf.
// One A4 page (or more) per profile:
//   - profile name, id, basis and save time
//   - one row per item: product, SKU, adjustment, frozen price

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"foboh/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// PriceSheetLine is one printed row.
type PriceSheetLine struct {
	ProductID  string
	Title      string
	SKU        string
	Adjustment string
	Price      decimal.Decimal
}

// PriceSheet is the render input, detached from the persistence model.
type PriceSheet struct {
	ProfileID   string
	ProfileName string
	Basis       string
	CreatedAt   time.Time
	Lines       []PriceSheetLine
}

// NewPriceSheet joins a profile's items with catalog data. Items whose
// product has left the catalog are still printed, titled by id.
func NewPriceSheet(p model.PricingProfile, products []model.Product) PriceSheet {
	byID := make(map[string]model.Product, len(products))
	for _, prod := range products {
		byID[prod.ID] = prod
	}

	basis := "Global wholesale price"
	if p.BasedOnProfileID != nil {
		basis = "Profile " + p.BasedOnProfileID.String()
	}

	sheet := PriceSheet{
		ProfileID:   p.ID.String(),
		ProfileName: p.Name,
		Basis:       basis,
		CreatedAt:   p.CreatedAt,
		Lines:       make([]PriceSheetLine, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		line := PriceSheetLine{
			ProductID:  it.ProductID,
			Title:      it.ProductID,
			Adjustment: describeAdjustment(it.Spec()),
			Price:      it.Adjustment,
		}
		if prod, ok := byID[it.ProductID]; ok {
			line.Title = prod.Title
			line.SKU = prod.SKUCode
		}
		sheet.Lines = append(sheet.Lines, line)
	}
	sort.SliceStable(sheet.Lines, func(i, j int) bool { return sheet.Lines[i].Title < sheet.Lines[j].Title })
	return sheet
}

func describeAdjustment(s model.AdjustmentSpec) string {
	sign := "+"
	if s.IncrementType == model.IncrementDecrease {
		sign = "-"
	}
	if s.AdjustmentType == model.AdjustmentDynamic {
		return sign + s.AdjustmentValue.String() + "%"
	}
	return sign + "$" + s.AdjustmentValue.StringFixed(2)
}

// PriceSheetFileName is the archive/attachment name for a profile's sheet.
func PriceSheetFileName(profileID string) string {
	return fmt.Sprintf("price-sheet_%s.pdf", profileID)
}

// RenderPriceSheet returns the PDF bytes of sheet.
func RenderPriceSheet(sheet PriceSheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Price sheet: "+sheet.ProfileName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(sheet.ProfileName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Profile "+sheet.ProfileID, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Based on: "+sheet.Basis), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Saved "+sheet.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Table ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product
	col2 := contentW * 0.18 // sku
	col3 := contentW * 0.16 // adjustment
	col4 := contentW * 0.20 // price

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(col1, 7, "Product", "B", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "SKU", "B", 0, "L", true, 0, "")
	pdf.CellFormat(col3, 7, "Adjustment", "B", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Price", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(sheet.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 7, "No products in this profile.", "", 1, "C", false, 0, "")
	}
	for _, l := range sheet.Lines {
		title := l.Title
		if len([]rune(title)) > 48 {
			title = string([]rune(title)[:47]) + "..."
		}
		pdf.CellFormat(col1, 6, tr(title), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, tr(l.SKU), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, l.Adjustment, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+l.Price.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d products", len(sheet.Lines)), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render price sheet: %w", err)
	}
	return buf.Bytes(), nil
}
