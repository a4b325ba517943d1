package invoice

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/suhome/internal/models"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontFamily   = "GoSans"
	pageMarginMM = 15.0
	lineHeightMM = 7.0
)

var columnWidths = []float64{95, 20, 32, 33}

// WritePDF 将发票渲染为 PDF
// 文档时间固定为开票日期，相同订单输出字节一致
func WritePDF(w io.Writer, doc *Document) error {
	return writePDF(w, doc, true)
}

func writePDF(w io.Writer, doc *Document, compress bool) error {
	if doc == nil {
		return fmt.Errorf("invoice document is nil")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.AliasNbPages("")
	// 内嵌 UTF-8 字体，核心字体仅支持 cp1252，无法显示 ş ğ ı İ 等字符
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load invoice font failed: %w", err)
	}
	pdf.SetCreationDate(doc.IssueDate)
	pdf.SetModificationDate(doc.IssueDate)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetTitle("Invoice "+doc.Number, true)
	pdf.SetAuthor(doc.Seller.Name, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writeHeader(pdf, doc)
	writeParties(pdf, doc)
	writeLines(pdf, doc)
	writeTotals(pdf, doc)

	return pdf.Output(w)
}

// RenderPDF 渲染为字节
func RenderPDF(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, doc *Document) {
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, orDefault(doc.Seller.Name, "SUHome"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	if doc.Seller.Address != "" {
		pdf.CellFormat(0, 5, doc.Seller.Address, "", 1, "L", false, 0, "")
	}
	if doc.Seller.TaxID != "" {
		pdf.CellFormat(0, 5, "Tax ID: "+doc.Seller.TaxID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 6, "Invoice No: "+doc.Number, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Issue Date: "+doc.IssueDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func writeParties(pdf *fpdf.Fpdf, doc *Document) {
	half := (210 - 2*pageMarginMM) / 2
	top := pdf.GetY()

	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(half, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	for _, line := range addressLines(doc.Customer.Name, doc.BillingAddress) {
		pdf.CellFormat(half, 5, line, "", 1, "L", false, 0, "")
	}
	if doc.Customer.Email != "" {
		pdf.CellFormat(half, 5, doc.Customer.Email, "", 1, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	pdf.SetXY(pageMarginMM+half, top)
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(half, 6, "Ship To", "", 2, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	for _, line := range addressLines(doc.ShippingAddress.Name, doc.ShippingAddress) {
		pdf.CellFormat(half, 5, line, "", 2, "L", false, 0, "")
	}
	if pdf.GetY() < leftBottom {
		pdf.SetY(leftBottom)
	}
	pdf.SetX(pageMarginMM)
	pdf.Ln(6)
}

func writeLines(pdf *fpdf.Fpdf, doc *Document) {
	header := func() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(235, 235, 235)
		for i, title := range []string{"Item", "Qty", "Unit Price", "Amount"} {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(columnWidths[i], lineHeightMM, title, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, line := range doc.Lines {
		// 手动换页以便在新页重复表头
		if pdf.GetY()+lineHeightMM > pageHeight-bottom-20 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(columnWidths[0], lineHeightMM, truncate(line.Description, 60), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], lineHeightMM, strconv.Itoa(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[2], lineHeightMM, formatMoney(doc.Currency, line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], lineHeightMM, formatMoney(doc.Currency, line.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func writeTotals(pdf *fpdf.Fpdf, doc *Document) {
	labelWidth := columnWidths[0] + columnWidths[1] + columnWidths[2]
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(labelWidth, lineHeightMM, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[3], lineHeightMM, formatMoney(doc.Currency, doc.Total), "1", 1, "R", false, 0, "")
}

func addressLines(name string, address models.Address) []string {
	lines := make([]string, 0, 5)
	for _, value := range []string{
		name,
		address.Line1,
		address.Line2,
		strings.TrimSpace(address.PostalCode + " " + address.City),
		address.Country,
		address.Phone,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func formatMoney(currency string, amount models.Money) string {
	if currency == "" {
		return amount.String()
	}
	return amount.String() + " " + currency
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
