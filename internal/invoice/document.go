package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/suhome/internal/models"

	"github.com/shopspring/decimal"
)

const fallbackLineDescription = "Order total"

// Seller 开票方信息
type Seller struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

// Customer 购买方快照
type Customer struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Line 发票行
type Line struct {
	ProductID   uint         `json:"product_id,omitempty"`
	Description string       `json:"description"`
	Quantity    int          `json:"quantity"`
	UnitPrice   models.Money `json:"unit_price"`
	Total       models.Money `json:"total"`
}

// Document 发票文档（仅由订单快照决定，不含渲染时刻信息）
type Document struct {
	Number          string         `json:"number"`
	OrderID         uint           `json:"order_id"`
	IssueDate       time.Time      `json:"issue_date"`
	Currency        string         `json:"currency"`
	Seller          Seller         `json:"seller"`
	Customer        Customer       `json:"customer"`
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	Lines           []Line         `json:"lines"`
	Total           models.Money   `json:"total"`
}

// Build 根据订单构建发票文档
// 订单项缺失时生成一行订单总额，保证总额与订单一致
func Build(order *models.Order, seller Seller) (*Document, error) {
	if order == nil {
		return nil, fmt.Errorf("order is nil")
	}
	doc := &Document{
		Number:    invoiceNumber(order),
		OrderID:   order.ID,
		IssueDate: order.CreatedAt.UTC(),
		Currency:  order.Currency,
		Seller:    seller,
		Customer: Customer{
			UserID: order.UserID,
			Name:   strings.TrimSpace(order.CustomerName),
			Email:  strings.TrimSpace(order.CustomerEmail),
		},
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Total:           order.TotalAmount,
	}
	if doc.BillingAddress.IsZero() {
		doc.BillingAddress = order.ShippingAddress
	}

	if len(order.Items) == 0 {
		doc.Lines = []Line{{
			Description: fallbackLineDescription,
			Quantity:    1,
			UnitPrice:   order.TotalAmount,
			Total:       order.TotalAmount,
		}}
		return doc, nil
	}

	doc.Lines = make([]Line, 0, len(order.Items))
	for _, item := range order.Items {
		description := strings.TrimSpace(item.ProductName)
		if description == "" {
			description = fmt.Sprintf("Product #%d", item.ProductID)
		}
		total := item.TotalPrice
		if total.IsZero() {
			total = item.UnitPrice.MulQuantity(item.Quantity)
		}
		doc.Lines = append(doc.Lines, Line{
			ProductID:   item.ProductID,
			Description: description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       total,
		})
	}
	return doc, nil
}

// LinesTotal 发票行合计
func (d *Document) LinesTotal() models.Money {
	sum := decimal.Zero
	if d == nil {
		return models.NewMoneyFromDecimal(sum)
	}
	for _, line := range d.Lines {
		sum = sum.Add(line.Total.Decimal)
	}
	return models.NewMoneyFromDecimal(sum)
}

// Filename 下载文件名
func (d *Document) Filename() string {
	if d == nil || d.Number == "" {
		return "invoice.pdf"
	}
	return "invoice-" + d.Number + ".pdf"
}

func invoiceNumber(order *models.Order) string {
	if no := strings.TrimSpace(order.OrderNo); no != "" {
		return no
	}
	return fmt.Sprintf("ORDER-%d", order.ID)
}
