package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/i18n"
	"github.com/suhome/internal/invoice"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"
)

// InvoiceService 发票渲染与发送
type InvoiceService struct {
	orderRepo    repository.OrderRepository
	authorizer   Authorizer
	mailer       Mailer
	seller       invoice.Seller
	queryTimeout time.Duration
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(orderRepo repository.OrderRepository, authorizer Authorizer, mailer Mailer, seller invoice.Seller, queryTimeout time.Duration) *InvoiceService {
	return &InvoiceService{
		orderRepo:    orderRepo,
		authorizer:   authorizer,
		mailer:       mailer,
		seller:       seller,
		queryTimeout: queryTimeout,
	}
}

// Render 生成发票文档（本人或 order:read_all）
func (s *InvoiceService) Render(ctx context.Context, actor Actor, orderID uint) (*invoice.Document, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	order, err := loadAccessibleOrder(ctx, s.orderRepo, s.authorizer, actor, orderID, authz.OpOrderReadAll)
	if err != nil {
		return nil, err
	}
	return invoice.Build(order, s.seller)
}

// RenderPDF 生成发票 PDF
func (s *InvoiceService) RenderPDF(ctx context.Context, actor Actor, orderID uint) ([]byte, *invoice.Document, error) {
	doc, err := s.Render(ctx, actor, orderID)
	if err != nil {
		return nil, nil, err
	}
	content, err := invoice.RenderPDF(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return content, doc, nil
}

// EmailTo 将发票发送到指定邮箱（为空时发送到下单邮箱）
// 返回 sent 或 skipped；发送失败返回 ErrMailUnavailable，订单不受影响
func (s *InvoiceService) EmailTo(ctx context.Context, actor Actor, orderID uint, address, locale string) (string, error) {
	if err := authorize(s.authorizer, actor, authz.OpInvoiceSend); err != nil {
		return "", err
	}
	queryCtx, cancel := withTimeout(ctx, s.queryTimeout)
	order, err := loadAccessibleOrder(queryCtx, s.orderRepo, s.authorizer, actor, orderID, authz.OpOrderReadAll)
	cancel()
	if err != nil {
		return "", err
	}
	return s.emailOrder(ctx, order, address, locale)
}

// SendForOrder 系统发送（异步任务使用，不做权限判定）
func (s *InvoiceService) SendForOrder(ctx context.Context, orderID uint, address, locale string) (string, error) {
	queryCtx, cancel := withTimeout(ctx, s.queryTimeout)
	order, err := s.orderRepo.WithContext(queryCtx).GetByID(orderID)
	cancel()
	if err != nil {
		return "", persistenceError(err)
	}
	if order == nil {
		return "", ErrOrderNotFound
	}
	return s.emailOrder(ctx, order, address, locale)
}

func (s *InvoiceService) emailOrder(ctx context.Context, order *models.Order, address, locale string) (string, error) {
	to := strings.TrimSpace(address)
	if to == "" {
		to = strings.TrimSpace(order.CustomerEmail)
	}
	if to == "" {
		return "", ErrInvalidEmail
	}
	if s.mailer == nil {
		return constants.InvoiceEmailSkipped, nil
	}

	doc, err := invoice.Build(order, s.seller)
	if err != nil {
		return "", err
	}
	content, err := invoice.RenderPDF(doc)
	if err != nil {
		return "", fmt.Errorf("render invoice pdf: %w", err)
	}

	err = s.mailer.Send(ctx, MailMessage{
		To:      to,
		Subject: i18n.Sprintf(locale, "invoice.email_subject", doc.Number),
		Text:    i18n.Sprintf(locale, "invoice.email_body", customerGreetingName(doc.Customer.Name), doc.Number),
		Attachments: []MailAttachment{{
			Filename:    doc.Filename(),
			ContentType: "application/pdf",
			Content:     content,
		}},
	})
	switch {
	case err == nil:
		logger.Infow("invoice_email_sent", "order_id", order.ID)
		return constants.InvoiceEmailSent, nil
	case isMailSkipped(err):
		logger.Infow("invoice_email_skipped", "order_id", order.ID, "reason", err.Error())
		return constants.InvoiceEmailSkipped, nil
	case errors.Is(err, ErrInvalidEmail):
		return "", err
	default:
		logger.Warnw("invoice_email_failed", "order_id", order.ID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrMailUnavailable, err)
	}
}
