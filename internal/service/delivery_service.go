package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/events"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/queue"
	"github.com/suhome/internal/repository"

	"gorm.io/gorm"
)

// 交付状态严格线性推进
var nextDeliveryStatus = map[string]string{
	constants.OrderStatusProcessing: constants.OrderStatusInTransit,
	constants.OrderStatusInTransit:  constants.OrderStatusDelivered,
}

// DeliveryService 交付状态服务
type DeliveryService struct {
	orderRepo    repository.OrderRepository
	deliveryRepo repository.DeliveryRepository
	authorizer   Authorizer
	notifier     notifier
	queryTimeout time.Duration
}

// NewDeliveryService 创建交付状态服务
func NewDeliveryService(orderRepo repository.OrderRepository, deliveryRepo repository.DeliveryRepository, authorizer Authorizer, publisher events.Publisher, taskQueue TaskQueue, queryTimeout time.Duration) *DeliveryService {
	return &DeliveryService{
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
		authorizer:   authorizer,
		notifier:     notifier{publisher: publisher, queue: taskQueue},
		queryTimeout: queryTimeout,
	}
}

// NextStatus 返回下一状态，已送达返回 false
func NextStatus(current string) (string, bool) {
	next, ok := nextDeliveryStatus[current]
	return next, ok
}

// Advance 推进一步：processing -> in_transit -> delivered，已送达时为空操作
func (s *DeliveryService) Advance(ctx context.Context, orderID uint, actor Actor) (*models.Order, error) {
	if err := authorize(s.authorizer, actor, authz.OpDeliveryAdvance); err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	orderRepo := s.orderRepo.WithContext(ctx)
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	next, ok := NextStatus(order.Status)
	if !ok {
		return order, nil
	}

	now := time.Now()
	err = orderRepo.Transaction(func(tx *gorm.DB) error {
		orderUpdates := map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}
		deliveryUpdates := map[string]interface{}{
			"status":     next,
			"updated_by": actor.UserID,
			"updated_at": now,
		}
		switch next {
		case constants.OrderStatusInTransit:
			deliveryUpdates["shipped_at"] = now
		case constants.OrderStatusDelivered:
			orderUpdates["delivered_at"] = now
			deliveryUpdates["delivered_at"] = now
		}

		affected, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, order.Status, orderUpdates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderStatusConflict
		}
		deliveryRepo := s.deliveryRepo.WithTx(tx)
		affected, err = deliveryRepo.UpdateByOrderID(order.ID, deliveryUpdates)
		if err != nil {
			return err
		}
		if affected == 0 {
			// 缺失的交付记录按当前状态补建
			updatedBy := actor.UserID
			delivery := &models.Delivery{OrderID: order.ID, Status: next, UpdatedBy: &updatedBy}
			if next == constants.OrderStatusInTransit {
				delivery.ShippedAt = &now
			} else {
				delivery.DeliveredAt = &now
			}
			return deliveryRepo.Create(delivery)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderStatusConflict) {
			return nil, err
		}
		return nil, persistenceError(err)
	}

	updated, err := orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}
	logger.Infow("delivery_advanced",
		"order_id", order.ID,
		"from", order.Status,
		"to", next,
		"operator_id", actor.UserID,
	)
	s.notifier.publish(events.Event{
		Type:    constants.EventDeliveryAdvanced,
		OrderID: updated.ID,
		UserID:  updated.UserID,
		Payload: map[string]interface{}{
			"from":        order.Status,
			"to":          next,
			"operator_id": actor.UserID,
		},
		OccurredAt: now,
	})
	s.notifier.enqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: updated.ID,
		Status:  next,
	})
	return updated, nil
}

// UpdateCarrier 更新承运商与运单号
func (s *DeliveryService) UpdateCarrier(ctx context.Context, orderID uint, actor Actor, carrier, trackingNo string) (*models.Order, error) {
	if err := authorize(s.authorizer, actor, authz.OpDeliveryUpdate); err != nil {
		return nil, err
	}
	carrier = strings.TrimSpace(carrier)
	trackingNo = strings.TrimSpace(trackingNo)
	if carrier == "" && trackingNo == "" {
		return nil, ErrInvalidDelivery
	}
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	orderRepo := s.orderRepo.WithContext(ctx)
	order, err := orderRepo.GetByID(orderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	updates := map[string]interface{}{
		"updated_by": actor.UserID,
		"updated_at": time.Now(),
	}
	if carrier != "" {
		updates["carrier"] = carrier
	}
	if trackingNo != "" {
		updates["tracking_no"] = trackingNo
	}
	deliveryRepo := s.deliveryRepo.WithContext(ctx)
	affected, err := deliveryRepo.UpdateByOrderID(orderID, updates)
	if err != nil {
		return nil, persistenceError(err)
	}
	if affected == 0 {
		updatedBy := actor.UserID
		if err := deliveryRepo.Create(&models.Delivery{
			OrderID:    orderID,
			Status:     order.Status,
			Carrier:    carrier,
			TrackingNo: trackingNo,
			UpdatedBy:  &updatedBy,
		}); err != nil {
			return nil, persistenceError(err)
		}
	}
	updated, err := orderRepo.GetByID(orderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}
	logger.Infow("delivery_carrier_updated", "order_id", orderID, "operator_id", actor.UserID)
	return updated, nil
}
