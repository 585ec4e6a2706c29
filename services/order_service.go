package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tableside/models"
)

// OrderService owns every order mutation. All writes run inside a single
// transaction; the status graph in models.OrderStatus is the sole authority
// on which transitions are legal.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// OrderItemInput is one requested dish line at creation time.
type OrderItemInput struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// CreateOrders inserts one Pending order per item for the given guest,
// freezing a dish snapshot for each. The snapshot is written once and never
// re-read from the live catalog.
func (s *OrderService) CreateOrders(guestID uint, items []OrderItemInput) ([]models.Order, error) {
	var created []models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return err
		}

		for _, item := range items {
			if item.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			var dish models.Dish
			if err := tx.First(&dish, item.DishID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrDishNotFound
				}
				return err
			}

			snapshot := models.DishSnapshot{
				DishID: &dish.ID,
				Name:   dish.Name,
				Price:  dish.Price,
				Image:  dish.Image,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}

			order := models.Order{
				GuestID:        &guest.ID,
				TableNumber:    guest.TableNumber,
				DishSnapshotID: snapshot.ID,
				DishSnapshot:   snapshot,
				Quantity:       item.Quantity,
				Status:         models.OrderStatusPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			order.Guest = &guest
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus applies one transition and records the handling staff member.
// Illegal edges fail with *InvalidTransitionError and leave the row untouched.
func (s *OrderService) UpdateStatus(orderID uint, newStatus models.OrderStatus, handlerID uint) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, &InvalidTransitionError{To: newStatus}
	}

	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("DishSnapshot").Preload("Guest").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransition(newStatus) {
			return &InvalidTransitionError{From: order.Status, To: newStatus}
		}

		order.Status = newStatus
		order.OrderHandlerID = &handlerID
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":           newStatus,
				"order_handler_id": handlerID,
				"updated_at":       time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Reject is the sole terminal-rejection operation: it marks the row Rejected
// and never deletes it.
func (s *OrderService) Reject(orderID uint, handlerID uint) (*models.Order, error) {
	return s.UpdateStatus(orderID, models.OrderStatusRejected, handlerID)
}

// PayGuestOrders settles every non-terminal order of one guest in a single
// transaction. It returns only the rows it actually transitioned; orders
// already Paid (or Rejected) are excluded, so a second call returns an empty
// set. nonTerminal is Pending|Processing|Delivered.
func (s *OrderService) PayGuestOrders(guestID uint, handlerID uint) ([]models.Order, error) {
	nonTerminal := []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusDelivered,
	}

	var paid []models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, guestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return err
		}

		var pending []models.Order
		if err := tx.Where("guest_id = ? AND status IN ?", guestID, nonTerminal).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(pending))
		for _, o := range pending {
			ids = append(ids, o.ID)
		}

		if err := tx.Model(&models.Order{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":           models.OrderStatusPaid,
				"order_handler_id": handlerID,
				"updated_at":       time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Preload("DishSnapshot").Preload("Guest").
			Where("id IN ?", ids).Find(&paid).Error
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// GetOrder loads one order with its snapshot and guest.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("DishSnapshot").Preload("Guest").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders in the optional creation-time window.
func (s *OrderService) ListOrders(fromDate, toDate *time.Time) ([]models.Order, error) {
	query := s.DB.Preload("DishSnapshot").Preload("Guest").Order("created_at desc")
	if fromDate != nil {
		query = query.Where("created_at >= ?", *fromDate)
	}
	if toDate != nil {
		query = query.Where("created_at <= ?", *toDate)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GuestOrders returns every order belonging to one guest session.
func (s *OrderService) GuestOrders(guestID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Preload("DishSnapshot").
		Where("guest_id = ?", guestID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
