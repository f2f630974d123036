package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/PabloUrbano2000/little-lemon-api/services")

// Order event types written to the outbox.
const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

// EventRecorder appends an event inside the caller's transaction.
type EventRecorder interface {
	Record(tx *gorm.DB, aggregateType, aggregateID, eventType string, payload any) error
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	UserRepo *repository.UserRepository

	// Events is optional; nil disables the outbox.
	Events EventRecorder
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	userRepo *repository.UserRepository,
	events EventRecorder,
) *OrderService {
	return &OrderService{DB: db, Repo: repo, CartRepo: cartRepo, UserRepo: userRepo, Events: events}
}

// ----- Checkout -----

// Checkout turns the caller's cart into an order in one transaction: the
// order, its items, the total and the cart deletion commit together or not
// at all.
func (s *OrderService) Checkout(ctx context.Context, c Caller) (*entity.Order, error) {
	if err := Decide(c, ActionCreate, nil, nil); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "OrderService.Checkout")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(c.ID)))

	var orderID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.CartRepo.LinesForCheckout(tx, c.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Price)
		}
		if total.GreaterThan(maxAmount) {
			return fmt.Errorf("%w: order total %s exceeds %s", ErrInvalidInput, total, maxAmount)
		}

		order := entity.Order{
			UserID: c.ID,
			Total:  decimal.Zero,
			Date:   time.Now().UTC(),
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			oi := entity.OrderItem{
				OrderID:    order.ID,
				MenuItemID: l.MenuItemID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Price:      l.Price,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
			ids = append(ids, l.ID)
		}
		if err := s.Repo.UpdateTotal(tx, order.ID, total); err != nil {
			return err
		}

		n, err := s.CartRepo.DeleteLines(tx, c.ID, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			// another checkout consumed the lines first
			return fmt.Errorf("%w: cart changed during checkout", ErrConflict)
		}

		order.Total = total
		if err := s.record(tx, order.ID, EventOrderCreated, orderEvent{
			OrderID: order.ID, UserID: c.ID, Total: total, Items: len(lines),
		}); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	return s.Repo.GetOrder(s.DB.WithContext(ctx), orderID)
}

// ----- Retrieve -----

func (s *OrderService) Get(ctx context.Context, c Caller, orderID uint) (*entity.Order, error) {
	if err := Decide(c, ActionRetrieve, nil, nil); err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrder(s.DB.WithContext(ctx), orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := Decide(c, ActionRetrieve, nil, targetOf(o)); err != nil {
		return nil, err
	}
	return o, nil
}

// ----- Update -----

// Update applies a partial update given as raw JSON members. PUT and PATCH
// both land here.
func (s *OrderService) Update(ctx context.Context, c Caller, orderID uint, body map[string]json.RawMessage) (*entity.Order, error) {
	fields := make([]string, 0, len(body))
	for k := range body {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	if err := Decide(c, ActionUpdate, fields, nil); err != nil {
		return nil, err
	}
	changes, err := decodeOrderChanges(body)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "OrderService.Update")
	defer span.End()

	db := s.DB.WithContext(ctx)
	o, err := s.Repo.GetOrder(db, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := Decide(c, ActionUpdate, fields, targetOf(o)); err != nil {
		return nil, err
	}

	if crew, ok := changes[columnDeliveryCrew]; ok && crew != nil {
		member, err := s.UserRepo.IsMember(db, crew.(uint), entity.GroupDeliveryCrew)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, fmt.Errorf("%w: delivery_crew must be a member of %q", ErrInvalidInput, entity.GroupDeliveryCrew)
		}
	}
	if len(changes) == 0 {
		return o, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var assignedTo *uint
		if !c.IsManager {
			assignedTo = &c.ID
		}
		n, err := s.Repo.UpdateFields(tx, orderID, changes, assignedTo)
		if err != nil {
			return err
		}
		if n == 0 && assignedTo != nil {
			// mysql reports zero rows when the values are unchanged
			still, err := s.Repo.IsAssigned(tx, orderID, c.ID)
			if err != nil {
				return err
			}
			if !still {
				return ErrForbidden
			}
		}
		return s.record(tx, orderID, EventOrderUpdated, orderUpdatedEvent{OrderID: orderID, Fields: fields, By: c.ID})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return s.Repo.GetOrder(db, orderID)
}

const (
	columnStatus       = "status"
	columnDeliveryCrew = "delivery_crew_id"
)

// decodeOrderChanges turns the request members into column updates. Only
// status and delivery_crew are writable; null delivery_crew unassigns.
func decodeOrderChanges(body map[string]json.RawMessage) (map[string]any, error) {
	changes := make(map[string]any, len(body))
	for k, raw := range body {
		switch k {
		case FieldStatus:
			var v bool
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("%w: status must be a boolean", ErrInvalidInput)
			}
			changes[columnStatus] = v
		case FieldDeliveryCrew:
			var v *uint
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("%w: delivery_crew must be a user id or null", ErrInvalidInput)
			}
			if v == nil {
				changes[columnDeliveryCrew] = nil
			} else {
				changes[columnDeliveryCrew] = *v
			}
		default:
			return nil, fmt.Errorf("%w: field %q is read-only or unknown", ErrInvalidInput, k)
		}
	}
	return changes, nil
}

// ----- Delete -----

func (s *OrderService) Delete(ctx context.Context, c Caller, orderID uint) error {
	if err := Decide(c, ActionDelete, nil, nil); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.DeleteOrder(tx, orderID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return s.record(tx, orderID, EventOrderDeleted, orderDeletedEvent{OrderID: orderID, By: c.ID})
	})
}

// ----- helpers -----

func targetOf(o *entity.Order) *Target {
	return &Target{OwnerID: o.UserID, DeliveryCrewID: o.DeliveryCrewID}
}

type orderEvent struct {
	OrderID uint            `json:"order_id"`
	UserID  uint            `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items"`
}

type orderUpdatedEvent struct {
	OrderID uint     `json:"order_id"`
	Fields  []string `json:"fields"`
	By      uint     `json:"by"`
}

type orderDeletedEvent struct {
	OrderID uint `json:"order_id"`
	By      uint `json:"by"`
}

func (s *OrderService) record(tx *gorm.DB, orderID uint, eventType string, payload any) error {
	if s.Events == nil {
		return nil
	}
	return s.Events.Record(tx, "order", strconv.FormatUint(uint64(orderID), 10), eventType, payload)
}
