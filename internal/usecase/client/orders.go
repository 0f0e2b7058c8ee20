package client

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"userhub-client/internal/domain/order"
	"userhub-client/internal/logger"
)

// SubmitOrder creates a new order, or updates the one being edited. An
// update echoes the order_number from the last fetched list; when the order
// is not in that list the field is left out.
func (s *Service) SubmitOrder(ctx context.Context, form OrderForm) error {
	if err := s.begin(FormOrder); err != nil {
		return err
	}
	defer s.end(FormOrder)

	req := form.ToRequest()

	s.mu.Lock()
	editingID := s.state.EditingOrderID
	if editingID != "" {
		if existing := s.findOrderLocked(editingID); existing != nil {
			req.OrderNumber = existing.OrderNumber
		}
	}
	s.mu.Unlock()

	var (
		err     error
		message string
	)
	if editingID != "" {
		_, err = s.orders.UpdateOrder(ctx, editingID, req)
		message = "Order updated successfully!"
	} else {
		req.OrderNumber = strconv.FormatInt(s.opts.Now().UnixMilli(), 10)
		_, err = s.orders.CreateOrder(ctx, req)
		message = "Order placed successfully!"
	}
	if err != nil {
		if editingID != "" {
			s.fail(err, "Failed to update order")
		} else {
			s.fail(err, "Failed to create order")
		}
		return err
	}

	s.mu.Lock()
	s.state.Editor = EditorFields{}
	s.state.EditingOrderID = ""
	s.notifyLocked(NotificationSuccess, message)
	s.mu.Unlock()

	logger.Info("Order saved",
		zap.String("order_id", editingID),
		zap.String("order_number", req.OrderNumber),
		zap.Bool("update", editingID != ""),
		zap.String("event", "order_saved"),
	)

	s.later(ctx, s.opts.OrderRedirectDelay, func(ctx context.Context) {
		s.ShowOrdersList(ctx)
	})
	return nil
}

// EditOrder opens the editor for an order from the last fetched list.
func (s *Service) EditOrder(orderID string) error {
	s.mu.Lock()
	existing := s.findOrderLocked(orderID)
	s.mu.Unlock()

	if existing == nil {
		return order.ErrOrderNotFound
	}
	s.ShowOrderEditor(existing)
	return nil
}

// DeleteOrder deletes an order once the user has confirmed, then refetches
// the list.
func (s *Service) DeleteOrder(ctx context.Context, orderID string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	if _, err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		s.fail(err, "Failed to delete order")
		return err
	}

	s.notify(NotificationSuccess, "Order deleted successfully")
	logger.Info("Order deleted",
		zap.String("order_id", orderID),
		zap.String("event", "order_deleted"),
	)

	s.reloadOrders(ctx)
	return nil
}

func (s *Service) CancelOrderEditor(ctx context.Context) {
	s.ShowOrdersList(ctx)
}

func (s *Service) BackToDashboard() error {
	return s.ShowDashboard()
}

// reloadOrders marks the list as loading and fetches it in the background.
func (s *Service) reloadOrders(ctx context.Context) {
	s.mu.Lock()
	s.state.ListStatus = ListLoading
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	s.scheduler.Go(func() {
		s.refreshOrders(bg)
	})
}

// refreshOrders replaces the in-memory list. A failed fetch keeps the
// previous list for lookups but renders as an error.
func (s *Service) refreshOrders(ctx context.Context) {
	orders, err := s.orders.ListOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state.ListStatus = ListFailed
		logger.Warn("Failed to load orders",
			zap.Error(err),
			zap.String("event", "orders_fetch_failed"),
		)
		return
	}
	s.state.Orders = orders
	s.state.ListStatus = ListLoaded
}

func (s *Service) findOrderLocked(orderID string) *order.Order {
	for _, o := range s.state.Orders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}
