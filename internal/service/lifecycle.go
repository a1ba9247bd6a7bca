package service

import (
	"errors"
	"fmt"

	"github.com/savora/api/internal/enum"
)

// Errors returned by transition validation.
var (
	ErrInvalidStatus      = errors.New("invalid status")
	ErrTerminalStatus     = errors.New("order is in a terminal status")
	ErrNotForward         = errors.New("status can only move forward")
	ErrInDeliveryMismatch = errors.New("IN_DELIVERY is only valid for delivery orders")
)

// statusRank orders the forward path PENDING → PREPARING → READY →
// IN_DELIVERY → DELIVERED. CANCELLED sits outside the path and is handled
// separately.
var statusRank = map[string]int{
	enum.OrderStatusPending:    0,
	enum.OrderStatusPreparing:  1,
	enum.OrderStatusReady:      2,
	enum.OrderStatusInDelivery: 3,
	enum.OrderStatusDelivered:  4,
}

func IsValidOrderStatus(s string) bool {
	if s == enum.OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(s string) bool {
	return s == enum.OrderStatusDelivered || s == enum.OrderStatusCancelled
}

// CustomerCanModify reports whether a customer may still cancel or amend the
// order. Customers lose all write access the moment staff pick the order up.
func CustomerCanModify(status string) bool {
	return status == enum.OrderStatusPending
}

// ValidateStaffTransition checks a staff-initiated status change. Staff may
// take any forward transition, skipping stages, or cancel a non-terminal
// order. IN_DELIVERY is rejected outright for non-delivery order types, and
// delivery orders are expected to pass through it rather than around it —
// but a direct READY → DELIVERED is still forward and therefore allowed for
// every type.
func ValidateStaffTransition(orderType, current, next string) error {
	if !IsValidOrderStatus(next) {
		return ErrInvalidStatus
	}
	if IsTerminalStatus(current) {
		return fmt.Errorf("%w: %s", ErrTerminalStatus, current)
	}
	if next == enum.OrderStatusCancelled {
		return nil
	}
	if next == enum.OrderStatusInDelivery && orderType != enum.OrderTypeDelivery {
		return ErrInDeliveryMismatch
	}

	currentRank, ok := statusRank[current]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, current)
	}
	if statusRank[next] <= currentRank {
		return fmt.Errorf("%w: %s to %s", ErrNotForward, current, next)
	}
	return nil
}
