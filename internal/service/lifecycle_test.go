package service_test

import (
	"errors"
	"testing"

	"github.com/savora/api/internal/enum"
	"github.com/savora/api/internal/service"
)

func TestValidateStaffTransition_ForwardPath(t *testing.T) {
	tests := []struct {
		name      string
		orderType string
		current   string
		next      string
		wantErr   error
	}{
		{"pending to preparing", enum.OrderTypeDineIn, "PENDING", "PREPARING", nil},
		{"preparing to ready", enum.OrderTypeTakeaway, "PREPARING", "READY", nil},
		{"ready to delivered dine-in", enum.OrderTypeDineIn, "READY", "DELIVERED", nil},
		{"ready to in_delivery for delivery order", enum.OrderTypeDelivery, "READY", "IN_DELIVERY", nil},
		{"in_delivery to delivered", enum.OrderTypeDelivery, "IN_DELIVERY", "DELIVERED", nil},
		{"staff may skip stages", enum.OrderTypeDineIn, "PENDING", "READY", nil},

		{"in_delivery rejected for dine-in", enum.OrderTypeDineIn, "READY", "IN_DELIVERY", service.ErrInDeliveryMismatch},
		{"in_delivery rejected for takeaway", enum.OrderTypeTakeaway, "PENDING", "IN_DELIVERY", service.ErrInDeliveryMismatch},

		{"backward transition rejected", enum.OrderTypeDineIn, "READY", "PREPARING", service.ErrNotForward},
		{"same status rejected", enum.OrderTypeDineIn, "PREPARING", "PREPARING", service.ErrNotForward},
		{"back to pending rejected", enum.OrderTypeDineIn, "READY", "PENDING", service.ErrNotForward},

		{"delivered is terminal", enum.OrderTypeDineIn, "DELIVERED", "PREPARING", service.ErrTerminalStatus},
		{"cancelled is terminal", enum.OrderTypeDineIn, "CANCELLED", "PENDING", service.ErrTerminalStatus},
		{"cannot cancel a delivered order", enum.OrderTypeDelivery, "DELIVERED", "CANCELLED", service.ErrTerminalStatus},

		{"unknown target status", enum.OrderTypeDineIn, "PENDING", "COOKING", service.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateStaffTransition(tt.orderType, tt.current, tt.next)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStaffTransition_CancelFromAnyNonTerminal(t *testing.T) {
	for _, current := range []string{"PENDING", "PREPARING", "READY", "IN_DELIVERY"} {
		if err := service.ValidateStaffTransition(enum.OrderTypeDelivery, current, "CANCELLED"); err != nil {
			t.Errorf("cancel from %s: unexpected error %v", current, err)
		}
	}
}

func TestCustomerCanModify(t *testing.T) {
	if !service.CustomerCanModify("PENDING") {
		t.Error("customer must be able to modify a PENDING order")
	}
	for _, status := range []string{"PREPARING", "READY", "IN_DELIVERY", "DELIVERED", "CANCELLED"} {
		if service.CustomerCanModify(status) {
			t.Errorf("customer must not modify a %s order", status)
		}
	}
}
