package model

import (
	"encoding/json"
	"fmt"
)

// OrderStatus is the position of an order in the delivery workflow.
// Any status may follow any other.
type OrderStatus string

const (
	StatusInTransit   OrderStatus = "in-transit"
	StatusInWarehouse OrderStatus = "in-warehouse"
	StatusDelivered   OrderStatus = "delivered"
)

// ValidStatuses lists the workflow states in display order.
var ValidStatuses = []OrderStatus{StatusInTransit, StatusInWarehouse, StatusDelivered}

// legacyStatuses maps the labels written by the browser client.
var legacyStatuses = map[string]OrderStatus{
	"в пути":    StatusInTransit,
	"на складе": StatusInWarehouse,
	"отдано":    StatusDelivered,
}

// ParseStatus converts s to an OrderStatus.
// Accepts the canonical values and the legacy labels.
func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range ValidStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	if st, ok := legacyStatuses[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("invalid order status %q: must be one of %v", s, ValidStatuses)
}

// Valid reports whether s is one of the workflow states.
func (s OrderStatus) Valid() bool {
	for _, st := range ValidStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Label returns a human-readable name.
func (s OrderStatus) Label() string {
	switch s {
	case StatusInTransit:
		return "In transit"
	case StatusInWarehouse:
		return "In warehouse"
	case StatusDelivered:
		return "Delivered"
	default:
		return string(s)
	}
}

// UnmarshalJSON accepts canonical values and legacy labels.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("order status: %w", err)
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
