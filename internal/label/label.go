// Package label renders pickup labels for orders as QR code PNGs.
//
// A label encodes the order ID and the customer's phone number, enough for
// the shop to find the order again when the customer collects it.
package label

import (
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"

	"github.com/roach88/stockroom/internal/model"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

const labelType = "order-pickup"

// Data is the JSON payload carried by a label.
type Data struct {
	OrderID     string `json:"order_id"`
	PhoneNumber string `json:"phone"`
	Type        string `json:"type"`
}

// Generator renders labels at a fixed size and recovery level.
type Generator struct {
	size  int
	level qrcode.RecoveryLevel
}

// New creates a Generator. recovery is one of L, M, Q, H; anything else
// falls back to M. A non-positive size uses DefaultSize.
func New(size int, recovery string) *Generator {
	var level qrcode.RecoveryLevel
	switch recovery {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, level: level}
}

// Order returns the PNG label for o.
func (g *Generator) Order(o model.Order) ([]byte, error) {
	payload, err := json.Marshal(Data{
		OrderID:     o.ID,
		PhoneNumber: o.PhoneNumber,
		Type:        labelType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal label data: %w", err)
	}

	code, err := qrcode.New(string(payload), g.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := code.PNG(g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// Parse decodes the text scanned from a label.
func Parse(text string) (Data, error) {
	var d Data
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return Data{}, fmt.Errorf("failed to unmarshal label data: %w", err)
	}
	if d.Type != labelType {
		return Data{}, fmt.Errorf("invalid label type: %q", d.Type)
	}
	if d.OrderID == "" {
		return Data{}, fmt.Errorf("label has no order id")
	}
	return d, nil
}
