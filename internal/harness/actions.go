package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/stockroom/internal/model"
)

// actionFunc runs one store operation. The returned map becomes the
// completion result.
type actionFunc func(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error)

var actions = map[string]actionFunc{
	"addProduct":            addProduct,
	"updateProduct":         updateProduct,
	"deleteProduct":         deleteProduct,
	"updateProductQuantity": updateProductQuantity,
	"addOrder":              addOrder,
	"updateOrder":           updateOrder,
	"deleteOrder":           deleteOrder,
	"updateOrderStatus":     updateOrderStatus,
	"deleteCustomer":        deleteCustomer,
	"deleteCustomerOrder":   deleteCustomerOrder,
	"toggleDarkMode":        toggleDarkMode,
	"setViewMode":           setViewMode,
	"toggleConverter":       toggleConverter,
	"restart":               restart,
}

// Actions returns the names of all supported actions.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	return names
}

func addProduct(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var f model.ProductFields
	if err := decodeArgs(args, &f); err != nil {
		return nil, err
	}
	if err := h.validator.Product(f); err != nil {
		return nil, err
	}
	p, err := h.store.AddProduct(ctx, f)
	if err != nil {
		return nil, err
	}
	return toMap(p)
}

func updateProduct(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var p model.Product
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := h.validator.Product(p.Fields()); err != nil {
		return nil, err
	}
	return nil, h.store.UpdateProduct(ctx, p)
}

func deleteProduct(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, h.store.DeleteProduct(ctx, a.ID)
}

func updateProductQuantity(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		ID       string `json:"id"`
		Quantity int64  `json:"quantity"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := h.validator.Quantity(a.Quantity); err != nil {
		return nil, err
	}
	return nil, h.store.UpdateProductQuantity(ctx, a.ID, a.Quantity)
}

func addOrder(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var f model.OrderFields
	if err := decodeArgs(args, &f); err != nil {
		return nil, err
	}
	if err := h.validator.Order(f); err != nil {
		return nil, err
	}
	o, err := h.store.AddOrder(ctx, f)
	if err != nil {
		return nil, err
	}
	return toMap(o)
}

func updateOrder(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var o model.Order
	if err := decodeArgs(args, &o); err != nil {
		return nil, err
	}
	if err := h.validator.Order(o.Fields()); err != nil {
		return nil, err
	}
	return nil, h.store.UpdateOrder(ctx, o)
}

func deleteOrder(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, h.store.DeleteOrder(ctx, a.ID)
}

func updateOrderStatus(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		ID     string            `json:"id"`
		Status model.OrderStatus `json:"status"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !a.Status.Valid() {
		return nil, fmt.Errorf("status is required")
	}
	return nil, h.store.UpdateOrderStatus(ctx, a.ID, a.Status)
}

func deleteCustomer(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, h.store.DeleteCustomer(ctx, a.PhoneNumber)
}

func deleteCustomerOrder(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		PhoneNumber string `json:"phoneNumber"`
		OrderID     string `json:"orderId"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, h.store.DeleteCustomerOrder(ctx, a.PhoneNumber, a.OrderID)
}

func toggleDarkMode(ctx context.Context, h *Harness, _ map[string]any) (map[string]any, error) {
	on, err := h.store.ToggleDarkMode(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"darkMode": on}, nil
}

func setViewMode(ctx context.Context, h *Harness, args map[string]any) (map[string]any, error) {
	var a struct {
		Section string `json:"section"`
		Mode    string `json:"mode"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	section, err := model.ParseSection(a.Section)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseDisplayMode(a.Mode)
	if err != nil {
		return nil, err
	}
	return nil, h.store.SetViewMode(ctx, section, mode)
}

func toggleConverter(ctx context.Context, h *Harness, _ map[string]any) (map[string]any, error) {
	shown, err := h.store.ToggleConverter(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"showConverter": shown}, nil
}

func restart(ctx context.Context, h *Harness, _ map[string]any) (map[string]any, error) {
	return nil, h.open(ctx)
}

// decodeArgs converts YAML args into dst through JSON, rejecting unknown
// fields.
func decodeArgs(args map[string]any, dst any) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

// toMap converts v into its JSON object form.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
