package domain

import "github.com/syssam/persist/schema"

// Order is fetched together with its items.
type Order struct {
	schema.Entity `persist:"table=orders"`

	ID          *int64 `persist:"id"`
	OrderNumber *string
	OrderItems  []*OrderItem `persist:"onetomany,fetch=eager,joincolumn=order_id"`
}

// OrderItem is a line of an order. The order_id foreign key is owned by the
// Order association and is not a field of the item.
type OrderItem struct {
	schema.Entity `persist:"table=order_items"`

	ID       *int64 `persist:"id"`
	Product  *string
	Quantity *int
}

// NewOrder returns a transient order.
func NewOrder(number string) *Order {
	return &Order{OrderNumber: &number}
}

// NewOrderItem returns a transient order item.
func NewOrderItem(product string, quantity int) *OrderItem {
	return &OrderItem{Product: &product, Quantity: &quantity}
}
