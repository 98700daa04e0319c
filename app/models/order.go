package models

import (
	"fmt"
	"time"
)

// Order groups inventory items placed by a customer.
type Order struct {
	OrderID      uint            `gorm:"column:order_id;primaryKey;autoIncrement"             json:"orderId"`
	CustomerName string          `gorm:"size:200;not null;index:ix_orders_customer_name"      json:"customerName"`
	DatePlaced   time.Time       `gorm:"not null"                                             json:"datePlaced"`
	Items        []InventoryItem `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:SET NULL" json:"items"`
}

func (Order) TableName() string { return "orders" }

// AddItem appends item, or adds its quantity to the item already in the
// order with the same persisted id. Unsaved items (id 0) always append.
func (o *Order) AddItem(item InventoryItem) {
	if item.ItemID != 0 {
		for i := range o.Items {
			if o.Items[i].ItemID == item.ItemID {
				o.Items[i].Quantity += item.Quantity
				return
			}
		}
	}
	o.Items = append(o.Items, item)
}

// RemoveItem drops the first item with id. It reports whether one was found.
func (o *Order) RemoveItem(id uint) bool {
	for i := range o.Items {
		if o.Items[i].ItemID == id {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Summary renders a one-line description used in log output.
func (o *Order) Summary() string {
	return fmt.Sprintf("Order #%d for %s | Items: %d | Placed: %s",
		o.OrderID, o.CustomerName, len(o.Items), o.DatePlaced.Format("01/02/2006"))
}

// OrderSummary is the list projection of an order.
type OrderSummary struct {
	OrderID      uint      `json:"orderId"`
	CustomerName string    `json:"customerName"`
	DatePlaced   time.Time `json:"datePlaced"`
	ItemCount    int       `json:"itemCount"`
}

// Summarize projects o for list responses.
func (o *Order) Summarize() OrderSummary {
	return OrderSummary{
		OrderID:      o.OrderID,
		CustomerName: o.CustomerName,
		DatePlaced:   o.DatePlaced,
		ItemCount:    len(o.Items),
	}
}
