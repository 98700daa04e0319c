package models

// InventoryItem is a stock line held in a warehouse location. It may be
// attached to at most one order.
type InventoryItem struct {
	ItemID   uint   `gorm:"column:item_id;primaryKey;autoIncrement" json:"itemId"`
	Name     string `gorm:"size:200;not null"                      json:"name"`
	Quantity int    `gorm:"not null;default:0"                     json:"quantity"`
	Location string `gorm:"size:200"                               json:"location"`
	OrderID  *uint  `gorm:"column:order_id;index"                  json:"orderId"`
}

func (InventoryItem) TableName() string { return "inventory_items" }
