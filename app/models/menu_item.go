package models

// MenuItem is one entry in the café's catalogue. Item names are unique;
// price is the live catalogue price and is snapshotted into order lines at
// placement time, never read back from here for historical orders.
type MenuItem struct {
	ItemID      uint    `json:"item_id" gorm:"primaryKey;column:item_id"`
	Name        string  `json:"item_name" gorm:"column:item_name;size:100;not null;uniqueIndex" validate:"required"`
	Description *string `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"not null" validate:"required"`
	Category    *string `json:"category" gorm:"size:50"`
	IsAvailable bool    `json:"is_available"`
}

func (MenuItem) TableName() string { return "menu_items" }
