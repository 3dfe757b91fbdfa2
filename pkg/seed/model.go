package seed

// Customer is a demo shopper.
type Customer struct {
	ID        int    `gorm:"column:id;primaryKey"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"column:email;not null"`
	Phone     string `gorm:"column:phone"`
}

func (Customer) TableName() string {
	return "customers"
}

// Product is a demo catalog entry.
type Product struct {
	ID            int     `gorm:"column:id;primaryKey"`
	Name          string  `gorm:"column:name;not null"`
	Description   string  `gorm:"column:description"`
	Price         float64 `gorm:"column:price;not null"`
	StockQuantity int     `gorm:"column:stock_quantity;not null"`
}

func (Product) TableName() string {
	return "products"
}

// Order references its customer. Until Apply runs, CustomerID holds a
// 1-based position within the dataset, not a database key.
type Order struct {
	ID         int    `gorm:"column:id;primaryKey"`
	CustomerID int    `gorm:"column:customer_id;not null"`
	Status     string `gorm:"column:status;not null"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. OrderID and ProductID follow the same
// positional convention as Order.CustomerID.
type OrderItem struct {
	ID        int     `gorm:"column:id;primaryKey"`
	OrderID   int     `gorm:"column:order_id;not null"`
	ProductID int     `gorm:"column:product_id;not null"`
	Quantity  int     `gorm:"column:quantity;not null"`
	UnitPrice float64 `gorm:"column:unit_price;not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Payment settles one order.
type Payment struct {
	ID      int     `gorm:"column:id;primaryKey"`
	OrderID int     `gorm:"column:order_id;not null"`
	Amount  float64 `gorm:"column:amount;not null"`
	Method  string  `gorm:"column:method;not null"`
	Status  string  `gorm:"column:status;not null"`
}

func (Payment) TableName() string {
	return "payments"
}

// Shipment delivers one order.
type Shipment struct {
	ID              int    `gorm:"column:id;primaryKey"`
	OrderID         int    `gorm:"column:order_id;not null"`
	DeliveryAddress string `gorm:"column:delivery_address;not null"`
	Status          string `gorm:"column:status;not null"`
}

func (Shipment) TableName() string {
	return "shipments"
}
