package seed

import (
	"github.com/brianvoe/gofakeit/v7"
)

// Default dataset sizes.
const (
	DefaultCustomers = 10
	DefaultProducts  = 8
	DefaultOrders    = 15
)

// Fixed value sets of the demo dataset.
var (
	PaymentMethods   = []string{"credit_card", "paypal", "bank_transfer"}
	ShipmentStatuses = []string{"processing", "shipped", "delivered"}
)

const (
	OrderStatusPending     = "pending"
	PaymentStatusCompleted = "completed"
)

// Dataset is an in-memory demo dataset. Relational fields hold 1-based
// positions within the dataset until Apply rewrites them with the keys the
// database generated.
type Dataset struct {
	Customers []Customer
	Products  []Product
	Orders    []Order
	Items     []OrderItem
	Payments  []Payment
	Shipments []Shipment
}

// Generator produces fake but plausible demo rows.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator returns a generator. The same seed reproduces the same
// dataset; seed 0 randomizes.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Dataset builds a dataset with the requested row counts. Every order gets
// one to three items, exactly one payment and exactly one shipment.
func (g *Generator) Dataset(customers, products, orders int) *Dataset {
	ds := &Dataset{
		Customers: make([]Customer, 0, customers),
		Products:  make([]Product, 0, products),
		Orders:    make([]Order, 0, orders),
	}

	for i := 0; i < customers; i++ {
		ds.Customers = append(ds.Customers, Customer{
			FirstName: g.faker.FirstName(),
			LastName:  g.faker.LastName(),
			Email:     g.faker.Email(),
			Phone:     g.faker.Phone(),
		})
	}

	for i := 0; i < products; i++ {
		ds.Products = append(ds.Products, Product{
			Name:          g.faker.ProductName(),
			Description:   g.faker.Sentence(6),
			Price:         g.faker.Price(1, 100),
			StockQuantity: g.faker.Number(1, 20),
		})
	}

	for i := 0; i < orders; i++ {
		ds.Orders = append(ds.Orders, Order{
			CustomerID: g.faker.Number(1, customers),
			Status:     OrderStatusPending,
		})
	}

	for position := 1; position <= orders; position++ {
		for n := g.faker.Number(1, 3); n > 0; n-- {
			ds.Items = append(ds.Items, OrderItem{
				OrderID:   position,
				ProductID: g.faker.Number(1, products),
				Quantity:  g.faker.Number(1, 5),
				UnitPrice: g.faker.Price(5, 20),
			})
		}

		ds.Payments = append(ds.Payments, Payment{
			OrderID: position,
			Amount:  g.faker.Price(10, 50),
			Method:  g.faker.RandomString(PaymentMethods),
			Status:  PaymentStatusCompleted,
		})

		ds.Shipments = append(ds.Shipments, Shipment{
			OrderID:         position,
			DeliveryAddress: g.faker.Address().Address,
			Status:          g.faker.RandomString(ShipmentStatuses),
		})
	}

	return ds
}
