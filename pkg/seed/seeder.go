package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
)

// Seeder inserts a dataset into the provisioned database.
type Seeder struct {
	db  *gorm.DB
	log *logging.Logger
}

// NewSeeder wraps an open connection to the application database.
func NewSeeder(gdb *gorm.DB, log *logging.Logger) *Seeder {
	if log == nil {
		log = logging.Nop()
	}
	return &Seeder{db: gdb, log: log}
}

// Apply inserts the dataset in dependency order inside one transaction.
// It rewrites the dataset's positional references with the keys the
// database generated, so a dataset can be applied only once.
func (s *Seeder) Apply(ctx context.Context, ds *Dataset) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ds.Customers).Error; err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		if err := tx.Create(&ds.Products).Error; err != nil {
			return fmt.Errorf("products: %w", err)
		}

		for i := range ds.Orders {
			ds.Orders[i].CustomerID = ds.Customers[ds.Orders[i].CustomerID-1].ID
		}
		if err := tx.Create(&ds.Orders).Error; err != nil {
			return fmt.Errorf("orders: %w", err)
		}

		for i := range ds.Items {
			ds.Items[i].OrderID = ds.Orders[ds.Items[i].OrderID-1].ID
			ds.Items[i].ProductID = ds.Products[ds.Items[i].ProductID-1].ID
		}
		if err := tx.Create(&ds.Items).Error; err != nil {
			return fmt.Errorf("order items: %w", err)
		}

		for i := range ds.Payments {
			ds.Payments[i].OrderID = ds.Orders[ds.Payments[i].OrderID-1].ID
		}
		if err := tx.Create(&ds.Payments).Error; err != nil {
			return fmt.Errorf("payments: %w", err)
		}

		for i := range ds.Shipments {
			ds.Shipments[i].OrderID = ds.Orders[ds.Shipments[i].OrderID-1].ID
		}
		if err := tx.Create(&ds.Shipments).Error; err != nil {
			return fmt.Errorf("shipments: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed the demo dataset: %w", err)
	}

	s.log.Successf("seeded %d customers, %d products, %d orders with %d items, %d payments and %d shipments",
		len(ds.Customers), len(ds.Products), len(ds.Orders), len(ds.Items), len(ds.Payments), len(ds.Shipments))
	return nil
}
