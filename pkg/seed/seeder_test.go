package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func idRows(ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

func smallDataset() *Dataset {
	return &Dataset{
		Customers: []Customer{
			{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555-0100"},
			{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "555-0101"},
		},
		Products: []Product{
			{Name: "Widget", Description: "a widget", Price: 9.99, StockQuantity: 3},
		},
		Orders: []Order{
			{CustomerID: 2, Status: OrderStatusPending},
			{CustomerID: 1, Status: OrderStatusPending},
		},
		Items: []OrderItem{
			{OrderID: 1, ProductID: 1, Quantity: 2, UnitPrice: 5.0},
			{OrderID: 2, ProductID: 1, Quantity: 1, UnitPrice: 7.5},
		},
		Payments: []Payment{
			{OrderID: 1, Amount: 10.0, Method: "paypal", Status: PaymentStatusCompleted},
			{OrderID: 2, Amount: 7.5, Method: "credit_card", Status: PaymentStatusCompleted},
		},
		Shipments: []Shipment{
			{OrderID: 1, DeliveryAddress: "1 Test Way", Status: "shipped"},
			{OrderID: 2, DeliveryAddress: "2 Test Way", Status: "processing"},
		},
	}
}

func TestSeederAppliesInDependencyOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	ds := smallDataset()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers"`).WillReturnRows(idRows(11, 12))
	mock.ExpectQuery(`INSERT INTO "products"`).WillReturnRows(idRows(21))
	mock.ExpectQuery(`INSERT INTO "orders"`).WillReturnRows(idRows(31, 32))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnRows(idRows(41, 42))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnRows(idRows(51, 52))
	mock.ExpectQuery(`INSERT INTO "shipments"`).WillReturnRows(idRows(61, 62))
	mock.ExpectCommit()

	if err := NewSeeder(gdb, nil).Apply(context.Background(), ds); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Positional references must now point at the generated keys.
	if ds.Orders[0].CustomerID != 12 || ds.Orders[1].CustomerID != 11 {
		t.Errorf("order customer keys = %d, %d, want 12, 11",
			ds.Orders[0].CustomerID, ds.Orders[1].CustomerID)
	}
	if ds.Items[0].OrderID != 31 || ds.Items[1].OrderID != 32 {
		t.Errorf("item order keys = %d, %d, want 31, 32", ds.Items[0].OrderID, ds.Items[1].OrderID)
	}
	if ds.Items[0].ProductID != 21 {
		t.Errorf("item product key = %d, want 21", ds.Items[0].ProductID)
	}
	if ds.Payments[1].OrderID != 32 || ds.Shipments[0].OrderID != 31 {
		t.Error("payment or shipment keys were not rewritten")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSeederRollsBackOnFailure(t *testing.T) {
	gdb, mock := newMockDB(t)
	ds := smallDataset()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers"`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := NewSeeder(gdb, nil).Apply(context.Background(), ds)
	if err == nil {
		t.Fatal("expected the failure to propagate")
	}
	if !strings.Contains(err.Error(), "customers") {
		t.Errorf("error does not name the failing table: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
