// Package seed recreates the demo e-commerce dataset on a provisioned
// database: customers, products, orders with their items, payments and
// shipments.
//
// Generation and insertion are separate. A Generator produces an in-memory
// Dataset where rows reference each other by position; a Seeder inserts it
// in one transaction and resolves the positions against the keys the
// database hands back. The table schema itself ships as migrations under
// db/migrations.
package seed
