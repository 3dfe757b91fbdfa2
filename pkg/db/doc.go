// Package db provides database connection utilities.
//
// This package handles PostgreSQL connections using GORM. Provisioning
// always connects to the maintenance database as the superuser; the catalog
// layer builds on the returned handle.
//
// # Connection
//
//	database, err := db.Connect(db.Config{DSN: cfg.SuperuserDSN()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Connection String Format
//
// The DSN is a standard PostgreSQL key/value connection string:
//
//	host=/var/run/postgresql dbname=postgres sslmode=disable user=postgres
package db
