// Package audit provides audit logging for provisioning operations.
//
// This package implements structured audit logging for security-relevant
// operations such as object creation, credential storage, and key generation.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Object ensure events (role, tablespace, database)
//   - Credential store events
//   - Recipient key generation events
//   - Run completion events
//
// # Usage
//
//	auditor := audit.NewAuditor(audit.NewLogger(), store)
//	auditor.Log(audit.ObjectEnsuredEvent{RunID: id, Kind: "role", Name: "app_role", Created: true, Success: true})
//
// Events are emitted in RFC 5424 syslog format and, when a store is
// configured, persisted to a database for security monitoring.
package audit
