package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := ObjectEnsuredEvent{
		RunID:   "7f3c0f9e",
		Kind:    "role",
		Name:    "app_role",
		Created: true,
		Success: true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"pgbdd",           // appname
			sqlmock.AnyArg(),  // procid
			"ensure",          // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := ObjectEnsuredEvent{
		RunID:        "7f3c0f9e",
		Kind:         "database",
		Name:         "app_db",
		Success:      false,
		ErrorMessage: "permission denied",
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning), // Failed events have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"pgbdd",
			sqlmock.AnyArg(),
			"ensure",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveSecretStoredEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := SecretStoredEvent{
		RunID:          "7f3c0f9e",
		Identity:       "app_role",
		Path:           "/var/lib/pgbdd/credentials/app_role.conf.gpg",
		KeyFingerprint: "deadbeef",
		Success:        true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"pgbdd",
			sqlmock.AnyArg(),
			"vault-store",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	event := ObjectEnsuredEvent{
		RunID:   "7f3c0f9e",
		Kind:    "role",
		Name:    "app_role",
		Success: true,
	}

	// Should not error when db is nil
	err := store.Save(event)
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestMessage(t *testing.T) {
	msg := Message{
		Facility:  FacilityAuthPriv,
		Severity:  int(SeverityInfo),
		Timestamp: time.Now(),
		Hostname:  "localhost",
		Appname:   "pgbdd",
		Procid:    "12345",
		Msgid:     "ensure",
		Sdata:     map[string]any{SDIDObject: map[string]any{"kind": "role"}},
		Message:   "created role app_role",
	}

	if msg.Facility != FacilityAuthPriv {
		t.Errorf("Message.Facility = %v, want %v", msg.Facility, FacilityAuthPriv)
	}
	if msg.Msgid != "ensure" {
		t.Errorf("Message.Msgid = %v, want 'ensure'", msg.Msgid)
	}
}
