package audit

import (
	"fmt"
	"strconv"
)

// ObjectEnsuredEvent records the outcome of converging one server object
type ObjectEnsuredEvent struct {
	RunID        string
	Kind         string
	Name         string
	Created      bool
	Success      bool
	ErrorMessage string
}

func (e ObjectEnsuredEvent) MessageID() string {
	return "ensure"
}

func (e ObjectEnsuredEvent) Message() string {
	if e.Success {
		if e.Created {
			return fmt.Sprintf("created %s %s", e.Kind, e.Name)
		}
		return fmt.Sprintf("%s %s was already present", e.Kind, e.Name)
	}
	msg := fmt.Sprintf("failed to ensure %s %s", e.Kind, e.Name)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ObjectEnsuredEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ObjectEnsuredEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ObjectEnsuredEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDObject: {
			"kind": e.Kind,
			"name": e.Name,
		},
		SDIDAction: {
			"operation": "ensure",
			"created":   strconv.FormatBool(e.Created),
		},
		SDIDRun: {
			"id": e.RunID,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

// SecretStoredEvent records a credential envelope being written to the
// vault. It never carries secret material.
type SecretStoredEvent struct {
	RunID          string
	Identity       string
	Path           string
	KeyFingerprint string
	Success        bool
	ErrorMessage   string
}

func (e SecretStoredEvent) MessageID() string {
	return "vault-store"
}

func (e SecretStoredEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("stored credential for %s in the vault", e.Identity)
	}
	msg := fmt.Sprintf("failed to store credential for %s in the vault", e.Identity)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SecretStoredEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SecretStoredEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SecretStoredEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDVault: {
			"identity": e.Identity,
			"path":     e.Path,
			"key":      e.KeyFingerprint,
		},
		SDIDAction: {
			"operation": "store",
		},
		SDIDRun: {
			"id": e.RunID,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

// KeyGeneratedEvent records automatic recipient key generation for an
// empty keyring
type KeyGeneratedEvent struct {
	RunID       string
	Fingerprint string
}

func (e KeyGeneratedEvent) MessageID() string {
	return "key-generate"
}

func (e KeyGeneratedEvent) Message() string {
	return fmt.Sprintf("generated recipient key %s", e.Fingerprint)
}

func (e KeyGeneratedEvent) Severity() Severity {
	return SeverityNotice
}

func (e KeyGeneratedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e KeyGeneratedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDVault: {
			"key": e.Fingerprint,
		},
		SDIDAction: {
			"operation": "key-generate",
		},
		SDIDRun: {
			"id": e.RunID,
		},
	}
}

// RunCompletedEvent records the terminal outcome of a provisioning run
type RunCompletedEvent struct {
	RunID        string
	Role         string
	Database     string
	Tablespace   string
	Success      bool
	ErrorMessage string
}

func (e RunCompletedEvent) MessageID() string {
	return "provision"
}

func (e RunCompletedEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("provisioning run %s completed", e.RunID)
	}
	msg := fmt.Sprintf("provisioning run %s failed", e.RunID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RunCompletedEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e RunCompletedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RunCompletedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDObject: {
			"role":       e.Role,
			"database":   e.Database,
			"tablespace": e.Tablespace,
		},
		SDIDAction: {
			"operation": "provision",
		},
		SDIDRun: {
			"id": e.RunID,
		},
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
