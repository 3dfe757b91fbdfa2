package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChangelog = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

### Added
- Vault watch command

## [0.2.0] - 2026-07-30

### Added
- Encrypted credential vault
- Audit trail sink

### Fixed
- Tablespace location permissions

## [0.1.0] - 2026-06-12

### Added
- Initial provisioning engine

[Unreleased]: https://github.com/AliZainoul/pg-bdd-project/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/AliZainoul/pg-bdd-project/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/AliZainoul/pg-bdd-project/releases/tag/v0.1.0
`

func TestParse(t *testing.T) {
	changelog, err := Parse([]byte(sampleChangelog))
	require.NoError(t, err)
	require.Len(t, changelog.Entries, 3)

	assert.Equal(t, "Unreleased", changelog.Entries[0].Version)
	assert.Empty(t, changelog.Entries[0].Date)
	assert.Contains(t, changelog.Entries[0].Body, "Vault watch command")

	assert.Equal(t, "0.2.0", changelog.Entries[1].Version)
	assert.Equal(t, "2026-07-30", changelog.Entries[1].Date)
	assert.Contains(t, changelog.Entries[1].Body, "Encrypted credential vault")
	assert.NotContains(t, changelog.Entries[1].Body, "Initial provisioning engine")

	assert.Len(t, changelog.Links, 3)
	assert.Equal(t, "https://github.com/AliZainoul/pg-bdd-project/compare/v0.1.0...v0.2.0", changelog.Links["0.2.0"])
}

func TestFind(t *testing.T) {
	changelog, err := Parse([]byte(sampleChangelog))
	require.NoError(t, err)

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"exact version", "0.2.0", "0.2.0"},
		{"with v prefix", "v0.2.0", "0.2.0"},
		{"older version", "0.1.0", "0.1.0"},
		{"unreleased", "Unreleased", "Unreleased"},
		{"non-existent", "3.0.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := changelog.Find(tt.version)
			if tt.expected == "" {
				assert.Nil(t, entry)
			} else {
				require.NotNil(t, entry)
				assert.Equal(t, tt.expected, entry.Version)
			}
		})
	}
}

func TestSplitHeading(t *testing.T) {
	tests := []struct {
		heading string
		version string
		date    string
	}{
		{"[0.2.0] - 2026-07-30", "0.2.0", "2026-07-30"},
		{"0.2.0 - 2026-07-30", "0.2.0", "2026-07-30"},
		{"[Unreleased]", "Unreleased", ""},
		{"0.1.0", "0.1.0", ""},
	}

	for _, tt := range tests {
		version, date := splitHeading(tt.heading)
		assert.Equal(t, tt.version, version, "heading %q", tt.heading)
		assert.Equal(t, tt.date, date, "heading %q", tt.heading)
	}
}

func TestStripLinkDefinitions(t *testing.T) {
	body := "### Added\n- Something\n\n[0.1.0]: https://example.com/v0.1.0\n"
	stripped := stripLinkDefinitions(body)
	assert.Contains(t, stripped, "- Something")
	assert.NotContains(t, stripped, "example.com")
}

func TestValidate_Valid(t *testing.T) {
	report := Validate([]byte(sampleChangelog))
	assert.True(t, report.OK(), "expected a clean report, got: %v", report.Problems)
}

func TestValidate_MissingTitle(t *testing.T) {
	changelog := `## [Unreleased]

## [0.1.0] - 2026-06-12

### Added
- Something

[Unreleased]: https://example.com
[0.1.0]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblem(report, "missing changelog title (# Changelog)"))
}

func TestValidate_MissingUnreleased(t *testing.T) {
	changelog := `# Changelog

## [0.1.0] - 2026-06-12

### Added
- Something

[0.1.0]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblem(report, "missing [Unreleased] section"))
}

func TestValidate_BadVersion(t *testing.T) {
	changelog := `# Changelog

## [Unreleased]

## [0.1] - 2026-06-12

### Added
- Something

[Unreleased]: https://example.com
[0.1]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblemContaining(report, "semantic versioning"))
}

func TestValidate_BadDate(t *testing.T) {
	changelog := `# Changelog

## [Unreleased]

## [0.1.0] - 12-06-2026

### Added
- Something

[Unreleased]: https://example.com
[0.1.0]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblemContaining(report, "ISO 8601"))
}

func TestValidate_MissingDate(t *testing.T) {
	changelog := `# Changelog

## [Unreleased]

## [0.1.0]

### Added
- Something

[Unreleased]: https://example.com
[0.1.0]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblemContaining(report, "no release date"))
}

func TestValidate_UnknownChangeType(t *testing.T) {
	changelog := `# Changelog

## [Unreleased]

### New
- Something

[Unreleased]: https://example.com
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblemContaining(report, "unknown change type"))
}

func TestValidate_MissingLinkDefinitions(t *testing.T) {
	changelog := `# Changelog

## [Unreleased]

## [0.1.0] - 2026-06-12

### Added
- Something
`
	report := Validate([]byte(changelog))
	assert.False(t, report.OK())
	assert.True(t, hasProblemContaining(report, "no link definition for [Unreleased]"))
	assert.True(t, hasProblemContaining(report, "no link definition for [0.1.0]"))
}

func hasProblem(report *Report, message string) bool {
	for _, p := range report.Problems {
		if p.Message == message {
			return true
		}
	}
	return false
}

func hasProblemContaining(report *Report, substr string) bool {
	for _, p := range report.Problems {
		if strings.Contains(p.Message, substr) {
			return true
		}
	}
	return false
}
