package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Problem is a single validation finding. Line is zero for file-level
// findings that have no anchor in the source.
type Problem struct {
	Line    int
	Message string
}

// Report collects validation findings for one changelog.
type Report struct {
	Problems []Problem
}

func (r *Report) add(line int, format string, args ...interface{}) {
	r.Problems = append(r.Problems, Problem{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

var (
	isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	semverRE  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

	changeTypes = map[string]bool{
		"Added":      true,
		"Changed":    true,
		"Deprecated": true,
		"Removed":    true,
		"Fixed":      true,
		"Security":   true,
	}
)

// Validate checks a changelog against the Keep a Changelog conventions:
// a "# Changelog" title, an [Unreleased] section, semantic versions with
// ISO 8601 dates, known change types, and a link definition per version.
func Validate(source []byte) *Report {
	report := &Report{}

	hasTitle := false
	hasUnreleased := false
	var versions []string

	for i, line := range strings.Split(string(source), "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "### "):
			changeType := strings.TrimPrefix(trimmed, "### ")
			if !changeTypes[changeType] {
				report.add(lineNum, "unknown change type %q, valid types are Added, Changed, Deprecated, Removed, Fixed, Security", changeType)
			}

		case strings.HasPrefix(trimmed, "## "):
			version, date := splitHeading(strings.TrimPrefix(trimmed, "## "))
			if strings.EqualFold(version, "unreleased") {
				hasUnreleased = true
				continue
			}
			versions = append(versions, version)
			if !semverRE.MatchString(version) {
				report.add(lineNum, "version %q does not follow semantic versioning (X.Y.Z)", version)
			}
			if date == "" {
				report.add(lineNum, "version %q has no release date", version)
			} else if !isoDateRE.MatchString(date) {
				report.add(lineNum, "date %q is not ISO 8601 (YYYY-MM-DD)", date)
			}

		case strings.HasPrefix(trimmed, "# "):
			hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				report.add(lineNum, "title should contain the word Changelog")
			}
		}
	}

	if !hasTitle {
		report.add(0, "missing changelog title (# Changelog)")
	}
	if !hasUnreleased {
		report.add(0, "missing [Unreleased] section")
	}

	if changelog, err := Parse(source); err == nil {
		if hasUnreleased {
			if _, ok := changelog.Links["Unreleased"]; !ok {
				report.add(0, "no link definition for [Unreleased]")
			}
		}
		for _, version := range versions {
			if _, ok := changelog.Links[version]; !ok {
				report.add(0, "no link definition for [%s]", version)
			}
		}
	}

	return report
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a changelog against Keep a Changelog",
	Long: `Validate that a changelog file follows the Keep a Changelog conventions.

Checks include:
- File has a title (# Changelog)
- Has an [Unreleased] section
- Version entries use the format: ## [X.Y.Z] - YYYY-MM-DD
- Dates are ISO 8601 (YYYY-MM-DD)
- Change types are one of Added, Changed, Deprecated, Removed, Fixed, Security
- Link definitions exist for every version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		report := Validate(content)
		if report.OK() {
			fmt.Println("✓ Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(report.Problems))
		for _, problem := range report.Problems {
			if problem.Line > 0 {
				fmt.Printf("  Line %d: %s\n", problem.Line, problem.Message)
			} else {
				fmt.Printf("  %s\n", problem.Message)
			}
		}

		os.Exit(1)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(validateCmd)
}
