package main

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Entry is one version section of the changelog.
type Entry struct {
	Version string
	Date    string
	Body    string
}

// Changelog is a parsed Keep a Changelog file.
type Changelog struct {
	Entries []Entry
	Links   map[string]string
}

// Find returns the entry for a version, tolerating a leading "v" on either
// side. It returns nil when the version has no section.
func (c *Changelog) Find(version string) *Entry {
	version = strings.TrimPrefix(version, "v")
	for i := range c.Entries {
		if strings.TrimPrefix(c.Entries[i].Version, "v") == version {
			return &c.Entries[i]
		}
	}
	return nil
}

// headingRE splits a version heading into the version and the optional
// release date, with or without the link brackets.
var headingRE = regexp.MustCompile(`^\[?([^\]]+?)\]?(?:\s+-\s+(.+))?$`)

// section tracks where a version heading starts and where its text ends,
// so entry bodies can be sliced straight out of the source.
type section struct {
	version   string
	date      string
	start     int
	bodyStart int
}

// Parse reads a Keep a Changelog document into its version entries and
// link definitions.
func Parse(source []byte) (*Changelog, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	changelog := &Changelog{Links: make(map[string]string)}
	for _, ref := range ctx.References() {
		changelog.Links[string(ref.Label())] = string(ref.Destination())
	}

	var sections []section
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := splitHeading(headingText(heading, source))

		// Heading segments cover the text only, not the "## " marker, so
		// the section boundary has to snap back to the start of the line.
		sec := section{version: version, date: date}
		if lines := heading.Lines(); lines.Len() > 0 {
			sec.start = lineStart(source, lines.At(0).Start)
			sec.bodyStart = lines.At(lines.Len() - 1).Stop
		}
		sections = append(sections, sec)
		return ast.WalkContinue, nil
	})

	for i, sec := range sections {
		end := len(source)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		body := ""
		if sec.bodyStart < end {
			body = strings.TrimSpace(string(source[sec.bodyStart:end]))
		}
		changelog.Entries = append(changelog.Entries, Entry{
			Version: sec.version,
			Date:    sec.date,
			Body:    body,
		})
	}

	return changelog, nil
}

// headingText flattens a heading to plain text, unwrapping any links so
// "[1.2.0] - 2026-07-30" reads the same whether or not 1.2.0 is linked.
func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				buf.Write(textNode.Segment.Value(source))
				continue
			}
			walk(child)
		}
	}
	walk(node)
	return buf.String()
}

func lineStart(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

func splitHeading(heading string) (version, date string) {
	m := headingRE.FindStringSubmatch(strings.TrimSpace(heading))
	if m == nil {
		return strings.TrimSpace(heading), ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}
