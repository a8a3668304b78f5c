// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package uts51 reads the Unicode emoji-test.txt data file (UTS #51) and
// builds the emoji-mart dataset the catalog is compiled from.
package uts51

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// CodeInvalidSource marks malformed emoji-test data.
const CodeInvalidSource = "INVALID_EMOJI_SOURCE"

const statusFullyQualified = "fully-qualified"

// Entry is one fully-qualified line of emoji-test.txt.
type Entry struct {
	// Unified is the lowercase code point sequence joined by "-".
	Unified string
	Native  string
	// Version is the Emoji version the sequence first appeared in.
	Version float64
	// Name is the CLDR short name, e.g. "grinning face".
	Name  string
	Group string
}

// Parse reads emoji-test.txt and returns its fully-qualified entries in
// file order. Unqualified, minimally-qualified and component lines are
// skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var (
		group   string
		entries []Entry
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if g, ok := strings.CutPrefix(line, "# group:"); ok {
			group = strings.TrimSpace(g)
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		data, comment, _ := strings.Cut(line, "#")
		codepoints, status, _ := strings.Cut(data, ";")
		if strings.TrimSpace(status) != statusFullyQualified {
			continue
		}

		fields := strings.SplitN(strings.TrimSpace(comment), " ", 3)
		if len(fields) != 3 || !strings.HasPrefix(fields[1], "E") {
			return nil, oops.Code(CodeInvalidSource).With("line", lineNo).Errorf("malformed entry: %q", line)
		}
		version, err := strconv.ParseFloat(strings.TrimPrefix(fields[1], "E"), 64)
		if err != nil {
			return nil, oops.Code(CodeInvalidSource).With("line", lineNo).Wrapf(err, "parse emoji version")
		}

		entries = append(entries, Entry{
			Unified: strings.ToLower(strings.Join(strings.Fields(codepoints), "-")),
			Native:  fields[0],
			Version: version,
			Name:    fields[2],
			Group:   group,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Code(CodeInvalidSource).Wrapf(err, "read emoji-test data")
	}
	if len(entries) == 0 {
		return nil, oops.Code(CodeInvalidSource).Errorf("no fully-qualified emoji found")
	}
	return entries, nil
}
