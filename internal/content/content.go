// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content encodes a project's narrative fields into the single text
// blob stored in projects.content, and decodes them back out again.
//
// The blob is plain text: a free-form description followed, optionally, by
// labelled sections such as "Objective:" or "Date: 2024-01-01". Blobs written
// before sections existed decode as a description with no sections.
package content

import (
	"regexp"
	"strings"
	"unicode"
)

// Sections holds the narrative fields of a project. An empty string (or a
// nil Videos slice) means the field is absent.
type Sections struct {
	Description  string
	Date         string
	ExternalLink string
	Videos       []string
	Objective    string
	Process      string
	Results      string
	Lessons      string
}

// HasDetails reports whether any of the long-form sections are present.
func (s Sections) HasDetails() bool {
	return s.Objective != "" || s.Process != "" || s.Results != "" || s.Lessons != ""
}

// Section keys produced by normalizeKey.
const (
	keyDate         = "date"
	keyExternalLink = "externalLink"
	keyVideos       = "videos"
	keyObjective    = "objective"
	keyProcess      = "process"
	keyResults      = "results"
	keyLessons      = "lessons"
)

// synonyms maps lower-cased header labels to section keys. Labels not in
// this table are never treated as section headers.
var synonyms = map[string]string{
	"date":              keyDate,
	"external link":     keyExternalLink,
	"link":              keyExternalLink,
	"external":          keyExternalLink,
	"videos":            keyVideos,
	"video":             keyVideos,
	"video links":       keyVideos,
	"objective":         keyObjective,
	"problem":           keyObjective,
	"problem statement": keyObjective,
	"process":           keyProcess,
	"methodology":       keyProcess,
	"execution":         keyProcess,
	"results":           keyResults,
	"outcomes":          keyResults,
	"impact":            keyResults,
	"lessons":           keyLessons,
	"lessons learned":   keyLessons,
	"innovations":       keyLessons,
}

var (
	// headerLine matches "Label: rest" where Label is a letter followed by
	// 1-30 letters or spaces.
	headerLine = regexp.MustCompile(`^([A-Za-z][A-Za-z ]{1,30}):\s*(.*)$`)
	lineBreak  = regexp.MustCompile(`\r?\n`)
)

func normalizeKey(label string) string {
	return synonyms[strings.ToLower(strings.TrimSpace(label))]
}

// Build encodes the sections into a content blob. When no optional field
// has content the result is exactly the trimmed description.
func Build(s Sections) string {
	var parts []string
	if d := strings.TrimSpace(s.Description); d != "" {
		parts = append(parts, d)
	}

	var videos string
	if len(s.Videos) > 0 {
		videos = strings.Join(s.Videos, "\n")
	}

	blocks := []struct {
		label  string
		value  string
		inline bool
	}{
		{"Date", s.Date, true},
		{"Objective", s.Objective, false},
		{"Process", s.Process, false},
		{"Results", s.Results, false},
		{"Lessons Learned", s.Lessons, false},
		{"Videos", videos, false},
		{"External Link", s.ExternalLink, true},
	}

	anyMeta := false
	for _, b := range blocks {
		if strings.TrimSpace(b.value) != "" {
			anyMeta = true
			break
		}
	}
	if !anyMeta {
		return strings.Join(parts, "\n\n")
	}

	parts = append(parts, "")
	for _, b := range blocks {
		v := strings.TrimSpace(b.value)
		if v == "" {
			continue
		}
		if b.inline {
			parts = append(parts, b.label+": "+v, "")
			continue
		}
		parts = append(parts, b.label+":", v, "")
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// Extract decodes a content blob. Lines before the first recognised header
// form the description; after it, every line belongs to the most recently
// opened section. Description is never absent: callers fall back to the
// raw blob when it is empty.
func Extract(blob string) Sections {
	var (
		descLines  []string
		buckets    = make(map[string][]string)
		current    string
		structured bool
	)

	for _, raw := range lineBreak.Split(blob, -1) {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if m := headerLine.FindStringSubmatch(line); m != nil {
			if key := normalizeKey(m[1]); key != "" {
				structured = true
				current = key
				if rest := strings.TrimSpace(m[2]); rest != "" {
					buckets[key] = append(buckets[key], rest)
				}
				continue
			}
		}

		if !structured {
			descLines = append(descLines, raw)
			continue
		}
		if current != "" {
			buckets[current] = append(buckets[current], raw)
		}
	}

	block := func(key string) string {
		return strings.TrimSpace(strings.Join(buckets[key], "\n"))
	}

	return Sections{
		Description:  strings.TrimSpace(strings.Join(descLines, "\n")),
		Date:         block(keyDate),
		ExternalLink: block(keyExternalLink),
		Videos:       ParseLinks(block(keyVideos)),
		Objective:    block(keyObjective),
		Process:      block(keyProcess),
		Results:      block(keyResults),
		Lessons:      block(keyLessons),
	}
}

// ParseLinks splits raw on line breaks and keeps the trimmed, non-empty
// lines that start with http:// or https://. It returns nil when nothing
// survives.
func ParseLinks(raw string) []string {
	if raw == "" {
		return nil
	}
	var links []string
	for _, l := range lineBreak.Split(raw, -1) {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") {
			links = append(links, l)
		}
	}
	return links
}
