// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is a single portfolio work item. Content holds the encoded
// narrative blob; Gallery and Tools are persisted as JSON text columns.
type Project struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	ShortDescription string     `json:"short_description"`
	Content          string     `json:"content"`
	CoverImage       string     `json:"cover_image"`
	Gallery          StringList `json:"gallery"`
	Tools            StringList `json:"tools"`
	Featured         bool       `json:"featured"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// StringList is an ordered list of strings stored as a JSON array in a
// text column. Decoding never fails: malformed input yields an empty list.
type StringList []string

// ParseStringList decodes a stored JSON array. Non-string and blank
// elements are dropped; anything that is not a JSON array yields an
// empty, non-nil list.
func ParseStringList(raw string) StringList {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return StringList{}
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// String serializes the list as a JSON array. A nil list encodes as "[]".
func (l StringList) String() string {
	if l == nil {
		return "[]"
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Scan implements sql.Scanner so the list can be read straight from a
// text column. Unsupported source types degrade to an empty list.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*l = ParseStringList(v)
	case []byte:
		*l = ParseStringList(string(v))
	default:
		*l = StringList{}
	}
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return l.String(), nil
}

// Metrics summarises the portfolio for the homepage.
type Metrics struct {
	TotalProjects    int        `json:"total_projects"`
	FeaturedProjects int        `json:"featured_projects"`
	UniqueTools      int        `json:"unique_tools"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
}

// ComputeMetrics derives portfolio metrics from a set of projects. The
// tool count is the size of the union of every project's tool set.
func ComputeMetrics(projects []Project) Metrics {
	m := Metrics{TotalProjects: len(projects)}
	tools := make(map[string]struct{})
	for i := range projects {
		p := &projects[i]
		if p.Featured {
			m.FeaturedProjects++
		}
		for _, t := range p.Tools {
			tools[t] = struct{}{}
		}
		if m.LastUpdated == nil || p.UpdatedAt.After(*m.LastUpdated) {
			ts := p.UpdatedAt
			m.LastUpdated = &ts
		}
	}
	m.UniqueTools = len(tools)
	return m
}
