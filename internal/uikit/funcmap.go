// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides small, reusable template helpers.
package uikit

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	_ "time/tzdata" // display zone must resolve on minimal images
	"unicode/utf8"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// MonthsPt contains Portuguese month names.
var MonthsPt = []string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Location is the zone dates are displayed in.
var Location = loadLocation("America/Sao_Paulo")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TemplateFuncs returns a template.FuncMap with pure, reusable helper functions.
//
// Callers can merge project-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["myFunc"] = myProjectFunc
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
		"truncate":  Truncate,
		"contains": func(collection, element any) bool {
			if slice, ok := collection.([]string); ok {
				if elem, ok := element.(string); ok {
					for _, s := range slice {
						if s == elem {
							return true
						}
					}
				}
				return false
			}
			if s, ok := collection.(string); ok {
				if substr, ok := element.(string); ok {
					return strings.Contains(s, substr)
				}
			}
			return false
		},

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"formatDate": func(t any) string {
			return ApplyTimeFormatter(t, FormatDate)
		},
		"formatDateTime": func(t any) string {
			return ApplyTimeFormatter(t, FormatDateTime)
		},
		"formatDateLong": func(t any) string {
			return ApplyTimeFormatter(t, FormatDateLong)
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// Truncate shortens s to at most length runes, appending an ellipsis.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	return string([]rune(s)[:length]) + "..."
}

// FormatDate formats t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.In(Location).Format("02/01/2006")
}

// FormatDateTime formats t as dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	return t.In(Location).Format("02/01/2006 15:04")
}

// FormatDateLong formats t as "15 de março de 2025".
func FormatDateLong(t time.Time) string {
	t = t.In(Location)
	return fmt.Sprintf("%d de %s de %d", t.Day(), MonthsPt[t.Month()-1], t.Year())
}

// ApplyTimeFormatter applies a time formatting function to a time.Time,
// *time.Time or model.Timestamp. Zero times, nil pointers and unsupported
// types yield an empty string.
func ApplyTimeFormatter(t any, formatter func(time.Time) string) string {
	var tm time.Time
	switch v := t.(type) {
	case time.Time:
		tm = v
	case *time.Time:
		if v == nil {
			return ""
		}
		tm = *v
	case model.Timestamp:
		tm = v.Time
	default:
		return ""
	}
	if tm.IsZero() {
		return ""
	}
	return formatter(tm)
}
