// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"testing"
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

func TestTemplateFuncs_FormatFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	// 15:30 UTC is 12:30 in São Paulo.
	testTime := time.Date(2025, time.March, 15, 15, 30, 0, 0, time.UTC)

	formatDate := funcs["formatDate"].(func(any) string)
	if got := formatDate(testTime); got != "15/03/2025" {
		t.Errorf("formatDate() = %q, want %q", got, "15/03/2025")
	}

	formatDateTime := funcs["formatDateTime"].(func(any) string)
	if got := formatDateTime(model.Timestamp{Time: testTime}); got != "15/03/2025 12:30" {
		t.Errorf("formatDateTime() = %q, want %q", got, "15/03/2025 12:30")
	}

	formatDateLong := funcs["formatDateLong"].(func(any) string)
	if got := formatDateLong(&testTime); got != "15 de março de 2025" {
		t.Errorf("formatDateLong() = %q, want %q", got, "15 de março de 2025")
	}
}

func TestApplyTimeFormatter_Empty(t *testing.T) {
	var nilTime *time.Time
	tests := []struct {
		name string
		in   any
	}{
		{"nil pointer", nilTime},
		{"zero timestamp", model.Timestamp{}},
		{"zero time", time.Time{}},
		{"unsupported", "2025-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyTimeFormatter(tt.in, FormatDate); got != "" {
				t.Errorf("ApplyTimeFormatter(%v) = %q, want empty", tt.in, got)
			}
		})
	}
}

func TestTemplateFuncs_StringFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	truncate := funcs["truncate"].(func(string, int) string)
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"hello", 10, "hello"},
		{"", 5, ""},
		{"higienização", 10, "higienizaç..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}

	contains := funcs["contains"].(func(any, any) bool)
	if !contains([]string{"a", "b"}, "b") {
		t.Error("contains(slice, b) = false, want true")
	}
	if contains([]string{"a"}, "c") {
		t.Error("contains(slice, c) = true, want false")
	}
	if !contains("sofás", "sof") {
		t.Error("contains(string, sof) = false, want true")
	}
}

func TestTemplateFuncs_Helpers(t *testing.T) {
	funcs := TemplateFuncs()

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 5); len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("seq(1, 5) = %v", got)
	}

	dict := funcs["dict"].(func(...any) map[string]any)
	d := dict("name", "Ana", "rating", 5)
	if d["name"] != "Ana" || d["rating"] != 5 {
		t.Errorf("dict() = %v", d)
	}
	if dict("odd") != nil {
		t.Error("dict with odd args should be nil")
	}
}
