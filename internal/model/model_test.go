// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseIcon(t *testing.T) {
	tests := []struct {
		tag  string
		want Icon
	}{
		{"Sofa", IconSofa},
		{"Bed", IconBed},
		{"Home", IconHome},
		{"Car", IconCar},
		{"Sun", IconSun},
		{"sofa", DefaultIcon},
		{"Rocket", DefaultIcon},
		{"", DefaultIcon},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := ParseIcon(tt.tag); got != tt.want {
				t.Errorf("ParseIcon(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestServiceIconValue(t *testing.T) {
	s := Service{Icon: "Unknown"}
	if got := s.IconValue(); got != IconSofa {
		t.Errorf("IconValue() = %q, want %q", got, IconSofa)
	}
}

func TestIconLabel(t *testing.T) {
	if got := IconCar.Label(); got != "Carro" {
		t.Errorf("IconCar.Label() = %q, want Carro", got)
	}
	if got := Icon("Rocket").Label(); got != "Sofá" {
		t.Errorf("unknown Label() = %q, want Sofá", got)
	}
}

func TestContactStatusLabel(t *testing.T) {
	tests := []struct {
		status ContactStatus
		want   string
		valid  bool
	}{
		{StatusPending, "Pendente", true},
		{StatusContacted, "Contatado", true},
		{StatusConverted, "Convertido", true},
		{StatusClosed, "Fechado", true},
		{"archived", UnknownStatusLabel, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "naive with micros",
			input: `"2024-05-01T12:30:45.123456"`,
			want:  time.Date(2024, 5, 1, 12, 30, 45, 123456000, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2024-05-01T09:30:45-03:00"`,
			want:  time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:    "garbage",
			input:   `"yesterday"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !ts.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestContactDecode(t *testing.T) {
	raw := `{"id":"c1","name":"Ana","phone":"13999999999","message":"Oi","status":"pending","source":"form","created_at":"2024-05-01T12:00:00"}`

	var c Contact
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.Status != StatusPending {
		t.Errorf("Status = %q, want %q", c.Status, StatusPending)
	}
	if c.CreatedAt.Year() != 2024 {
		t.Errorf("CreatedAt = %v, want 2024", c.CreatedAt.Time)
	}
}

func TestDefaultCompanyInfo(t *testing.T) {
	c := DefaultCompanyInfo()
	if c.WhatsApp != "5513997043410" {
		t.Errorf("WhatsApp = %q, want %q", c.WhatsApp, "5513997043410")
	}
	if c.Name == "" || c.Phone == "" {
		t.Error("default company info must have name and phone")
	}
}
