// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

//go:embed snapshot.yaml
var bundledSnapshot []byte

// Snapshot is the versioned static dataset served when live data is
// unavailable.
type Snapshot struct {
	Version      string                  `yaml:"version"`
	Company      model.CompanyInfo       `yaml:"company"`
	Services     []model.Service         `yaml:"services"`
	Pricing      []model.PricingCategory `yaml:"pricing"`
	Testimonials []model.Testimonial     `yaml:"testimonials"`
}

// ParseSnapshot decodes and validates a YAML snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("content: decode snapshot: %w", err)
	}
	if snap.Version == "" {
		return nil, errors.New("content: snapshot version is required")
	}
	if len(snap.Services) == 0 || len(snap.Pricing) == 0 || len(snap.Testimonials) == 0 {
		return nil, errors.New("content: snapshot must include services, pricing and testimonials")
	}
	if snap.Company.Name == "" {
		snap.Company = model.DefaultCompanyInfo()
	}
	snap.Services = activeOnly(snap.Services, func(s model.Service) bool { return s.Active })
	snap.Pricing = activeOnly(snap.Pricing, func(p model.PricingCategory) bool { return p.Active })
	snap.Testimonials = activeOnly(snap.Testimonials, func(t model.Testimonial) bool { return t.Active })
	return &snap, nil
}

// BundledSnapshot returns the snapshot compiled into the binary.
func BundledSnapshot() (*Snapshot, error) {
	return ParseSnapshot(bundledSnapshot)
}

func activeOnly[T any](items []T, active func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if active(it) {
			out = append(out, it)
		}
	}
	return out
}
