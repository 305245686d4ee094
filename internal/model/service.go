// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Icon identifies one of the service illustrations.
type Icon string

// Known icons
const (
	IconSofa Icon = "Sofa"
	IconBed  Icon = "Bed"
	IconHome Icon = "Home"
	IconCar  Icon = "Car"
	IconSun  Icon = "Sun"
)

// DefaultIcon is used for unknown tags.
const DefaultIcon = IconSofa

// Icons lists every known icon in display order.
var Icons = []Icon{IconSofa, IconBed, IconHome, IconCar, IconSun}

var iconLabels = map[Icon]string{
	IconSofa: "Sofá",
	IconBed:  "Cama",
	IconHome: "Casa",
	IconCar:  "Carro",
	IconSun:  "Sol",
}

// Label returns the Portuguese name shown in the admin icon picker.
func (i Icon) Label() string {
	if l, ok := iconLabels[i]; ok {
		return l
	}
	return iconLabels[DefaultIcon]
}

// ParseIcon maps a tag to a known icon, falling back to DefaultIcon.
func ParseIcon(tag string) Icon {
	for _, ic := range Icons {
		if string(ic) == tag {
			return ic
		}
	}
	return DefaultIcon
}

// Service is a cleaning service offered on the public site.
type Service struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Features    []string  `json:"features" yaml:"features"`
	Active      bool      `json:"active" yaml:"active"`
	CreatedAt   Timestamp `json:"created_at,omitempty" yaml:"-"`
}

// IconValue returns the resolved icon for the service.
func (s Service) IconValue() Icon {
	return ParseIcon(s.Icon)
}

// ServiceInput is the create/update payload for a service.
type ServiceInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=2000"`
	Icon        Icon     `json:"icon" validate:"required,oneof=Sofa Bed Home Car Sun"`
	Features    []string `json:"features" validate:"dive,max=200"`
	Active      bool     `json:"active"`
}
