package model

import "fmt"

// DisplayMode is how a collection is laid out by the view layer.
type DisplayMode string

const (
	DisplayList DisplayMode = "list"
	DisplayGrid DisplayMode = "grid"
)

// Section names a collection with its own display mode.
type Section string

const (
	SectionProducts Section = "products"
	SectionOrders   Section = "orders"
)

// ViewMode holds the display mode per section.
type ViewMode struct {
	Products DisplayMode `json:"products"`
	Orders   DisplayMode `json:"orders"`
}

// Preferences are the persisted user interface settings.
type Preferences struct {
	DarkMode      bool     `json:"darkMode"`
	ViewMode      ViewMode `json:"viewMode"`
	ShowConverter bool     `json:"showConverter"`
}

// DefaultPreferences returns the settings used when nothing is persisted.
func DefaultPreferences() Preferences {
	return Preferences{
		DarkMode:      false,
		ViewMode:      ViewMode{Products: DisplayList, Orders: DisplayGrid},
		ShowConverter: true,
	}
}

// ParseDisplayMode validates a display mode string.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case DisplayList, DisplayGrid:
		return DisplayMode(s), nil
	}
	return "", fmt.Errorf("invalid display mode %q: must be list or grid", s)
}

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionProducts, SectionOrders:
		return Section(s), nil
	}
	return "", fmt.Errorf("invalid section %q: must be products or orders", s)
}

// With returns a copy of v with section set to mode.
func (v ViewMode) With(section Section, mode DisplayMode) ViewMode {
	switch section {
	case SectionProducts:
		v.Products = mode
	case SectionOrders:
		v.Orders = mode
	}
	return v
}

// Mode returns the display mode of section.
func (v ViewMode) Mode(section Section) DisplayMode {
	if section == SectionOrders {
		return v.Orders
	}
	return v.Products
}
