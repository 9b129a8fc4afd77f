// Package registry defines the notification-type registry: the seed set of
// named types with their render templates. The store is seeded from the
// built-in defaults, optionally overridden by a JSON registry file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Categories group types for the preference UI.
const (
	CategoryOrder   = "order"
	CategoryProduct = "product"
	CategoryAccount = "account"
	CategorySystem  = "system"
)

// TypeDefinition is one seedable notification type. Name is the stable join
// key from business-event code to rendering and preference logic.
type TypeDefinition struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Template           string `json:"template"`
	EmailTemplate      string `json:"emailTemplate,omitempty"`
	SMSTemplate        string `json:"smsTemplate,omitempty"`
	Category           string `json:"category"`
	Icon               string `json:"icon,omitempty"`
	Color              string `json:"color,omitempty"`
	IsUserConfigurable bool   `json:"isUserConfigurable"`
}

// Registry is the full seed set.
type Registry struct {
	Types []TypeDefinition `json:"types"`
}

// Load reads a registry from a JSON file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks names are present, unique, and categories known.
func (r *Registry) Validate() error {
	seen := make(map[string]bool, len(r.Types))
	for i, t := range r.Types {
		if t.Name == "" {
			return fmt.Errorf("registry entry %d: name is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("registry entry %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
		switch t.Category {
		case CategoryOrder, CategoryProduct, CategoryAccount, CategorySystem:
		default:
			return fmt.Errorf("registry entry %q: unknown category %q", t.Name, t.Category)
		}
		if t.Template == "" {
			return fmt.Errorf("registry entry %q: template is required", t.Name)
		}
	}
	return nil
}
