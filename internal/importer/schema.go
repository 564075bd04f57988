package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanSchema is the top-level structure of an annual budget plan file.
type PlanSchema struct {
	Year        int                `json:"year" yaml:"year"`
	BudgetLines []BudgetLineImport `json:"budget_lines" yaml:"budget_lines"`
	Users       []UserImport       `json:"users,omitempty" yaml:"users,omitempty"`
}

// BudgetLineImport defines one line of the plan.
type BudgetLineImport struct {
	Code     string `json:"code" yaml:"code"`
	Category string `json:"category" yaml:"category"`
	Cap      Amount `json:"cap" yaml:"cap"`
	Year     *int   `json:"year,omitempty" yaml:"year,omitempty"`
}

// Amount keeps the literal text of a rupiah amount. JSON accepts it as a
// number or a string.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cap must be a number or a string: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// UserImport defines a directory entry created with the plan.
type UserImport struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// LoadPlan reads a plan file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON.
func LoadPlan(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlan(data, filepath.Ext(path))
}

// ParsePlan decodes data according to ext.
func ParsePlan(data []byte, ext string) (*PlanSchema, error) {
	var schema PlanSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	}
	return &schema, nil
}
