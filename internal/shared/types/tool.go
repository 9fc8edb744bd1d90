package types

// Tool describes a callable tool
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
}

// Bound returns a pointer for Parameter.Minimum and Parameter.Maximum
func Bound(v float64) *float64 {
	return &v
}

// Required returns the names of required parameters in declaration order
func (t Tool) Required() []string {
	var names []string
	for _, p := range t.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}
