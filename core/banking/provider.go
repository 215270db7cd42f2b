package banking

import (
	"strings"
)

// AuthField describes one field of a provider login form.
type AuthField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Interactive bool   `json:"interactive"`
	Optional    bool   `json:"optional"`
	LabelEN     string `json:"label_en"`
	LabelES     string `json:"label_es"`
}

// Label returns the field label for lang, falling back to English and then to the field name.
func (f AuthField) Label(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "es") && f.LabelES != "" {
		return f.LabelES
	}
	if f.LabelEN != "" {
		return f.LabelEN
	}
	return f.Name
}

// Provider is a bank reachable through the aggregation API.
type Provider struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Country    string      `json:"country"`
	Logo       string      `json:"logo,omitempty"`
	AuthFields []AuthField `json:"auth_fields,omitempty"`
}

// RequiredFields returns the fields that must be collected before the first
// login attempt: required and non-interactive, in declaration order.
func (p Provider) RequiredFields() []AuthField {
	fields := make([]AuthField, 0, len(p.AuthFields))
	for _, f := range p.AuthFields {
		if f.Optional || f.Interactive {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// InteractiveField returns the descriptor of the named field. Fields the
// provider did not declare are returned as a plain interactive text field,
// since the remote service may request them without advertising them.
func (p Provider) InteractiveField(name string) AuthField {
	for _, f := range p.AuthFields {
		if f.Name == name {
			f.Interactive = true
			f.Optional = false
			return f
		}
	}
	return AuthField{Name: name, Type: "text", Interactive: true}
}
