package notion

import (
	"strings"
)

const textLimit = 1900

// Property is one database cell as the API returns it. Only the branch
// matching Type is populated.
type Property struct {
	Type        string         `json:"type"`
	Title       []richText     `json:"title,omitempty"`
	RichText    []richText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *selectOption  `json:"select,omitempty"`
	MultiSelect []selectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *dateValue     `json:"date,omitempty"`
	Relation    []idRef        `json:"relation,omitempty"`
	People      []personRef    `json:"people,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Email       *string        `json:"email,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	Files       []fileRef      `json:"files,omitempty"`
	Formula     *formulaValue  `json:"formula,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type idRef struct {
	ID string `json:"id"`
}

type personRef struct {
	Name string `json:"name"`
}

type fileRef struct {
	Name string `json:"name"`
}

type formulaValue struct {
	Type    string   `json:"type"`
	String  *string  `json:"string,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Boolean *bool    `json:"boolean,omitempty"`
}

func joinPlainText(parts []richText) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.PlainText)
	}
	return b.String()
}

// Text flattens the property into a plain string, empty when the cell
// carries no text-like value.
func (p Property) Text() string {
	switch p.Type {
	case "title":
		return joinPlainText(p.Title)
	case "rich_text":
		return joinPlainText(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	case "url":
		if p.URL != nil {
			return *p.URL
		}
	case "email":
		if p.Email != nil {
			return *p.Email
		}
	case "phone_number":
		if p.PhoneNumber != nil {
			return *p.PhoneNumber
		}
	case "date":
		if p.Date != nil {
			return p.Date.Start
		}
	case "formula":
		if p.Formula != nil && p.Formula.String != nil {
			return *p.Formula.String
		}
	}
	return ""
}

// Simplify flattens a property into the plainest Go value that keeps its
// meaning. Unknown or empty cells come back as nil.
func (p Property) Simplify() interface{} {
	switch p.Type {
	case "title", "rich_text":
		if s := p.Text(); s != "" {
			return s
		}
		return nil
	case "number":
		if p.Number != nil {
			return *p.Number
		}
		return nil
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
		return nil
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return names
	case "checkbox":
		if p.Checkbox != nil {
			return *p.Checkbox
		}
		return false
	case "date":
		if p.Date != nil {
			return p.Date.Start
		}
		return nil
	case "relation":
		ids := make([]string, 0, len(p.Relation))
		for _, ref := range p.Relation {
			ids = append(ids, ref.ID)
		}
		return ids
	case "people":
		names := make([]string, 0, len(p.People))
		for _, person := range p.People {
			names = append(names, person.Name)
		}
		return names
	case "files":
		names := make([]string, 0, len(p.Files))
		for _, file := range p.Files {
			names = append(names, file.Name)
		}
		return names
	case "url", "email", "phone_number":
		return nilIfEmpty(p.Text())
	case "formula":
		if p.Formula == nil {
			return nil
		}
		switch p.Formula.Type {
		case "string":
			if p.Formula.String != nil {
				return *p.Formula.String
			}
		case "number":
			if p.Formula.Number != nil {
				return *p.Formula.Number
			}
		case "boolean":
			if p.Formula.Boolean != nil {
				return *p.Formula.Boolean
			}
		}
		return nil
	default:
		return nil
	}
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// SimplifyPage flattens every property of a page into plain values.
func SimplifyPage(page Page) map[string]interface{} {
	out := make(map[string]interface{}, len(page.Properties))
	for name, prop := range page.Properties {
		out[name] = prop.Simplify()
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func textPayload(value string) []map[string]interface{} {
	return []map[string]interface{}{
		{"text": map[string]string{"content": truncateRunes(value, textLimit)}},
	}
}

// BuildPropertyPayload shapes a plain Go value into the write form the API
// expects for the given property type. The second return is false when the
// value cannot be expressed as that type.
func BuildPropertyPayload(propType string, value interface{}) (map[string]interface{}, bool) {
	switch propType {
	case "title":
		return map[string]interface{}{"title": textPayload(stringify(value))}, true
	case "rich_text":
		return map[string]interface{}{"rich_text": textPayload(stringify(value))}, true
	case "number":
		num, ok := toFloat(value)
		if !ok {
			return nil, false
		}
		return map[string]interface{}{"number": num}, true
	case "select":
		name := strings.TrimSpace(stringify(value))
		if name == "" {
			return nil, false
		}
		return map[string]interface{}{
			"select": map[string]string{"name": truncateRunes(name, 100)},
		}, true
	case "multi_select":
		names := toStrings(value)
		options := make([]map[string]string, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			options = append(options, map[string]string{"name": truncateRunes(name, 100)})
		}
		return map[string]interface{}{"multi_select": options}, true
	case "checkbox":
		return map[string]interface{}{"checkbox": toBool(value)}, true
	case "date":
		start := strings.TrimSpace(stringify(value))
		if start == "" {
			return nil, false
		}
		return map[string]interface{}{"date": map[string]string{"start": start}}, true
	case "url":
		return map[string]interface{}{"url": stringify(value)}, true
	case "email":
		return map[string]interface{}{"email": stringify(value)}, true
	case "phone_number":
		return map[string]interface{}{"phone_number": stringify(value)}, true
	case "relation":
		ids := toStrings(value)
		refs := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, map[string]string{"id": NormalizeID(id)})
		}
		return map[string]interface{}{"relation": refs}, true
	default:
		return nil, false
	}
}
