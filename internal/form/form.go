// Package form holds the field definitions and local state used to create and
// edit documents from the command line.
package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// FieldType selects how a value is entered and submitted.
type FieldType string

const (
	Text     FieldType = "text"
	Email    FieldType = "email"
	Password FieldType = "password"
	Number   FieldType = "number"
	Date     FieldType = "date"
	Select   FieldType = "select"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one form input.
type Field struct {
	Name        string
	Label       string
	Type        FieldType
	Placeholder string
	Options     []Option
	Optional    bool
}

var optionLabels = map[string]string{
	"on":    "Ativo",
	"off":   "Inativo",
	"admin": "Admin",
	"user":  "Usuário",
}

// Label returns the display label of a raw option value.
func Label(value string) string {
	if l, ok := optionLabels[value]; ok {
		return l
	}
	return value
}

// Values turns raw values into options labelled with Label.
func Values(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: Label(v)})
	}
	return out
}

// OptionLabel returns the label of value within opts, or value itself.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// OptionsFrom builds select options from a list, e.g. stores by id and name.
func OptionsFrom[T any](items []T, value, label func(T) string) []Option {
	out := make([]Option, 0, len(items))
	for _, item := range items {
		out = append(out, Option{Value: value(item), Label: label(item)})
	}
	return out
}

// Form is the editable state of one document.
type Form struct {
	Title  string
	fields []Field
	values map[string]string
}

// New creates an empty form over fields.
func New(title string, fields ...Field) *Form {
	return &Form{Title: title, fields: fields, values: map[string]string{}}
}

// Fields returns the field definitions in display order.
func (f *Form) Fields() []Field { return f.fields }

// Field looks up a field by name.
func (f *Form) Field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Open resets the state, pre-filled from initial when editing.
func (f *Form) Open(initial map[string]any) {
	f.values = map[string]string{}
	for _, fd := range f.fields {
		v, ok := initial[fd.Name]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			f.values[fd.Name] = val
		case float64:
			f.values[fd.Name] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			f.values[fd.Name] = fmt.Sprint(val)
		}
	}
}

// Set stores a value. Phone fields are masked as they are typed. Select fields
// with a known option list accept an option value or its label and store the value.
func (f *Form) Set(name, value string) error {
	fd, ok := f.Field(name)
	if !ok {
		return fmt.Errorf("unknown field %q (expected one of: %s)", name, strings.Join(f.names(), ", "))
	}

	switch {
	case fd.Type == Select && value != "" && len(fd.Options) > 0:
		v, ok := resolveOption(fd.Options, value)
		if !ok {
			return fmt.Errorf("%q is not a valid option for %s", value, fd.Label)
		}
		value = v
	case isPhone(fd.Name):
		value = MaskPhone(value)
	}

	f.values[name] = value
	return nil
}

// Value returns the current raw value of name.
func (f *Form) Value(name string) string { return f.values[name] }

// Submit checks required fields, converts numbers and hands the flat document
// to handler. State is cleared only when handler succeeds.
func (f *Form) Submit(handler func(map[string]any) error) error {
	doc := make(map[string]any, len(f.values))
	var missing []string

	for _, fd := range f.fields {
		raw := strings.TrimSpace(f.values[fd.Name])
		if raw == "" {
			if !fd.Optional {
				missing = append(missing, fd.Label)
			}
			continue
		}

		if fd.Type == Number {
			n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number", fd.Label, raw)
			}
			doc[fd.Name] = n
			continue
		}
		doc[fd.Name] = raw
	}

	if len(missing) > 0 {
		return fmt.Errorf("required: %s", strings.Join(missing, ", "))
	}

	if err := handler(doc); err != nil {
		return err
	}
	f.values = map[string]string{}
	return nil
}

func (f *Form) names() []string {
	out := make([]string, 0, len(f.fields))
	for _, fd := range f.fields {
		out = append(out, fd.Name)
	}
	sort.Strings(out)
	return out
}

func resolveOption(opts []Option, value string) (string, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o.Value, true
		}
	}
	for _, o := range opts {
		if strings.EqualFold(o.Label, value) {
			return o.Value, true
		}
	}
	return "", false
}

func isPhone(name string) bool {
	return name == "phone_number" || name == "phone"
}

// MaskPhone formats up to eleven digits as (DD) DDDDD-DDDD, keeping whatever
// prefix has been typed so far. Longer input is returned unchanged.
func MaskPhone(value string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)
	if len(digits) > 11 {
		return value
	}

	area, rest := cut(digits, 2)
	number, suffix := cut(rest, 5)

	var b strings.Builder
	if area != "" {
		b.WriteString("(" + area)
	}
	if number != "" {
		b.WriteString(") " + number)
	}
	if suffix != "" {
		b.WriteString("-" + suffix)
	}
	if b.Len() == 0 {
		return value
	}
	return b.String()
}

func cut(s string, n int) (string, string) {
	if len(s) <= n {
		return s, ""
	}
	return s[:n], s[n:]
}
