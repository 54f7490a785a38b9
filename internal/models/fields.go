package models

import (
	"sort"
	"strconv"

	"go-meercat/internal/apperr"
)

// FieldKind is the declared storage type of a switch attribute.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindBool
)

func (k FieldKind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	default:
		return "string"
	}
}

// Field describes one editable switch attribute.
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
	ref   func(*Switch) any
}

// Value returns the attribute of sw described by f.
func (f Field) Value(sw *Switch) any {
	switch p := f.ref(sw).(type) {
	case *string:
		return *p
	case *int:
		return *p
	case *bool:
		return *p
	}
	return nil
}

// IsZero reports whether the attribute holds its zero value.
func (f Field) IsZero(sw *Switch) bool {
	switch v := f.Value(sw).(type) {
	case string:
		return v == "" || v == "null"
	case int:
		return v == 0
	case bool:
		return !v
	}
	return true
}

// Fields lists every switch attribute in presentation order.
var Fields = []Field{
	{"id", "ID", KindString, func(s *Switch) any { return &s.ID }},
	{"platform", "Platform", KindString, func(s *Switch) any { return &s.Platform }},
	{"model", "Model", KindString, func(s *Switch) any { return &s.Model }},
	{"modular", "Modular?", KindBool, func(s *Switch) any { return &s.Modular }},
	{"stackable", "Stackable?", KindBool, func(s *Switch) any { return &s.Stackable }},
	{"network_module", "Network Module", KindString, func(s *Switch) any { return &s.NetworkModule }},
	{"tier", "Tier", KindString, func(s *Switch) any { return &s.Tier }},
	{"dl_ge", "1GE DL", KindInt, func(s *Switch) any { return &s.DlGe }},
	{"dl_ge_poe", "1GE-PoE DL", KindInt, func(s *Switch) any { return &s.DlGePoe }},
	{"dl_ge_poep", "1GE-PoE+ DL", KindInt, func(s *Switch) any { return &s.DlGePoep }},
	{"dl_ge_upoep", "1GE-UPoE+ DL", KindInt, func(s *Switch) any { return &s.DlGeUpoep }},
	{"dl_ge_sfp", "1G-SFP DL", KindInt, func(s *Switch) any { return &s.DlGeSfp }},
	{"dl_2ge_upoe", "2.5GE-UPoE DL", KindInt, func(s *Switch) any { return &s.Dl2geUpoe }},
	{"dl_mgig_poep", "mGig-PoE+ DL", KindInt, func(s *Switch) any { return &s.DlMgigPoep }},
	{"dl_mgig_upoe", "mGig-UPoE DL", KindInt, func(s *Switch) any { return &s.DlMgigUpoe }},
	{"dl_10ge", "10GE DL", KindInt, func(s *Switch) any { return &s.Dl10ge }},
	{"dl_10ge_sfpp", "10G-SFP+ DL", KindInt, func(s *Switch) any { return &s.Dl10geSfpp }},
	{"dl_25ge_sfp28", "25G-SFP28 DL", KindInt, func(s *Switch) any { return &s.Dl25geSfp28 }},
	{"dl_40ge_qsfpp", "40G-QSFP+ DL", KindInt, func(s *Switch) any { return &s.Dl40geQsfpp }},
	{"dl_100ge_qsfp28", "100G-QSFP28 DL", KindInt, func(s *Switch) any { return &s.Dl100geQsfp }},
	{"ul_ge_sfp", "1G-SFP UL", KindInt, func(s *Switch) any { return &s.UlGeSfp }},
	{"ul_mgig", "mGig UL", KindInt, func(s *Switch) any { return &s.UlMgig }},
	{"ul_10ge_sfpp", "10G-SFP UL", KindInt, func(s *Switch) any { return &s.Ul10geSfpp }},
	{"ul_25ge_sfp28", "25G-SFP28 UL", KindInt, func(s *Switch) any { return &s.Ul25geSfp28 }},
	{"ul_40ge_qsfpp", "40G-QSFP+ UL", KindInt, func(s *Switch) any { return &s.Ul40geQsfpp }},
	{"ul_100ge_qsfp28", "100G-QSFP28 UL", KindInt, func(s *Switch) any { return &s.Ul100geQsfp }},
	{"poe_power", "PoE Power", KindInt, func(s *Switch) any { return &s.PoePower }},
	{"switching_capacity", "Switching Capacity", KindInt, func(s *Switch) any { return &s.SwitchingCapacity }},
	{"mac_entry", "Mac Table Size", KindInt, func(s *Switch) any { return &s.MacEntry }},
	{"vlan", "VLAN", KindInt, func(s *Switch) any { return &s.Vlan }},
	{"note", "Notes", KindString, func(s *Switch) any { return &s.Note }},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Name] = i
	}
	return idx
}()

// LookupField finds the attribute with the given column name.
func LookupField(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// ApplyUpdate coerces values onto sw. Keys are column names. Nothing is
// written unless every value is valid.
//
// Booleans accept "true" and "false" (empty means false). Integers default to
// 0 when empty. Keys are checked in sorted order so the reported error is
// stable.
func ApplyUpdate(sw *Switch, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := *sw
	for _, k := range keys {
		f, ok := LookupField(k)
		if !ok {
			return &apperr.FieldError{Field: k}
		}
		v := values[k]
		switch p := f.ref(&next).(type) {
		case *string:
			*p = v
		case *int:
			if v == "" {
				*p = 0
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return &apperr.FieldError{Field: k, Expected: f.Kind.String(), Value: v}
			}
			*p = n
		case *bool:
			switch v {
			case "true":
				*p = true
			case "false", "":
				*p = false
			default:
				return &apperr.FieldError{Field: k, Expected: f.Kind.String(), Value: v}
			}
		}
	}
	*sw = next
	return nil
}
