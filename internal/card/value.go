package card

import (
	"encoding/json"
	"math"

	"github.com/valyala/fastjson"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Absent Kind = iota
	Number
	Text
	Boolean
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return "absent"
	}
}

// Value is a lifted JSON leaf. The zero Value is Absent, which is what null,
// missing keys, out-of-range indexes and type mismatches resolve to.
type Value struct {
	kind  Kind
	num   float64
	text  string
	flag  bool
	items []Value
	raw   string
}

// NumberValue returns a Number.
func NumberValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: Number, num: f}
}

// TextValue returns a Text.
func TextValue(s string) Value { return Value{kind: Text, text: s} }

// BoolValue returns a Boolean.
func BoolValue(b bool) Value { return Value{kind: Boolean, flag: b} }

// ListValue returns a List of the given items.
func ListValue(items ...Value) Value { return Value{kind: List, items: items} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == Absent }

// Float returns the number and true when v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	return v.num, true
}

// Str returns the text and true when v is Text.
func (v Value) Str() (string, bool) {
	if v.kind != Text {
		return "", false
	}
	return v.text, true
}

// Bool returns the flag and true when v is a Boolean.
func (v Value) Bool() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.flag, true
}

// Items returns the elements of a List, nil otherwise.
func (v Value) Items() []Value {
	if v.kind != List {
		return nil
	}
	return v.items
}

// JSON returns the compact JSON source of an Object or List. Other kinds
// return "".
func (v Value) JSON() string { return v.raw }

// IsInteger reports whether v is a Number with no fractional part.
func (v Value) IsInteger() bool {
	return v.kind == Number && v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53
}

// Empty reports whether v is Absent, an empty string, an empty list or an
// empty object.
func (v Value) Empty() bool {
	switch v.kind {
	case Absent:
		return true
	case Text:
		return v.text == ""
	case List:
		return len(v.items) == 0
	case Object:
		return v.raw == "{}"
	}
	return false
}

func lift(fv *fastjson.Value) Value {
	if fv == nil {
		return Value{}
	}
	switch fv.Type() {
	case fastjson.TypeNumber:
		f, err := fv.Float64()
		if err != nil {
			return Value{}
		}
		return NumberValue(f)
	case fastjson.TypeString:
		b, err := fv.StringBytes()
		if err != nil {
			return Value{}
		}
		return TextValue(string(b))
	case fastjson.TypeTrue:
		return BoolValue(true)
	case fastjson.TypeFalse:
		return BoolValue(false)
	case fastjson.TypeArray:
		arr, _ := fv.Array()
		items := make([]Value, 0, len(arr))
		for _, el := range arr {
			items = append(items, lift(el))
		}
		return Value{kind: List, items: items, raw: fv.String()}
	case fastjson.TypeObject:
		return Value{kind: Object, raw: fv.String()}
	}
	return Value{}
}

// Interface converts v to plain Go values: nil, float64, string, bool,
// []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case Number:
		return v.num
	case Text:
		return v.text
	case Boolean:
		return v.flag
	case List:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		var m map[string]any
		if err := json.Unmarshal([]byte(v.raw), &m); err != nil {
			return nil
		}
		return m
	}
	return nil
}

// MarshalJSON encodes Absent as null and an Object as its source JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == Object {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.Interface())
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
