package extract

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/sells-group/consult-cli/internal/model"
)

// Shape is the structure of an LLM response, decided after the single-key
// unwrap step.
type Shape int

const (
	ShapeInvalid     Shape = iota
	ShapeWrappedList       // {"items": [{...}, ...]}
	ShapeBareList          // [{...}, ...]
	ShapeBareObject        // {...}, one record
)

func (s Shape) String() string {
	switch s {
	case ShapeWrappedList:
		return "wrapped_list"
	case ShapeBareList:
		return "bare_list"
	case ShapeBareObject:
		return "bare_object"
	default:
		return "invalid"
	}
}

// Normalize parses an LLM response and flattens it into a Table. Record order
// follows the source array.
func Normalize(text string) (*model.Table, Shape, error) {
	if err := json.Unmarshal([]byte(text), new(json.RawMessage)); err != nil {
		return nil, ShapeInvalid, &ParseError{Err: err}
	}

	value, unwrapped := unwrapSingleKey(gjson.Parse(text))

	shape := classify(value, unwrapped)
	switch shape {
	case ShapeWrappedList, ShapeBareList:
		records, err := recordsFromList(value)
		if err != nil {
			return nil, ShapeInvalid, err
		}
		return model.NewTable(records), shape, nil
	case ShapeBareObject:
		return model.NewTable([]model.Record{recordFromObject(value)}), shape, nil
	default:
		return nil, ShapeInvalid, &ShapeError{
			Reason: fmt.Sprintf("expected a list of objects or an object, got %s", kindOf(value)),
		}
	}
}

// unwrapSingleKey replaces an object that has exactly one key with that key's
// value. It descends one level only and does not look at what the value is.
// Repeated keys count once and the last occurrence wins, as with a decoded map.
func unwrapSingleKey(v gjson.Result) (gjson.Result, bool) {
	if !v.IsObject() {
		return v, false
	}
	var (
		name string
		only gjson.Result
		many bool
	)
	first := true
	v.ForEach(func(key, val gjson.Result) bool {
		if !first && key.String() != name {
			many = true
			return false
		}
		first = false
		name = key.String()
		only = val
		return true
	})
	if first || many {
		return v, false
	}
	return only, true
}

func classify(v gjson.Result, unwrapped bool) Shape {
	switch {
	case v.IsArray() && unwrapped:
		return ShapeWrappedList
	case v.IsArray():
		return ShapeBareList
	case v.IsObject():
		return ShapeBareObject
	default:
		return ShapeInvalid
	}
}

func recordsFromList(v gjson.Result) ([]model.Record, error) {
	elems := v.Array()
	records := make([]model.Record, 0, len(elems))
	for i, el := range elems {
		if !el.IsObject() {
			return nil, &ShapeError{
				Reason: fmt.Sprintf("list element %d is %s, not an object", i, kindOf(el)),
			}
		}
		records = append(records, recordFromObject(el))
	}
	return records, nil
}

func recordFromObject(v gjson.Result) model.Record {
	rec := model.Record{}
	v.ForEach(func(key, val gjson.Result) bool {
		rec = rec.Set(key.String(), cellValue(val))
		return true
	})
	return rec
}

// cellValue renders a JSON value as a table cell. Nested objects and arrays
// pass through as compact JSON.
func cellValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw
	default:
		return string(pretty.Ugly([]byte(v.Raw)))
	}
}

func kindOf(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "a list"
	case v.IsObject():
		return "an object"
	}
	switch v.Type {
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	case gjson.Null:
		return "null"
	}
	return "an unknown value"
}
