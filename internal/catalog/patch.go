package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Patch is a partial update keyed by wire field name.
type Patch map[string]json.RawMessage

// NewPatch builds a Patch from any JSON-encodable value.
func NewPatch(v interface{}) (Patch, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var p Patch
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("patch must be a JSON object: %w", err)
	}
	return p, nil
}

type FieldMode int

const (
	// FieldReplace overwrites the field with the supplied value.
	FieldReplace FieldMode = iota + 1
	// FieldMerge overwrites only the sub-fields present in the supplied group.
	FieldMerge
)

// UpdateTable says which payload fields an update may touch and how.
// Fields missing from the table are ignored.
type UpdateTable map[string]FieldMode

// AdminUpdateTable is the whitelist of the privileged update route.
var AdminUpdateTable = UpdateTable{
	"servicename":   FieldReplace,
	"description":   FieldReplace,
	"city":          FieldReplace,
	"cuisinetype":   FieldReplace,
	"rating":        FieldReplace,
	"pricing":       FieldReplace,
	"deliveryTimes": FieldReplace,
	"menu":          FieldReplace,
	"contact":       FieldReplace,
}

// MergeUpdateTable is used against the fallback cache: nested groups are
// merged sub-field by sub-field.
var MergeUpdateTable = UpdateTable{
	"servicename":   FieldReplace,
	"description":   FieldReplace,
	"city":          FieldReplace,
	"cuisinetype":   FieldReplace,
	"rating":        FieldReplace,
	"pricing":       FieldMerge,
	"deliveryTimes": FieldMerge,
	"menu":          FieldMerge,
	"contact":       FieldMerge,
}

type fieldBinding struct {
	target func(r *ServiceRecord) interface{}
	reset  func(r *ServiceRecord)
}

var fieldBindings = map[string]fieldBinding{
	"servicename": {target: func(r *ServiceRecord) interface{} { return &r.ServiceName }},
	"description": {target: func(r *ServiceRecord) interface{} { return &r.Description }},
	"city":        {target: func(r *ServiceRecord) interface{} { return &r.City }},
	"cuisinetype": {target: func(r *ServiceRecord) interface{} { return &r.CuisineType }},
	"rating":      {target: func(r *ServiceRecord) interface{} { return &r.Rating }},
	"pricing": {
		target: func(r *ServiceRecord) interface{} { return &r.Pricing },
		reset:  func(r *ServiceRecord) { r.Pricing = Pricing{} },
	},
	"deliveryTimes": {
		target: func(r *ServiceRecord) interface{} { return &r.DeliveryTimes },
		reset:  func(r *ServiceRecord) { r.DeliveryTimes = DeliveryTimes{} },
	},
	"menu": {
		target: func(r *ServiceRecord) interface{} { return &r.Menu },
		reset:  func(r *ServiceRecord) { r.Menu = Menu{} },
	},
	"contact": {
		target: func(r *ServiceRecord) interface{} { return &r.Contact },
		reset:  func(r *ServiceRecord) { r.Contact = Contact{} },
	},
}

var jsonNull = []byte("null")

// Apply returns a copy of rec with the patch applied according to table.
// The input record is left untouched. A null value is treated as absent.
func Apply(rec ServiceRecord, patch Patch, table UpdateTable) (ServiceRecord, error) {
	out := rec.Clone()
	for name, raw := range patch {
		mode, ok := table[name]
		if !ok {
			continue
		}
		binding, ok := fieldBindings[name]
		if !ok {
			continue
		}
		if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			continue
		}
		if mode == FieldReplace && binding.reset != nil {
			binding.reset(&out)
		}
		if err := json.Unmarshal(raw, binding.target(&out)); err != nil {
			return rec, fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	out.Normalize()
	if err := out.Validate(); err != nil {
		return rec, err
	}
	return out, nil
}

// Fields lists the patch keys the table accepts, for logging.
func (t UpdateTable) Fields(p Patch) []string {
	fields := make([]string, 0, len(p))
	for name := range p {
		if _, ok := t[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}
