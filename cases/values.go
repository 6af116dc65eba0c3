package cases

import (
	"encoding/json"
	"fmt"
)

// The field types below hold one parameter's value(s): a single element
// applies to every case in a study, multiple elements give one value per
// case. In YAML either a scalar or a list is accepted; single-element lists
// collapse to a scalar on output.

type Nums []float64

func (v Nums) Len() int { return len(v) }

// At returns the value for case i, broadcasting a single value.
func (v Nums) At(i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func (v *Nums) UnmarshalJSON(b []byte) error {
	return unmarshalScalarOrList(b, (*[]float64)(v))
}

func (v Nums) MarshalJSON() ([]byte, error) {
	return marshalScalarOrList([]float64(v))
}

type Bools []bool

func (v Bools) Len() int { return len(v) }

func (v Bools) At(i int) bool {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func (v *Bools) UnmarshalJSON(b []byte) error {
	return unmarshalScalarOrList(b, (*[]bool)(v))
}

func (v Bools) MarshalJSON() ([]byte, error) {
	return marshalScalarOrList([]bool(v))
}

type Strings []string

func (v Strings) Len() int { return len(v) }

func (v Strings) At(i int) string {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func (v *Strings) UnmarshalJSON(b []byte) error {
	return unmarshalScalarOrList(b, (*[]string)(v))
}

func (v Strings) MarshalJSON() ([]byte, error) {
	return marshalScalarOrList([]string(v))
}

func unmarshalScalarOrList[T any](b []byte, out *[]T) error {
	if string(b) == "null" {
		*out = nil
		return nil
	}
	var list []T
	if err := json.Unmarshal(b, &list); err == nil {
		*out = list
		return nil
	}
	var single T
	if err := json.Unmarshal(b, &single); err != nil {
		return fmt.Errorf("expected scalar or list: %v", err)
	}
	*out = []T{single}
	return nil
}

func marshalScalarOrList[T any](v []T) ([]byte, error) {
	switch len(v) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(v[0])
	default:
		return json.Marshal(v)
	}
}
