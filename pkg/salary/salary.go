// Package salary models the two-element [min, max] salary range.
package salary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrLength   = errors.New("диапазон зарплаты должен содержать ровно два числа")
	ErrNegative = errors.New("зарплата не может быть отрицательной")
	ErrOrder    = errors.New("минимальная зарплата больше максимальной")
)

// Pair is stored as an int array of length two.
type Pair struct {
	Min int
	Max int
}

// View is the client-facing shape.
type View struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FromSlice converts a stored array; nil/empty means absent.
func FromSlice(v []int32) (*Pair, error) {
	if len(v) == 0 {
		return nil, nil
	}
	if len(v) != 2 {
		return nil, ErrLength
	}
	return &Pair{Min: int(v[0]), Max: int(v[1])}, nil
}

// Slice is the storage form; a nil pair stores NULL.
func (p *Pair) Slice() []int32 {
	if p == nil {
		return nil
	}
	return []int32{int32(p.Min), int32(p.Max)}
}

func (p *Pair) Validate() error {
	if p == nil {
		return nil
	}
	if p.Min < 0 || p.Max < 0 {
		return ErrNegative
	}
	if p.Min > p.Max {
		return ErrOrder
	}
	return nil
}

func (p *Pair) View() *View {
	if p == nil {
		return nil
	}
	return &View{Min: p.Min, Max: p.Max}
}

// UnmarshalJSON accepts [min, max] as well as {"min":..,"max":..}.
func (p *Pair) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var v View
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*p = Pair{Min: v.Min, Max: v.Max}
		return nil
	}
	var arr []int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("salary: %w", err)
	}
	if len(arr) != 2 {
		return ErrLength
	}
	*p = Pair{Min: arr[0], Max: arr[1]}
	return nil
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(View{Min: p.Min, Max: p.Max})
}
