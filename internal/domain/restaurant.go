package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Restaurant struct {
	ID             Ident             `json:"id"`
	Name           string            `json:"name"`
	CuisineType    string            `json:"cuisine_type"`
	Neighborhood   string            `json:"neighborhood"`
	Address        string            `json:"address,omitempty"`
	LatLng         LatLng            `json:"latlng"`
	Photograph     *Ident            `json:"photograph,omitempty"`
	OperatingHours map[string]string `json:"operating_hours,omitempty"`
	RawJSON        []byte            `json:"-"` // record exactly as the remote service sent it
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ident is an id-like value the remote service sends either as a JSON number or a string.
type Ident string

func (i *Ident) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = Ident(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// objects, arrays and booleans carry no usable id
		*i = ""
		return nil
	}
	*i = Ident(n.String())
	return nil
}

// MarshalJSON writes integral idents back as numbers.
func (i Ident) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(i), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(i) {
		return []byte(string(i)), nil
	}
	return json.Marshal(string(i))
}

func (i Ident) String() string { return string(i) }

// LooseEquals matches the way ids arrive from query strings: equal text, or equal numeric value
// once surrounding whitespace is ignored ("3", " 3" and "3.0" all equal 3).
func (i Ident) LooseEquals(s string) bool {
	if string(i) == s {
		return true
	}
	a, errA := strconv.ParseFloat(strings.TrimSpace(string(i)), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return errA == nil && errB == nil && a == b
}

// less orders numeric ids numerically and everything else lexically.
func (i Ident) less(o Ident) bool {
	a, errA := strconv.ParseFloat(string(i), 64)
	b, errB := strconv.ParseFloat(string(o), 64)
	switch {
	case errA == nil && errB == nil:
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return i < o
}

// DecodeRestaurant keys one remote record by its id and keeps its raw bytes. The remote service
// owns the schema: a field whose shape does not match keeps its zero value, and only a record
// that is not a JSON object or has no usable id is an error.
func DecodeRestaurant(raw []byte) (Restaurant, error) {
	var r Restaurant
	if err := json.Unmarshal(raw, &r); err != nil {
		var te *json.UnmarshalTypeError
		if !errors.As(err, &te) || te.Field == "" {
			return Restaurant{}, fmt.Errorf("decode restaurant: %w", err)
		}
	}
	if r.ID == "" {
		return Restaurant{}, fmt.Errorf("decode restaurant: missing id")
	}
	r.RawJSON = append([]byte(nil), raw...)
	return r, nil
}

// Raw returns the cached representation of r: the remote bytes when known, else r re-encoded.
func (r Restaurant) Raw() ([]byte, error) {
	if len(r.RawJSON) > 0 {
		return r.RawJSON, nil
	}
	return json.Marshal(r)
}

// SortByID orders restaurants the way an object store returns them: ascending by key.
func SortByID(rs []Restaurant) {
	sort.SliceStable(rs, func(a, b int) bool { return rs[a].ID.less(rs[b].ID) })
}
