package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Year is a model year. The backend stores it as a string while clients send
// a number, so it decodes from either and encodes as a number when possible.
type Year string

// Int returns the numeric year, or zero if the value is not numeric.
func (y Year) Int() int {
	n, err := strconv.Atoi(string(y))
	if err != nil {
		return 0
	}

	return n
}

func (y Year) MarshalJSON() ([]byte, error) {
	if y == "" {
		return []byte("null"), nil
	}

	n, err := strconv.Atoi(string(y))
	if err != nil {
		return json.Marshal(string(y))
	}

	return []byte(strconv.Itoa(n)), nil
}

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*y = ""
		return nil

	case len(b) > 0 && b[0] == '"':
		var s string

		err := json.Unmarshal(b, &s)
		if err != nil {
			return fmt.Errorf("decode year: %w", err)
		}

		*y = Year(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return fmt.Errorf("decode year: %w", err)
	}

	*y = Year(n.String())

	return nil
}

func (y Year) MarshalYAML() (any, error) {
	if y == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(string(y))
	if err != nil {
		return string(y), nil
	}

	return n, nil
}

func (y *Year) UnmarshalYAML(unmarshal func(any) error) error {
	var v any

	err := unmarshal(&v)
	if err != nil {
		return fmt.Errorf("decode year: %w", err)
	}

	if v == nil {
		*y = ""
		return nil
	}

	*y = Year(fmt.Sprint(v))

	return nil
}
