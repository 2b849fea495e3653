package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// StatusError is returned for any non-2xx response
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}

// decodeList accepts either a bare JSON array or a paginated {"results": [...]}
// envelope and returns the same slice for both.
func decodeList[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}

	switch data[0] {
	case '[':
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, errors.Wrap(err, "decode list envelope")
		}
		results, ok := env["results"]
		if !ok {
			return nil, errors.New("list response has no results field")
		}
		data = bytes.TrimSpace(results)
		if bytes.Equal(data, []byte("null")) {
			return []T{}, nil
		}
	default:
		return nil, errors.New("list response is neither an array nor an envelope")
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decode list")
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
