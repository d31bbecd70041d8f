package teamkill

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// CreatedList is the response of owner_create.
type CreatedList struct {
	Slug       string `json:"slug"`
	OwnerToken string `json:"owner_token"`
	Links      struct {
		Count string `json:"count"`
	} `json:"links"`
}

// OwnerSettings is the owner-scoped settings document.
type OwnerSettings struct {
	CountToken string `json:"count_token"`
}

// DeltaResult is the response of delta_post.
type DeltaResult struct {
	Count int64 `json:"count"`
}

type listResponse struct {
	List *struct {
		Name string `json:"name"`
	} `json:"list"`
	People []personJSON `json:"people"`
}

type personJSON struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	Count flexInt    `json:"count"`
}

type resolveResponse struct {
	Slug flexString `json:"slug"`
}

type deltaRequest struct {
	Slug     string `json:"slug"`
	PersonID int64  `json:"person_id"`
	Delta    int    `json:"delta"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string. Anything else decodes as 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(string(s), 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(string(s), 64); err == nil {
		*f = flexInt(int64(fl))
		return nil
	}
	*f = 0
	return nil
}
