package domain

import "encoding/json"

// ParentID is a folder reference. The root is serialized as the number 0
// while real parents are serialized as their id string; requests may carry
// either form.
type ParentID string

const RootParentID ParentID = "0"

func (p ParentID) IsRoot() bool {
	return p == "" || p == RootParentID
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ParentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = ParentID(n.String())
	return nil
}

func (p ParentID) String() string {
	if p == "" {
		return string(RootParentID)
	}
	return string(p)
}

// ParseParentID normalizes a query-string value.
func ParseParentID(raw string) ParentID {
	if raw == "" || raw == "0" {
		return RootParentID
	}
	return ParentID(raw)
}
