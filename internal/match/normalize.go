package match

import (
	"encoding/json"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// TagRef is a tag reference as delivered by the external user service.
// Historical records carry tags either as raw identifier strings or as
// resolved objects with an identifier field; both decode to the
// canonical identifier here, so comparison sites never type-probe.
type TagRef struct {
	ID string
}

func (t *TagRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.ID = s
		return nil
	}

	var obj struct {
		ID  string `json:"id"`
		Alt string `json:"_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ID != "" {
		t.ID = obj.ID
	} else {
		t.ID = obj.Alt
	}
	return nil
}

// Normalize reduces tag references to their canonical identifiers,
// dropping unresolvable entries.
func Normalize(refs []TagRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// ParseTags decodes a raw JSON tag array in either legacy shape into
// canonical identifiers. Empty input yields nil.
func ParseTags(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var refs []TagRef
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, domain.InvalidArgumentError{Reason: "malformed tag list"}
	}
	return Normalize(refs), nil
}
