package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"dataproof/pkg/platform/sentinel"
)

// Submission is one contributor's data bundle as received from the marketplace.
// It is immutable once parsed.
type Submission struct {
	ID            string         `json:"submissionId,omitempty"`
	WalletAddress string         `json:"walletAddress"`
	Contributions []Contribution `json:"contribution"`
}

// SubTypes returns the distinct sub-types in submission order.
func (s *Submission) SubTypes() []string {
	seen := make(map[string]struct{}, len(s.Contributions))
	out := make([]string, 0, len(s.Contributions))
	for _, c := range s.Contributions {
		if c.SubType == "" {
			continue
		}
		if _, ok := seen[c.SubType]; ok {
			continue
		}
		seen[c.SubType] = struct{}{}
		out = append(out, c.SubType)
	}
	return out
}

// Contribution is one platform-specific claim inside a submission.
type Contribution struct {
	Type              string         `json:"type"`
	SubType           string         `json:"taskSubType"`
	SecuredSharedData map[string]any `json:"securedSharedData"`
	Witnesses         Witnesses      `json:"witnesses"`
}

// UnmarshalJSON decodes a contribution leniently. Fields with the wrong shape
// are left empty instead of failing the whole submission.
func (c *Contribution) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type              json.RawMessage `json:"type"`
		TaskSubType       json.RawMessage `json:"taskSubType"`
		SubType           json.RawMessage `json:"subType"`
		SecuredSharedData json.RawMessage `json:"securedSharedData"`
		Witnesses         Witnesses       `json:"witnesses"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Contribution{
		Type:              lenientString(raw.Type),
		SubType:           lenientString(raw.TaskSubType),
		SecuredSharedData: lenientObject(raw.SecuredSharedData),
		Witnesses:         raw.Witnesses,
	}
	if c.SubType == "" {
		c.SubType = lenientString(raw.SubType)
	}
	return nil
}

// Witnesses holds the attestation endpoints of a contribution. The wire format
// is either a single string or a list of strings.
type Witnesses []string

// UnmarshalJSON accepts a string, a list of strings, or anything else as empty.
func (w *Witnesses) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*w = nil
			return nil
		}
		*w = Witnesses{single}
		return nil
	}

	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		out := make(Witnesses, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*w = out
		return nil
	}

	*w = nil
	return nil
}

// ParseSubmission decodes a submission document. Only a document that is not a
// JSON object at all is an error; a missing or malformed contribution list
// yields a submission with no contributions.
func ParseSubmission(data []byte) (*Submission, error) {
	var raw struct {
		SubmissionID  json.RawMessage `json:"submissionId"`
		WalletAddress json.RawMessage `json:"walletAddress"`
		Contribution  json.RawMessage `json:"contribution"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse submission: %w: %v", sentinel.ErrInvalidInput, err)
	}

	sub := &Submission{
		ID:            lenientString(raw.SubmissionID),
		WalletAddress: lenientString(raw.WalletAddress),
	}

	var items []json.RawMessage
	if len(raw.Contribution) == 0 || json.Unmarshal(raw.Contribution, &items) != nil {
		return sub, nil
	}

	sub.Contributions = make([]Contribution, 0, len(items))
	for _, item := range items {
		var c Contribution
		if err := decodeNumbers(item, &c); err != nil {
			continue
		}
		sub.Contributions = append(sub.Contributions, c)
	}
	return sub, nil
}

// decodeNumbers keeps numeric literals as json.Number so that re-serialising a
// value for hashing reproduces the submitted text.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func lenientString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func lenientObject(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := decodeNumbers(raw, &obj); err != nil {
		return nil
	}
	return obj
}
