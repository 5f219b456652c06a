package catalog

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// NoCharactersFound is reported when a multi-id lookup matches nothing.
const NoCharactersFound = "No characters found"

// Verdict is the outcome of classifying an upstream body.
type Verdict struct {
	// Absent is set when the upstream reports that nothing matched.
	Absent bool

	// Message is the text surfaced to the client when Absent is set.
	Message string
}

// A Classifier inspects a raw upstream body. It returns an error only when
// the body cannot be interpreted at all.
type Classifier func(body []byte) (Verdict, error)

// ClassifyErrorField reports absence when the body is an object carrying an
// "error" member. The listing and single-id endpoints signal "not found" this
// way.
func ClassifyErrorField(body []byte) (Verdict, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return Verdict{}, errors.Wrap(err, "decoding upstream body")
	}
	if probe == nil {
		return Verdict{}, errors.New("decoding upstream body: expected an object, got null")
	}

	raw, ok := probe["error"]
	if !ok {
		return Verdict{}, nil
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		msg = string(raw)
	}
	return Verdict{Absent: true, Message: msg}, nil
}

// ClassifyNonEmptyList reports absence unless the body is a non-empty array.
// The multi-id endpoint answers a miss with an empty array.
func ClassifyNonEmptyList(body []byte) (Verdict, error) {
	if !json.Valid(body) {
		return Verdict{}, errors.New("decoding upstream body: invalid JSON")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return Verdict{Absent: true, Message: NoCharactersFound}, nil
	}
	return Verdict{}, nil
}
