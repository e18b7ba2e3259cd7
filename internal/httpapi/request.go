package httpapi

import (
	"encoding/json"
	"fmt"
)

// parsedRequest is the trivial body adapter spec.md §1 calls out of scope
// for the core: a request body is either a bare JSON document (labeled
// with the server's default langs) or {"data": <doc>, "langs": [...]}.
// spec.md §6.
type parsedRequest struct {
	Data  any
	Langs []string
}

// parseError marks a failure that occurred while adapting the request body
// itself (invalid JSON, wrong shape for "langs") — spec.md §7's "Request-
// parsing failures... yield HTTP 400 with a textual reason". Any other
// error (labeling, pass/form-conversion failures) is not a parseError and
// must surface as 500 instead.
type parseError struct {
	msg string
}

func (e *parseError) Error() string { return e.msg }

func newParseError(format string, args ...any) error {
	return &parseError{msg: fmt.Sprintf(format, args...)}
}

// parseRequestBody mirrors original_source/src/main.rs's request_wrapper:
// the "data"/"langs" envelope is only recognized when BOTH keys are
// present together; otherwise the entire decoded value — envelope-shaped
// object included — is the literal document to label.
func parseRequestBody(body []byte, defaultLangs []string) (parsedRequest, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return parsedRequest{}, newParseError("invalid JSON body: %v", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return parsedRequest{Data: raw, Langs: defaultLangs}, nil
	}

	dataVal, hasData := obj["data"]
	langsVal, hasLangs := obj["langs"]
	if !hasData || !hasLangs {
		// Not an envelope unless both keys are present together — the
		// whole object is the document to label.
		return parsedRequest{Data: raw, Langs: defaultLangs}, nil
	}

	rawLangs, ok := langsVal.([]any)
	if !ok {
		return parsedRequest{}, newParseError(`value of "langs" should be an array of string`)
	}
	langs := make([]string, len(rawLangs))
	for i, l := range rawLangs {
		s, ok := l.(string)
		if !ok {
			return parsedRequest{}, newParseError(`value of "langs" should be an array of string`)
		}
		langs[i] = s
	}
	return parsedRequest{Data: dataVal, Langs: langs}, nil
}
