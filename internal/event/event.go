// Package event models the platform invocation envelope: the inbound
// payload delivered by the hosting compute platform and the outbound
// statusCode/headers/body shape it expects back.
package event

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Envelope is the outbound response shape expected by the invocation layer.
type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// JSON returns an envelope with a JSON content type and the given body.
func JSON(statusCode int, body []byte) Envelope {
	return Envelope{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// ErrorJSON returns a JSON envelope carrying {"error": message}.
func ErrorJSON(statusCode int, message string) Envelope {
	body, _ := json.Marshal(map[string]string{"error": message})
	return JSON(statusCode, body)
}

// extractor attempts to resolve the query text from one location in the
// payload. ok reports whether this location was present, claiming the
// payload even when the resolved query turns out empty.
type extractor func(payload []byte) (query string, ok bool)

// extractors are tried in order; the first one that claims the payload
// wins. Mirrors API Gateway payload precedence: a proxied HTTP body,
// then query string parameters, then a direct invocation field.
var extractors = []extractor{
	fromBody,
	fromQueryStringParameters,
	fromTopLevel,
}

// ExtractQuery resolves the user query text from an invocation payload.
// A payload with no usable query, including a body that fails to parse as
// JSON, yields the empty string.
func ExtractQuery(payload []byte) string {
	for _, extract := range extractors {
		if q, ok := extract(payload); ok {
			return q
		}
	}
	return ""
}

// fromBody handles proxied HTTP invocations where the request body arrives
// as a JSON-encoded string under "body". A present, non-empty body claims
// the payload; an unparseable one resolves to an empty query rather than a
// distinct error.
func fromBody(payload []byte) (string, bool) {
	body := gjson.GetBytes(payload, "body")
	if !body.Exists() || body.String() == "" {
		return "", false
	}
	if !gjson.Valid(body.String()) {
		return "", true
	}
	return gjson.Get(body.String(), "query").String(), true
}

func fromQueryStringParameters(payload []byte) (string, bool) {
	params := gjson.GetBytes(payload, "queryStringParameters")
	if !params.Exists() || !params.IsObject() || len(params.Map()) == 0 {
		return "", false
	}
	return params.Get("query").String(), true
}

// fromTopLevel handles direct invocations carrying the query at the root
// of the payload.
func fromTopLevel(payload []byte) (string, bool) {
	if !gjson.ValidBytes(payload) {
		return "", false
	}
	return gjson.GetBytes(payload, "query").String(), true
}
