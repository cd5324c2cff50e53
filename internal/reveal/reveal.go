// Package reveal encodes a single giver/receiver pair into an opaque, URL-safe token
// and decodes it back without any server-side state.
//
// Tokens are obfuscated, not signed. Anyone holding one can read it, and anyone
// can forge one.
package reveal

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"

	"santa/internal/models"
)

// FormatTag marks a payload as one of ours.
const FormatTag = "secret-santa"

type payload struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
	Prefix   string `json:"prefix"`
}

// Encode returns the reveal token for giver -> receiver.
// Names must be valid UTF-8; invalid bytes come back from Decode as U+FFFD.
func Encode(giver, receiver string) string {
	// Marshalling a struct of strings cannot fail.
	raw, _ := json.Marshal(payload{Giver: giver, Receiver: receiver, Prefix: FormatTag})
	return url.PathEscape(base64.RawURLEncoding.EncodeToString(raw))
}

// Decode returns the pair carried by token. The second result is false for any
// token that is not percent-decodable, not base64, not the expected JSON record,
// or carries the wrong format tag.
func Decode(token string) (models.Pair, bool) {
	unescaped, err := url.PathUnescape(token)
	if err != nil {
		return models.Pair{}, false
	}

	raw, ok := decodeBase64(unescaped)
	if !ok {
		return models.Pair{}, false
	}

	p, ok := decodePayload(raw)
	if !ok || p.Prefix != FormatTag || p.Giver == "" || p.Receiver == "" {
		return models.Pair{}, false
	}

	return models.Pair{Giver: p.Giver, Receiver: p.Receiver}, true
}

// decodePayload parses exactly one JSON object holding exactly the keys giver,
// receiver and prefix, matched case-sensitively, each a string.
func decodePayload(raw []byte) (payload, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return payload{}, false
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return payload{}, false
	}
	if len(fields) != 3 {
		return payload{}, false
	}

	var p payload
	for key, dst := range map[string]*string{
		"giver":    &p.Giver,
		"receiver": &p.Receiver,
		"prefix":   &p.Prefix,
	} {
		value, ok := fields[key]
		if !ok || json.Unmarshal(value, dst) != nil {
			return payload{}, false
		}
	}
	return p, true
}

// decodeBase64 accepts the URL-safe and the standard alphabet, padded or not.
func decodeBase64(s string) ([]byte, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, false
	}
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Link joins baseURL and token into a shareable reveal URL.
func Link(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/reveal/" + token
}
