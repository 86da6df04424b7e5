package media

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/listenupapp/listenup-shelf/internal/errors"
)

// fields is a decoded JSON object whose member values are still raw.
type fields map[string]json.RawMessage

// parseObject decodes raw into its members. A JSON null or any non-object
// value is rejected.
func parseObject(what string, raw json.RawMessage) (fields, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.Decodef("%s: expected object, got null", what)
	}
	if trimmed[0] != '{' {
		return nil, errors.Decodef("%s: expected object", what)
	}
	var f fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, asDecodeError(what, err)
	}
	return f, nil
}

// has reports whether every key is present. Present-but-null counts as present.
func (f fields) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := f[k]; !ok {
			return false
		}
	}
	return true
}

// hasAny reports whether at least one key is present.
func (f fields) hasAny(keys ...string) bool {
	for _, k := range keys {
		if _, ok := f[k]; ok {
			return true
		}
	}
	return false
}

// isNull reports whether key is present with a JSON null value.
func (f fields) isNull(key string) bool {
	raw, ok := f[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// missing returns the keys that are absent, in the order given.
func (f fields) missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if _, ok := f[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// asDecodeError converts any error raised while decoding into a DecodeError,
// keeping the field path reported by encoding/json where there is one.
func asDecodeError(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errors.ErrDecode) {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = what
		}
		return errors.Wrapf(err, errors.CodeDecode, "%s: wrong kind for %q", what, field).
			WithDetails(map[string]string{
				"field":    field,
				"expected": typeErr.Type.String(),
				"got":      typeErr.Value,
			})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errors.Wrapf(err, errors.CodeDecode, "%s: malformed JSON at offset %d", what, syntaxErr.Offset)
	}

	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		return errors.Wrap(err, errors.CodeDecode, what).WithDetails(domainErr.Details)
	}

	return errors.Wrap(err, errors.CodeDecode, what)
}

func decodeMissing(what string, keys ...string) error {
	return errors.Decodef("%s: missing required field(s) %s", what, strings.Join(keys, ", ")).
		WithDetails(map[string]any{"missing": keys})
}

func decodeMismatch(what string, got, want MediaKind) error {
	return errors.Decodef("%s: payload is shaped like %s but %s was expected", what, got, want).
		WithDetails(map[string]string{"shape": string(got), "expected": string(want)})
}
