package internal

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrPayloadTooLarge is returned when the request body exceeds the size limit
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrEmptyBody is returned when the request carries no body at all
var ErrEmptyBody = errors.New("empty body")

// ReadBodyStrict reads the request body and validates it's not empty.
// Enforces a size limit to prevent memory exhaustion attacks (DoS protection).
func ReadBodyStrict(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrPayloadTooLarge, limit)
		}
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}

// FormDecoder turns a raw request body into flat field/value pairs.
type FormDecoder interface {
	Decode(body []byte) (map[string]string, error)
}

// URLEncodedDecoder decodes application/x-www-form-urlencoded bodies.
// Repeated keys keep their first value.
type URLEncodedDecoder struct{}

// Decode implements FormDecoder.
func (URLEncodedDecoder) Decode(body []byte) (map[string]string, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		} else {
			fields[k] = ""
		}
	}
	return fields, nil
}

// SetSecurityHeaders marks provider-facing responses as uncacheable.
func SetSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
