/*
Package req provides helper functions for HTTP request parsing and data binding.

It accepts the two encodings the web client uses for submissions, JSON and
URL-encoded forms, enforces a body size cap, and reports malformed input
through the errs package.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"glyphchat/internal/pkg/errs"
)

// MaxBodyBytes caps the request body size for submission requests. Chat
// messages are short; anything near this limit is abuse.
const MaxBodyBytes int64 = 64 << 10 // 64 KB

// BindJSON decodes the JSON request body into dst. Unknown fields and
// trailing content are rejected.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// ParseForm parses a URL-encoded request body, translating size-cap and
// syntax failures into the application error taxonomy.
func ParseForm(r *http.Request) *errs.CustomError {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// IsJSON reports whether the request declares a JSON body. An absent
// Content-Type is treated as a form post, matching the web client.
func IsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// LimitBody caps the request body at MaxBodyBytes. Must run before any
// body parsing.
func LimitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
}
