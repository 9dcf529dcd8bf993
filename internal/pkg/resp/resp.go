/*
Package resp provides helper functions for writing HTTP responses.

The relay protocol is deliberately plain: successful requests receive the raw
JSON payload (no envelope), policy rejections receive a plain-text diagnostic
with the matching HTTP status, and command handling receives an empty body.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"glyphchat/internal/pkg/errs"
	"glyphchat/internal/pkg/logx"
)

// RespondJSON writes the payload as a JSON body with the given HTTP status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondEmpty writes an HTTP 200 with an empty body. Used for slash-command
// requests, which acknowledge without returning the message log.
func RespondEmpty(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// RespondError writes the error's plain-text message with its HTTP status.
// Clients display the diagnostic text verbatim.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(customErr.Status)
	w.Write([]byte(customErr.Message))
}
