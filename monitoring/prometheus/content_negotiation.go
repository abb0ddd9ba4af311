package prometheus

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/golang/gddo/httputil"
	"github.com/pkg/errors"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

// generatedResponse wraps handler output before serialization.
type generatedResponse struct {
	// Err holds a protocol level error, if any.
	Err string `json:"error"`

	// Data is the handler payload.
	Data interface{} `json:"data"`
}

// negotiateContentType inspects the request's "Accept:" header, falling back
// to plain text when the client has no preference.
func negotiateContentType(r *http.Request) string {
	offers := []string{contentTypePlainText, contentTypeJSON}
	return httputil.NegotiateContentType(r, offers, contentTypePlainText)
}

// writeResponse serializes the response in the client's negotiated content type.
func writeResponse(w http.ResponseWriter, r *http.Request, response generatedResponse) error {
	switch negotiateContentType(r) {
	case contentTypeJSON:
		w.Header().Set("Content-Type", contentTypeJSON)
		return json.NewEncoder(w).Encode(response)
	default:
		buf, ok := response.Data.(bytes.Buffer)
		if !ok {
			return errors.Errorf("unexpected data: %v", response.Data)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.Wrap(err, "could not write response body")
		}
	}
	return nil
}
