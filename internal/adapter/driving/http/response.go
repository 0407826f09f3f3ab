package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/clssupply/idscanpro/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// decodeRequest is the body of POST /decode and POST /scans: the raw
// text handed over by the barcode acquisition collaborator.
type decodeRequest struct {
	RawPayload string `json:"raw_payload"`
}

// decodeResponse carries a decode preview; nothing is persisted.
type decodeResponse struct {
	Fields []model.DecodedField `json:"fields"`
}

// updateScanRequest mutates the only two mutable scan attributes.
// Nil means "leave untouched"; an empty value clears.
type updateScanRequest struct {
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags"`
}
