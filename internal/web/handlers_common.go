package web

// handlers_common.go contains shared request parsing and response helpers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxJSONBody caps CRUD payloads.
const maxJSONBody = 1 << 20

// xlsxContentType is the media type of every spreadsheet download.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// queryInt parses an integer query parameter. A missing value yields def;
// a malformed one, or one outside [lo, hi], is a request error.
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < lo || i > hi {
		return 0, badRequest("query parameter %q must be an integer between %d and %d", name, lo, hi)
	}
	return i, nil
}

// registroID parses the {id} path parameter.
func registroID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid registro id %q", raw)
	}
	return id, nil
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return badRequest("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		default:
			return badRequest("invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// sendFile writes data as a spreadsheet attachment.
func sendFile(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// sheetNames collects the requested sheets from the "sheets" form values,
// keeping their order. Repeated values are sheet names taken verbatim. A
// single value is read as a comma separated list with each name trimmed.
// Whitespace-only names are dropped.
func sheetNames(values []string) []string {
	if len(values) == 1 {
		values = strings.Split(values[0], ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
	}

	var names []string
	for _, name := range values {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	return names
}
