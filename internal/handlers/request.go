package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/views"
)

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Validation("malformed JSON body")
	}
	return nil
}

// required rejects empty or unstorable values of the named fields.
// Pairs are name, value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return errs.Validation(pairs[i] + " is required")
		}
	}
	return storable(pairs...)
}

// storable rejects values Postgres text columns cannot hold: invalid UTF-8
// and NUL characters. Pairs are name, value.
func storable(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		v := pairs[i+1]
		if !utf8.ValidString(v) || strings.ContainsRune(v, 0) {
			return errs.Validation(pairs[i] + " must be valid UTF-8 without NUL characters")
		}
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// parseInclude reads the include query parameter. Values may be repeated,
// comma-separated, or both.
func parseInclude(r *http.Request) (views.Include, error) {
	var inc views.Include
	for _, raw := range r.URL.Query()["include"] {
		for _, v := range strings.Split(raw, ",") {
			switch strings.TrimSpace(v) {
			case "":
			case "messages":
				inc.Messages = true
			case "users":
				inc.Users = true
			default:
				return views.Include{}, errs.Validation(fmt.Sprintf("unknown include value %q", strings.TrimSpace(v)))
			}
		}
	}
	return inc, nil
}
