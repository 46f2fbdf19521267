// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/vastra/pkg/validate"
)

// Cart and order payloads are tiny; anything near this cap is abuse.
const maxBodyBytes = 1 << 20 // 1 MB

// JSON decodes r.Body into dest and validates it. Field-level failures
// come back in errs with err nil; a malformed or oversized body comes
// back in err alone.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close() //nolint:errcheck

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
