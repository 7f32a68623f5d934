package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/validation"
)

const maxJSONBody = 1 << 20

// decodeJSON validates the body against schema before decoding into dst.
func decodeJSON(r *http.Request, schema *validation.Schema, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
	if err != nil {
		return errors.NewValidationError("Could not read request body", err.Error())
	}
	if len(body) > maxJSONBody {
		return errors.NewPayloadTooLargeError(maxJSONBody)
	}

	if result := schema.ValidateJSON(body); !result.Valid {
		return errors.NewValidationError(result.Summary(), schema.Name()).
			WithMetadata("errors", result.Errors)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError(fmt.Sprintf("Invalid id %q", raw), err.Error())
	}
	return id, nil
}
