package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/daterange"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/ptr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, v *validator.DefaultValidator, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return fmt.Errorf("decode body: %w", err)
		}
		// Unknown fields, oversize bodies and malformed decimals.
		return apperr.ValidationErr.WithMsg(err.Error()).WrapParent(err)
	}

	if err := v.Validate(dst); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}

	return nil
}

// pathParam binds a simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var dest string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &dest,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", &apierr.InvalidParamError{ParamName: name, Err: err}
	}
	return dest, nil
}

// queryParam binds an optional form-style query parameter. A missing
// parameter yields the zero value.
func queryParam[T any](r *http.Request, name string) (T, error) {
	var dest *T
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &dest); err != nil {
		var zero T
		return zero, &apierr.InvalidParamError{ParamName: name, Err: err}
	}
	return ptr.Deref(dest), nil
}

// parseEntryDate parses an optional ledger entry date.
func parseEntryDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := daterange.ParseDate(*s)
	if err != nil {
		return nil, apperr.ValidationErr.WithMsg("date must be YYYY-MM-DD or RFC 3339").WrapParent(err)
	}
	return &t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}
