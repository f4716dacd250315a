package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes a single JSON document into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", domain.ErrValidation)
	}
	return nil
}

// isForm reports whether the request carries an HTML form body
func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// decodeDraft reads the product form submitted in r
func decodeDraft(w http.ResponseWriter, r *http.Request) (dto.ProductDraft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return dto.ProductDraft{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return dto.ProductDraftFromForm(r.PostForm), nil
}

// pathParam returns the decoded URL parameter key. chi routes on the escaped
// path whenever the request carries one, leaving its parameters escaped.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: malformed %s in path", domain.ErrValidation, key)
	}
	return decoded, nil
}
