package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"therapist-crm/internal/domain/workflow"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

const maxUploadBytes = 10 << 20

// queryDecoder reads query strings into DTOs using their json tags.
var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}()

func decodeQuery(r *http.Request, dst interface{}) error {
	return queryDecoder.Decode(dst, r.URL.Query())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// bindJSON decodes and validates the body, writing the 400 itself on failure.
func bindJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(dst); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// writeActionError maps the errors shared by the dashboard write actions.
func writeActionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrTherapistNotFound):
		response.NotFound(w, "Therapist not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrLeadNotFound):
		response.NotFound(w, "Lead not found")
	case errors.Is(err, usecase.ErrTherapistUnavailable), errors.Is(err, usecase.ErrLeadAlreadyConverted):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, workflow.ErrIllegalTransition):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, workflow.ErrUnknownStatus), errors.Is(err, usecase.ErrConvertMissingFields):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

// formFile reads the "file" part of a multipart upload.
func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	return file, header.Header.Get("Content-Type"), nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		response.Error(w, http.StatusUnsupportedMediaType, "Unsupported file type", nil)
	case errors.Is(err, usecase.ErrUploadUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "File uploads are not available", nil)
	case errors.Is(err, usecase.ErrTherapistNotFound):
		response.NotFound(w, "Therapist not found")
	default:
		response.InternalServerError(w, "Failed to upload file")
	}
}
