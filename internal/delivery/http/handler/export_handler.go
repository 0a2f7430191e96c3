package handler

import (
	"errors"
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportUsecase usecase.ExportUsecase
	validator     *validator.CustomValidator
}

func NewExportHandler(exportUsecase usecase.ExportUsecase, validator *validator.CustomValidator) *ExportHandler {
	return &ExportHandler{
		exportUsecase: exportUsecase,
		validator:     validator,
	}
}

// Export streams a spreadsheet of the requested collection
// @Summary Export to Excel
// @Tags Export
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity query string true "therapists, patients, leads or all"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /admin/export [get]
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req dto.ExportRequest
	if err := decodeQuery(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	file, err := h.exportUsecase.Export(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNothingToExport):
			response.NotFound(w, "No data to export")
		default:
			response.InternalServerError(w, "Failed to export data")
		}
		return
	}

	response.File(w, xlsxContentType, file.Filename, file.Content)
}
