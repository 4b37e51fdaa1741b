package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"resumelens/internal/errors"
	"resumelens/internal/service"
	"resumelens/internal/types"
)

// WarningHeader carries non-fatal problems, such as a result that could not be saved.
const WarningHeader = "X-Resumelens-Warning"

// analyzeHandler accepts JSON or a multipart upload with a "file" part.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumelens.api").Start(r.Context(), "api.analyze")
	defer span.End()

	var (
		in  service.Input
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		in, err = s.parseUpload(r)
	case "application/json":
		in, err = s.parseAnalyzeJSON(r)
	default:
		err = fmt.Errorf("content-type must be application/json or multipart/form-data")
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return
	}
	in.Persist = in.Persist && s.service.HasStore()

	span.SetAttributes(
		attribute.String("request.role", in.Role),
		attribute.Bool("request.upload", in.Document != nil),
		attribute.Bool("request.object_key", in.ObjectKey != ""),
	)

	record, err := s.service.Analyze(ctx, in)
	if err != nil {
		span.RecordError(err)
		if record == nil {
			writeAppError(w, err)
			return
		}
		// The analysis worked but could not be saved.
		w.Header().Set(WarningHeader, "result was not saved: "+err.Error())
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("ats.score", record.Result.ATSScore),
		attribute.String("document.type", string(record.Result.DocumentType)),
	)
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) parseAnalyzeJSON(r *http.Request) (service.Input, error) {
	var req AnalyzeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		return service.Input{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return service.Input{}, fmt.Errorf("%s", extractValidationErrors(err))
	}

	return service.Input{
		Text:      req.Text,
		ObjectKey: req.ObjectKey,
		MIMEType:  req.MIMEType,
		FileName:  req.FileName,
		Role:      strings.TrimSpace(req.Role),
		Category:  strings.TrimSpace(req.Category),
		Persist:   req.Save == nil || *req.Save,
	}, nil
}

func (s *Server) parseUpload(r *http.Request) (service.Input, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return service.Input{}, bodyError(err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return service.Input{}, fmt.Errorf("multipart request needs a \"file\" part: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return service.Input{}, bodyError(err)
	}

	doc := types.RawDocument{
		Content:  content,
		Kind:     types.DetectKind(header.Filename, header.Header.Get("Content-Type")),
		FileName: header.Filename,
	}
	save := true
	if v := r.FormValue("save"); v != "" {
		if save, err = strconv.ParseBool(v); err != nil {
			return service.Input{}, fmt.Errorf("save must be a boolean")
		}
	}
	return service.Input{
		Document: &doc,
		FileName: header.Filename,
		Role:     strings.TrimSpace(r.FormValue("role")),
		Category: strings.TrimSpace(r.FormValue("category")),
		Persist:  save,
	}, nil
}

func (s *Server) rolesHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	roles := s.service.Roles().List(category)
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.service.Roles().Categories(),
		"roles":      roles,
		"count":      len(roles),
	})
}

func (s *Server) getAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorResponse(w, "Invalid analysis ID", "id must be a UUID", http.StatusBadRequest)
		return
	}
	record, err := s.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) listAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeErrorResponse(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	records, err := s.service.List(r.Context(), limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": records, "count": len(records)})
}

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned before a response was written.
const statusClientClosedRequest = 499

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch {
	case appErr.Code == errors.ErrCodeCanceled:
		return statusClientClosedRequest
	case appErr.Type == errors.ErrorTypeExtraction:
		return http.StatusUnprocessableEntity
	case appErr.Code == errors.ErrCodeRoleNotFound,
		appErr.Code == errors.ErrCodeRecordNotFound,
		appErr.Code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case appErr.Type == errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case appErr.Code == errors.ErrCodeStoreUnavailable,
		appErr.Type == errors.ErrorTypeNetwork,
		appErr.Type == errors.ErrorTypeConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// extractValidationErrors reports the first failed field.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
