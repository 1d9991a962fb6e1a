package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/csenitron/teamCMS/internal/catalog"
	"github.com/csenitron/teamCMS/internal/forms"
	"github.com/csenitron/teamCMS/internal/layouts"
	"github.com/csenitron/teamCMS/internal/menus"
	"github.com/csenitron/teamCMS/internal/modules"
	"github.com/csenitron/teamCMS/internal/validation"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" || trimmedBase == "/" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func writeUnavailable(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

// internalErrorMessage replaces the text of unexpected errors, which may
// carry SQL or driver details.
const internalErrorMessage = "The request could not be completed, please try again"

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var moduleNotFound *modules.NotFoundError
	var catalogNotFound *catalog.NotFoundError
	var menuNotFound *menus.NotFoundError
	if errors.As(err, &moduleNotFound) ||
		errors.As(err, &catalogNotFound) ||
		errors.As(err, &menuNotFound) ||
		errors.Is(err, menus.ErrNoMenus) ||
		errors.Is(err, menus.ErrMenuInstanceNotFound) ||
		errors.Is(err, modules.ErrHandlerNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	if errors.Is(err, modules.ErrInstanceModuleMismatch) || errors.Is(err, menus.ErrMenuItemCycle) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, layouts.ErrUnknownOwnerType) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) || errors.Is(err, layouts.ErrLayoutMalformed) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: internalErrorMessage,
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := parseUUID(r.PathValue(name))
	if err != nil {
		writeBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseForm reads url-encoded and multipart bodies into a forms.Form.
func parseForm(r *http.Request) (forms.Form, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return forms.Form{}, err
		}
	} else if err := r.ParseForm(); err != nil {
		return forms.Form{}, err
	}
	values := url.Values{}
	for key, list := range r.PostForm {
		values[key] = append([]string(nil), list...)
	}
	return forms.New(values), nil
}
