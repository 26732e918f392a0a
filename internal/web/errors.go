package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmylchreest/colorpal/internal/colour"
	"github.com/jmylchreest/colorpal/internal/image"
)

// HandlerError is the JSON body of every API error response.
type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	RequestID        string `json:"requestId,omitempty"`
}

var (
	// ErrPOST is returned when an upload endpoint is called with another method.
	ErrPOST = errors.New("POST method required for this endpoint")

	// ErrBadRequest marks malformed form input.
	ErrBadRequest = errors.New("bad request")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// classify maps an error to its HTTP status and a HandlerError body.
func classify(err error) (int, HandlerError) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, HandlerError{
			ErrorName:        "Upload Too Large",
			Description:      fmt.Sprintf("uploads are limited to %d bytes", tooLarge.Limit),
			PossibleSolution: "Upload a smaller image",
		}
	case errors.Is(err, image.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, HandlerError{
			ErrorName:        "Unsupported Image",
			Description:      err.Error(),
			PossibleSolution: "Upload a .jpg, .jpeg or .png file",
		}
	case errors.Is(err, colour.ErrInvalidInput):
		return http.StatusUnprocessableEntity, HandlerError{
			ErrorName:        "Cannot Extract Palette",
			Description:      err.Error(),
			PossibleSolution: "Request fewer colors or upload an image with more distinct colors",
		}
	case errors.Is(err, ErrPOST):
		return http.StatusMethodNotAllowed, HandlerError{
			ErrorName:        "Post Method Required",
			Description:      err.Error(),
			PossibleSolution: "Use POST method",
		}
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, HandlerError{
			ErrorName:        "Bad Request",
			Description:      err.Error(),
			PossibleSolution: "Send a multipart form with an \"image\" file field",
		}
	default:
		return http.StatusInternalServerError, HandlerError{
			ErrorName:        "Internal Server Error",
			Description:      "the palette could not be generated",
			PossibleSolution: "Internal Server Error requiring support",
		}
	}
}

// errorJSON writes err as a JSON HandlerError with the matching status.
func (app *Application) errorJSON(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	body.RequestID = requestID(r.Context())
	app.logFailure(r, status, err)

	if status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (app *Application) logFailure(r *http.Request, status int, err error) {
	logger := requestLogger(r.Context(), app.Logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		return
	}
	logger.Debug("request rejected", "status", status, "error", err)
}
