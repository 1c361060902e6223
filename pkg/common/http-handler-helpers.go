package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/rs/zerolog/log"
)

// HttpError carries the status code a handler wants to answer with.
type HttpError struct {
	Status  int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(status int, message string, err error) *HttpError {
	return &HttpError{Status: status, Message: message, Err: err}
}

// WithStatus answers with a status other than 200.
type WithStatus struct {
	Status int
	Data   any
}

type errorBody struct {
	Error string `json:"error"`
}

// JsonHandler encodes the value fn returns. Errors are answered with their
// HttpError status, or 500 for anything else.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		AllowOrigin(w, r)
		data, err := fn(w, r)
		if err != nil {
			var httpErr *HttpError
			status := http.StatusInternalServerError
			message := "internal error"
			if errors.As(err, &httpErr) {
				status = httpErr.Status
				message = httpErr.Message
			}
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
			}
			WriteJson(w, status, errorBody{Error: message})
			return
		}
		if data == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if s, ok := data.(WithStatus); ok {
			WriteJson(w, s.Status, s.Data)
			return
		}
		WriteJson(w, http.StatusOK, data)
	}
}

func WriteJson(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsoncompat.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// DecodeJson reads a request body into v and answers malformed input with
// a 400.
func DecodeJson(r *http.Request, v any) error {
	if r.Body == nil {
		return NewHttpError(http.StatusBadRequest, "missing body", nil)
	}
	defer r.Body.Close()
	if err := jsoncompat.NewDecoder(r.Body).Decode(v); err != nil {
		return NewHttpError(http.StatusBadRequest, "malformed body", err)
	}
	return nil
}

func AllowOrigin(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
