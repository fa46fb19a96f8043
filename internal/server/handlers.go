package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dataflows/flowgrid/pkg/errors"
	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/pipeline"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// ctxKey is the type for context keys used in this package.
type ctxKey int

const requestIDKey ctxKey = 0

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// validateResponse is the body of POST /v1/validate.
type validateResponse struct {
	Valid  bool                    `json:"valid"`
	Errors []model.ValidationError `json:"errors"`
}

// layoutResponse is the body of POST /v1/layout.
type layoutResponse struct {
	Layout sim.Layout              `json:"layout"`
	Errors []model.ValidationError `json:"errors"`
	Cached bool                    `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	_, verrs, err := model.LoadYAML(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if verrs == nil {
		verrs = []model.ValidationError{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(verrs) == 0, Errors: verrs})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	opts := pipeline.Options{
		Refresh: r.URL.Query().Get("refresh") == "true",
		Logger:  s.logger,
	}
	result, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.GetCode(err) == errors.ErrCodeInternal {
			status = http.StatusInternalServerError
		}
		s.writeError(w, status, err)
		return
	}

	verrs := result.Errors
	if verrs == nil {
		verrs = []model.ValidationError{}
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Layout: result.Layout,
		Errors: verrs,
		Cached: result.CacheInfo.LayoutHit,
	})
}

// readBody reads and bounds the request body. On failure it writes the
// error response and returns ok=false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			errors.New(errors.ErrCodeSpecTooLarge, "request body exceeds %d bytes", maxBodyBytes))
		return nil, false
	}
	if len(data) == 0 {
		s.writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidSpec, "empty request body"))
		return nil, false
	}
	return data, true
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
