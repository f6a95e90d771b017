package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hydration/internal/app"
	"hydration/internal/domain"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeServiceError maps the domain error kinds to HTTP statuses; anything
// unrecognized is an infrastructure failure and surfaces as a 500 without
// leaking its message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var fe *domain.FilterError
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "invalid filter",
			"violations": fe.Violations,
		})
	case errors.Is(err, app.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrDuplicateTimestamp):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrUnknownUnit), errors.Is(err, app.ErrNegativeVolume):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// parseFilterCriteria reads list query parameters. Syntactic errors (an
// unparsable time or number) fail here; semantic consistency is the domain
// validator's job.
func parseFilterCriteria(q url.Values) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria

	var err error
	if c.From, err = timeParam(q, "from"); err != nil {
		return c, err
	}
	if c.To, err = timeParam(q, "to"); err != nil {
		return c, err
	}
	if c.MinVolume, err = floatParam(q, "minVolume"); err != nil {
		return c, err
	}
	if c.MaxVolume, err = floatParam(q, "maxVolume"); err != nil {
		return c, err
	}
	c.Unit = domain.VolumeUnit(q.Get("unit"))

	if c.Page, err = intParam(q, "page", 0); err != nil {
		return c, err
	}
	// An absent size gets the default; an explicit size=0 stays 0 and fails
	// validation downstream.
	if c.Size, err = intParam(q, "size", domain.DefaultPageSize); err != nil {
		return c, err
	}
	return c, nil
}

func timeParam(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}

func floatParam(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
