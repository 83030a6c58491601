package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/regenai/regen-agent/internal/app/agent"
	"github.com/regenai/regen-agent/internal/app/forms"
	"github.com/regenai/regen-agent/internal/domain"
)

type Server struct {
	agentSvc *agent.Service
	formsSvc *forms.Service
}

func NewServer(agentSvc *agent.Service, formsSvc *forms.Service, verifier domain.TokenVerifier) http.Handler {
	s := &Server{agentSvc: agentSvc, formsSvc: formsSvc}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	authed := http.NewServeMux()

	// /agent/chat → POST: one chat turn
	authed.HandleFunc("/agent/chat", s.handleChat)

	// /forms       → POST: create, GET: list
	// /forms/{id}  → GET / PUT / DELETE
	authed.HandleFunc("/forms", s.handleForms)
	authed.HandleFunc("/forms/", s.handleFormWithID)

	protected := withAuth(verifier, authed)
	mux.Handle("/agent/", protected)
	mux.Handle("/forms", protected)
	mux.Handle("/forms/", protected)

	return chainMiddlewares(mux, withCORS, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"thread_id"`
}

type formRequest struct {
	Location      string `json:"location"`
	AreaType      string `json:"area_type"`
	SoilType      string `json:"soil_type"`
	WaterSource   string `json:"water_source"`
	Irrigation    string `json:"irrigation"`
	Temperature   string `json:"temperature"`
	Rainfall      string `json:"rainfall"`
	Sunlight      string `json:"sunlight"`
	LandSize      string `json:"land_size"`
	Goal          string `json:"goal"`
	CropDuration  string `json:"crop_duration"`
	SpecificCrop  string `json:"specific_crop,omitempty"`
	Fertilizers   string `json:"fertilizers_preference,omitempty"`
	LastPlantedAt string `json:"last_planted_at,omitempty"`
}

type formResponse struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Location      string    `json:"location"`
	AreaType      string    `json:"area_type"`
	SoilType      string    `json:"soil_type"`
	WaterSource   string    `json:"water_source"`
	Irrigation    string    `json:"irrigation"`
	Temperature   string    `json:"temperature"`
	Rainfall      string    `json:"rainfall"`
	Sunlight      string    `json:"sunlight"`
	LandSize      string    `json:"land_size"`
	Goal          string    `json:"goal"`
	CropDuration  string    `json:"crop_duration"`
	SpecificCrop  string    `json:"specific_crop,omitempty"`
	Fertilizers   string    `json:"fertilizers_preference,omitempty"`
	LastPlantedAt string    `json:"last_planted_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		unauthorized(w, "not authenticated")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	out, err := s.agentSvc.Chat(r.Context(), agent.ChatInput{
		UserID:   userID,
		ThreadID: domain.ThreadID(req.ThreadID),
		Message:  req.Message,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:    out.Reply,
		ThreadID: string(out.ThreadID),
	})
}

// /forms
func (s *Server) handleForms(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		unauthorized(w, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req formRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		form := toDomainForm(req, userID)
		if err := s.formsSvc.Create(r.Context(), form); err != nil {
			badRequest(w, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toFormResponse(form))

	case http.MethodGet:
		all, err := s.formsSvc.List(r.Context(), userID)
		if err != nil {
			internalError(w, err)
			return
		}
		out := make([]formResponse, 0, len(all))
		for _, f := range all {
			out = append(out, toFormResponse(f))
		}
		writeJSON(w, http.StatusOK, out)

	default:
		methodNotAllowed(w)
	}
}

// /forms/{id}
func (s *Server) handleFormWithID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		unauthorized(w, "not authenticated")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/forms/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	formID := domain.FormID(id)

	switch r.Method {
	case http.MethodGet:
		form, err := s.formsSvc.Get(r.Context(), userID, formID)
		if err != nil {
			s.formError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFormResponse(form))

	case http.MethodPut:
		var req formRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		form := toDomainForm(req, userID)
		form.ID = formID
		if err := s.formsSvc.Update(r.Context(), form); err != nil {
			s.formError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFormResponse(form))

	case http.MethodDelete:
		if err := s.formsSvc.Delete(r.Context(), userID, formID); err != nil {
			s.formError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) formError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrFormNotFound) {
		http.NotFound(w, r)
		return
	}
	internalError(w, err)
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toDomainForm(req formRequest, userID domain.UserID) *domain.Form {
	return &domain.Form{
		UserID:        userID,
		Location:      req.Location,
		AreaType:      req.AreaType,
		SoilType:      req.SoilType,
		WaterSrc:      req.WaterSource,
		Irrigation:    req.Irrigation,
		Temperature:   req.Temperature,
		Rainfall:      req.Rainfall,
		Sunlight:      req.Sunlight,
		LandSize:      req.LandSize,
		Goal:          domain.Goal(req.Goal),
		CropDuration:  req.CropDuration,
		SpecificCrop:  req.SpecificCrop,
		Fertilizers:   req.Fertilizers,
		LastPlantedAt: req.LastPlantedAt,
	}
}

func toFormResponse(f *domain.Form) formResponse {
	return formResponse{
		ID:            int64(f.ID),
		UserID:        string(f.UserID),
		Location:      f.Location,
		AreaType:      f.AreaType,
		SoilType:      f.SoilType,
		WaterSource:   f.WaterSrc,
		Irrigation:    f.Irrigation,
		Temperature:   f.Temperature,
		Rainfall:      f.Rainfall,
		Sunlight:      f.Sunlight,
		LandSize:      f.LandSize,
		Goal:          string(f.Goal),
		CropDuration:  f.CropDuration,
		SpecificCrop:  f.SpecificCrop,
		Fertilizers:   f.Fertilizers,
		LastPlantedAt: f.LastPlantedAt,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
