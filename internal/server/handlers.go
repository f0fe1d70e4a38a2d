package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/speech"
	"github.com/abhisek/viva/internal/tutor"
)

// ProcessTextRequest is the body of POST /process-text.
type ProcessTextRequest struct {
	Text      string `json:"text" validate:"required,max=4000"`
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Lang      string `json:"lang" validate:"omitempty,lang"`
}

// ProcessTextResponse is the reply to POST /process-text.
type ProcessTextResponse struct {
	Text       string  `json:"text"`
	SessionID  string  `json:"sid"`
	Mode       string  `json:"mode"`
	Intent     string  `json:"intent"`
	Lang       string  `json:"lang"`
	Rate       float64 `json:"rate"`
	SpeechText string  `json:"speech_text"`
	SpeechRate string  `json:"speech_rate"`
}

// SetLanguageResponse is the reply to POST /set-language.
type SetLanguageResponse struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Sessions int    `json:"sessions"`
}

// RootResponse is the reply to GET /.
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// ProcessText runs one turn. A failed turn still answers 200 with the
// localized error message; the session is left as it was.
func (s *Server) ProcessText(w http.ResponseWriter, r *http.Request) {
	var req ProcessTextRequest
	if err := s.validator.DecodeAndValidate(r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	out, err := s.svc.Turn(r.Context(), tutor.TurnInput{
		SessionID: req.SessionID,
		Text:      req.Text,
		Lang:      i18n.Lang(req.Lang),
	})

	text := out.Text
	if err != nil {
		s.log.WithError(err).WithField("session_id", out.Status.ID).Error("process text")
		text = i18n.Message(out.Status.Lang, i18n.Error, nil)
	}

	JSON(w, http.StatusOK, ProcessTextResponse{
		Text:       text,
		SessionID:  out.Status.ID,
		Mode:       string(out.Status.Mode),
		Intent:     out.Intent.String(),
		Lang:       out.Status.Lang.String(),
		Rate:       out.Status.Rate,
		SpeechText: speech.Clean(text),
		SpeechRate: speech.RateString(out.Status.Rate),
	})
}

// GetSession returns the status of one session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(chi.URLParam(r, "sid"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, st)
}

// ResetSession discards a session, if given, and returns a fresh one.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := s.svc.DefaultLang()
	if v := q.Get("language"); v != "" {
		lang = i18n.ParseLang(v)
	}
	st := s.svc.Reset(q.Get("session_id"), lang)
	JSON(w, http.StatusOK, st)
}

type setLanguageQuery struct {
	SessionID string `json:"session_id" validate:"required"`
	Language  string `json:"language" validate:"required"`
}

// SetLanguage switches a session's language.
func (s *Server) SetLanguage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := setLanguageQuery{SessionID: q.Get("session_id"), Language: q.Get("language")}
	if err := s.validator.Validate(req); err != nil {
		s.badRequest(w, err)
		return
	}

	st, err := s.svc.SetLanguage(req.SessionID, i18n.ParseLang(req.Language))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, SetLanguageResponse{
		Message:  i18n.Message(st.Lang, i18n.LangChanged, nil),
		Language: st.Lang.String(),
	})
}

// Health reports liveness and the configured model.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Provider: s.info.Provider,
		Model:    s.info.Model,
		Sessions: s.svc.Len(),
	})
}

// Root describes the service.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, RootResponse{
		Name:      s.info.Name,
		Version:   s.info.Version,
		Endpoints: endpoints,
	})
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	var fe *FieldsError
	if errors.As(err, &fe) {
		JSON(w, http.StatusBadRequest, ErrorBody{Error: fe.Error(), Fields: fe.Fields})
		return
	}
	Error(w, http.StatusBadRequest, err.Error())
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	if tutor.IsNotFound(err) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	s.log.WithError(err).Error("session request")
	Error(w, http.StatusInternalServerError, "internal error")
}
