package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/phindler/fpdviz/pkg/errors"
	"github.com/phindler/fpdviz/pkg/export"
	"github.com/phindler/fpdviz/pkg/fpb"
	"github.com/phindler/fpdviz/pkg/httputil"
	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
	"github.com/phindler/fpdviz/pkg/pipeline"
	"github.com/phindler/fpdviz/pkg/session"
)

// maxBodyBytes bounds request bodies: the largest accepted source document
// plus headroom for the JSON envelope.
const maxBodyBytes = apperrors.MaxSourceLength + 64*1024

// mediaTypes maps export formats to response content types.
var mediaTypes = map[string]string{
	pipeline.FormatFPB: "text/plain; charset=utf-8",
	pipeline.FormatXML: "application/xml",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatDOT: "text/vnd.graphviz",
}

type parseRequest struct {
	Source    string `json:"source"`
	SessionID string `json:"session_id"`
}

type exportRequest struct {
	SessionID string `json:"session_id"`
}

// sessionResponse is returned by parse and import: the session binding plus
// the freshly computed model and diagram.
type sessionResponse struct {
	SessionID string          `json:"session_id"`
	Model     *model.Model    `json:"model"`
	Diagram   *layout.Diagram `json:"diagram"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse turns FPB text into a model and diagram. Document errors do
// not fail the request; they ride along inside the model so the editor can
// show them next to a best-effort diagram. When the request names an
// existing session it is updated in place, otherwise a new one is created.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := httputil.DecodeJSON(r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	opts := pipeline.Options{Source: req.Source}

	m, err := s.runner.Parse(ctx, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	diagram, err := s.runner.ComputeLayout(ctx, m, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess := s.resumeSession(r, req.SessionID)
	if sess == nil {
		sess = session.New(s.cfg.SessionTTL())
	}
	sess.Source = req.Source
	sess.Model = m
	sess.Diagram = diagram
	sess.Touch(time.Now(), s.cfg.SessionTTL())

	if err := s.store.Set(ctx, sess); err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store session"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Model:     m,
		Diagram:   diagram,
	})
}

// resumeSession returns the named session if it still exists. A missing,
// expired, or malformed ID silently falls back to a fresh session; the
// caller asked to parse, not to look up a session.
func (s *Server) resumeSession(r *http.Request, id string) *session.Session {
	if id == "" || apperrors.ValidateSessionID(id) != nil {
		return nil
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil || sess == nil {
		return nil
	}
	return sess
}

// handleImport accepts a multipart file upload, detects whether it is FPB
// text or VDI 3682 XML, and creates a new session from it.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, apperrors.MaxSourceLength+1))
	if err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "read upload"))
		return
	}
	if len(data) > apperrors.MaxSourceLength {
		httputil.WriteError(w, apperrors.New(apperrors.ErrCodeSourceTooBig,
			"file too large (max %d bytes)", apperrors.MaxSourceLength))
		return
	}

	format, err := export.DetectFormat(header.Filename, string(data))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	var m *model.Model
	var source string

	switch format {
	case "xml":
		m, err = export.ParseXML(data)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		fpb.Validate(m)
		// Imported documents get round-trippable FPB text so the editor
		// has something to show.
		source = export.Text(m)
	default:
		source = string(data)
		m, err = s.runner.Parse(ctx, pipeline.Options{Source: source})
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	diagram, err := s.runner.ComputeLayout(ctx, m, pipeline.Options{Source: source})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess := session.New(s.cfg.SessionTTL())
	sess.Source = source
	sess.Model = m
	sess.Diagram = diagram

	if err := s.store.Set(ctx, sess); err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store session"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Model:     m,
		Diagram:   diagram,
	})
}

// handleExport renders one artifact from a stored session and returns it as
// a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := apperrors.ValidateFormat(format); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req exportRequest
	if err := httputil.DecodeJSON(r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	sess, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if sess.Model == nil || sess.Diagram == nil {
		httputil.WriteError(w, apperrors.New(apperrors.ErrCodeNotFound,
			"session %s holds no document", sess.ID))
		return
	}

	artifacts, err := s.runner.Render(ctx, sess.Model, sess.Diagram, pipeline.Options{
		Source:  sess.Source,
		Formats: []string{format},
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.Attachment(w, "diagram."+format, mediaTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateSessionID(id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	existed, err := s.store.Delete(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "delete session"))
		return
	}
	if !existed {
		httputil.WriteError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSession resolves a session ID to a live session, translating store
// outcomes into API error codes.
func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	if err := apperrors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			return nil, apperrors.New(apperrors.ErrCodeSessionExpired, "session %s expired", id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return sess, nil
}
