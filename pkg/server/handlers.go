package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/drivetrain/pkg/buildinfo"
	"github.com/matzehuels/drivetrain/pkg/errors"
	pkgio "github.com/matzehuels/drivetrain/pkg/io"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/scheme"
	"github.com/matzehuels/drivetrain/pkg/session"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// WarnHeader carries the overlap warning state on raw artifact responses.
const WarnHeader = "X-Drivetrain-Overlap-Warning"

// Request is the body of /v1/layout and /v1/render.
type Request struct {
	// Definition is an inline JSON definition.
	Definition *pkgio.Definition `json:"definition,omitempty"`
	// Source is a definition in Format (toml, yaml or json).
	Source string `json:"source,omitempty"`
	Format string `json:"format,omitempty"`

	Options pipeline.Options `json:"options"`
	// Session names a warning session whose view state applies.
	Session string `json:"session,omitempty"`
}

func (req *Request) elements() ([]transmission.Element, error) {
	switch {
	case req.Definition != nil && req.Source != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either definition or source, not both")
	case req.Definition != nil:
		return req.Definition.Model()
	case req.Source != "":
		f := pkgio.FormatJSON
		if req.Format != "" {
			var err error
			if f, err = pkgio.ParseFormat(req.Format); err != nil {
				return nil, err
			}
		}
		return pkgio.ParseDefinition([]byte(req.Source), f)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "definition or source is required")
}

// LayoutResponse is the body returned by /v1/layout.
type LayoutResponse struct {
	Scene       *scheme.Scene `json:"scene"`
	Warn        bool          `json:"warn"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Overlaps    []string      `json:"overlaps"`
	Session     string        `json:"session,omitempty"`
	Cached      bool          `json:"cached"`
}

// RenderResponse is the body returned by /v1/render for several formats.
// SVG, DOT and JSON artifacts are text; all are base64 encoded for uniformity.
type RenderResponse struct {
	Artifacts   map[string]string `json:"artifacts"`
	Warn        bool              `json:"warn"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Session     string            `json:"session,omitempty"`
}

// SessionRequest is the body of the session mutation routes.
type SessionRequest struct {
	Fingerprint string `json:"fingerprint,omitempty"`
	Selected    string `json:"selected,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

// =============================================================================
// Layout and render
// =============================================================================

// pass is the shared front half of layout and render: decode, resolve the
// session view, run the layout and record the result in the session.
type pass struct {
	scene *scheme.Scene
	opts  pipeline.Options
	sess  *session.Session
	hit   bool
}

func (s *Server) runPass(ctx context.Context, req *Request) (*pass, error) {
	elems, err := req.elements()
	if err != nil {
		return nil, err
	}

	opts := req.Options
	opts.Logger = s.logger
	var sess *session.Session
	if req.Session != "" {
		if sess, err = session.Load(ctx, s.sessions, req.Session); err != nil {
			return nil, err
		}
		if opts.View.Selected == "" {
			opts.View.Selected = sess.Selected
		}
		opts.View.Dismissed = sess.Dismissed
	}

	sc, hit, err := s.runner.LayoutWithCacheInfo(ctx, elems, opts)
	if err != nil {
		return nil, err
	}

	if sess != nil {
		sess.Observe(sc.Fingerprint)
		sess.Selected = opts.View.Selected
		sess.Touch(s.sessionTTL)
		if err := s.sessions.Set(ctx, sess); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "save session")
		}
	}
	return &pass{scene: sc, opts: opts, sess: sess, hit: hit}, nil
}

func (p *pass) sessionID() string {
	if p.sess == nil {
		return ""
	}
	return p.sess.ID
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := Request{Options: pipeline.DefaultOptions()}
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.runPass(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Scene:       p.scene,
		Warn:        p.scene.Warn,
		Fingerprint: p.scene.Fingerprint,
		Overlaps:    p.scene.Overlaps,
		Session:     p.sessionID(),
		Cached:      p.hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req := Request{Options: pipeline.DefaultOptions()}
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.runPass(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), p.scene, p.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	formats := p.opts.Formats
	if len(formats) == 1 {
		w.Header().Set("Content-Type", pipeline.ContentType(formats[0]))
		w.Header().Set(WarnHeader, strconv.FormatBool(p.scene.Warn))
		w.WriteHeader(http.StatusOK)
		w.Write(artifacts[formats[0]])
		return
	}

	resp := RenderResponse{
		Artifacts:   make(map[string]string, len(artifacts)),
		Warn:        p.scene.Warn,
		Fingerprint: p.scene.Fingerprint,
		Session:     p.sessionID(),
	}
	for f, data := range artifacts {
		resp.Artifacts[f] = base64.StdEncoding.EncodeToString(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := session.Load(r.Context(), s.sessions, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDismiss dismisses the last observed overlap set, or an explicit
// fingerprint when the body names one.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *session.Session, req SessionRequest) error {
		if req.Fingerprint != "" {
			return sess.DismissFingerprint(req.Fingerprint)
		}
		sess.Dismiss()
		return nil
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *session.Session, req SessionRequest) error {
		if req.Selected != "" {
			if err := errors.ValidateID(req.Selected); err != nil {
				return err
			}
		}
		sess.Selected = req.Selected
		return nil
	})
}

func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session, SessionRequest) error) {
	var req SessionRequest
	if err := s.decodeBody(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := session.Load(r.Context(), s.sessions, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(sess, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Touch(s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
