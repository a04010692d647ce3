package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/pipeline"
	"github.com/matzehuels/codexray/pkg/project"
	"github.com/matzehuels/codexray/pkg/render/treemap/hit"
	"github.com/matzehuels/codexray/pkg/render/treemap/paint"
	"github.com/matzehuels/codexray/pkg/session"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

// HeaderCache reports whether a render was served from the artifact cache.
const HeaderCache = "X-Codexray-Cache"

var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJPEG: "image/jpeg",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

type ctxKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	ID       string           `json:"id"`
	Projects []string         `json:"projects"`
	Options  pipeline.Options `json:"options"`
	Filter   project.Filter   `json:"filter"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:       sess.ID,
		Projects: sess.ProjectNames(),
		Options:  sess.Options(),
		Filter:   sess.Filter(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.DefaultOptions()
	if err := decodeOptional(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := session.New(opts, s.ttl)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("created session", "id", sess.ID)
	s.writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionFrom(r).ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSchemes(w http.ResponseWriter, _ *http.Request) {
	type scheme struct {
		Name  string `json:"name"`
		Label string `json:"label"`
		Key   string `json:"key"`
	}
	var out []scheme
	for _, sc := range paint.Schemes() {
		out = append(out, scheme{Name: sc.Name, Label: sc.Label, Key: string(sc.Key)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Projects
// =============================================================================

type addProjectResponse struct {
	Projects []string `json:"projects"`
	Files    int      `json:"files"`
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxUploadBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	projects, err := project.Load(r.URL.Query().Get("name"), data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess := sessionFrom(r)
	var resp addProjectResponse
	for _, p := range projects {
		name, err := sess.AddProject(p.Name, p.Files)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Projects = append(resp.Projects, name)
		resp.Files += len(p.Files)
	}
	s.logger.Info("added projects", "session", sess.ID, "projects", resp.Projects, "files", resp.Files)
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !sessionFrom(r).RemoveProject(name) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "no project %q", name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type languagesResponse struct {
	Languages  []stats.Record  `json:"languages"`
	Summary    project.Summary `json:"summary"`
	CodeRatio  float64         `json:"code_ratio"`
	FilesRatio float64         `json:"files_ratio"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, summary := sessionFrom(r).Languages()
	s.writeJSON(w, http.StatusOK, languagesResponse{
		Languages:  langs,
		Summary:    summary,
		CodeRatio:  summary.CodeRatio(),
		FilesRatio: summary.FilesRatio(),
	})
}

// =============================================================================
// Filter and Options
// =============================================================================

func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, sessionFrom(r).Filter())
}

func (s *Server) handlePutFilter(w http.ResponseWriter, r *http.Request) {
	var f project.Filter
	if err := decode(r, &f); err != nil {
		s.writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	sess.SetFilter(f)
	s.writeJSON(w, http.StatusOK, sess.Filter())
}

type excludeRequest struct {
	Path string `json:"path"`
}

type excludeResponse struct {
	Changed bool           `json:"changed"`
	Filter  project.Filter `json:"filter"`
}

func (s *Server) handleExclude(w http.ResponseWriter, r *http.Request) {
	var req excludeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Path == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "path is required"))
		return
	}
	sess := sessionFrom(r)
	changed := sess.ExcludeFolder(req.Path)
	s.writeJSON(w, http.StatusOK, excludeResponse{Changed: changed, Filter: sess.Filter()})
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, sessionFrom(r).Options())
}

func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	opts := sess.Options()
	if err := decode(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.SetOptions(opts); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Options())
}

// =============================================================================
// Pipeline
// =============================================================================

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	root, err := sessionFrom(r).Tree(r.Context(), s.runner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := tree.WriteJSON(w, root); err != nil {
		s.logger.Warn("write tree", "error", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := sessionFrom(r).Render(r.Context(), s.runner, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := res.Artifacts[format]
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderCache, cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type clickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Size the render is displayed at, when it differs from the canvas.
	DisplayWidth  float64 `json:"display_width,omitempty"`
	DisplayHeight float64 `json:"display_height,omitempty"`
}

type nodeResponse struct {
	Path      string         `json:"path"`
	Name      string         `json:"name"`
	Depth     int            `json:"depth"`
	Value     int64          `json:"value"`
	Dominant  string         `json:"dominant,omitempty"`
	Leaf      bool           `json:"leaf"`
	Files     int            `json:"files"`
	Languages []stats.Record `json:"languages"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	if !sess.Rendered() {
		s.writeJSON(w, http.StatusConflict, errorResponse{
			Code:    errors.ErrCodeInvalidInput,
			Message: "nothing rendered since the last change",
		})
		return
	}

	opts := sess.Options()
	x, y := hit.Scale(req.X, req.Y, req.DisplayWidth, req.DisplayHeight, opts.Width, opts.Height)
	n := sess.Click(x, y)
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, nodeResponse{
		Path:      n.Path,
		Name:      n.Name,
		Depth:     n.Depth,
		Value:     n.Value,
		Dominant:  n.Dominant,
		Leaf:      n.IsLeaf(),
		Files:     n.FileCount(),
		Languages: n.RollupStats,
	})
}

// decodeOptional is decode for bodies that may be empty.
func decodeOptional(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxUploadBytes))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
