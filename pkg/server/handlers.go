package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/deckfit/pkg/buildinfo"
	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
	"github.com/matzehuels/deckfit/pkg/pipeline"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// MaxCards bounds the card count accepted by the layout and script routes.
const MaxCards = 1000

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

type skinSummary struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Fit         fit.Config `json:"fit"`
	Default     bool       `json:"default,omitempty"`
}

func (s *Server) handleSkins(w http.ResponseWriter, r *http.Request) {
	list := s.skins.List()
	out := make([]skinSummary, 0, len(list))
	for _, sk := range list {
		out = append(out, skinSummary{
			Name:        sk.Name,
			Description: sk.Description,
			Fit:         sk.Config(),
			Default:     sk.Name == skin.DefaultName,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Skins []skinSummary `json:"skins"`
	}{out})
}

type layoutResponse struct {
	Skin         string             `json:"skin"`
	Layout       layout.Descriptor  `json:"layout"`
	Title        layout.TitleConfig `json:"title_config"`
	CardWidthCSS string             `json:"card_width_css"`
	CardWidth    float64            `json:"card_width"`
	Cached       bool               `json:"cached"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	n, err := parseCount(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sk, err := s.skins.Get(r.URL.Query().Get("skin"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lr, hit := s.runner.LayoutWithCacheInfo(r.Context(), sk, n)
	writeJSON(w, http.StatusOK, layoutResponse{
		Skin:         sk.Name,
		Layout:       lr.Descriptor,
		Title:        lr.Title,
		CardWidthCSS: lr.Descriptor.CardWidthCSS(),
		CardWidth:    lr.Descriptor.CardWidth(lr.Descriptor.ContentWidth()),
		Cached:       hit,
	})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := parseCount(q.Get("n"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sk, err := s.skins.Get(q.Get("skin"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lr, _ := s.runner.LayoutWithCacheInfo(r.Context(), sk, n)
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pipeline.Script(sk, lr))
}

type renderResponse struct {
	Skin      string             `json:"skin"`
	FrameHash string             `json:"frame_hash"`
	Layout    layout.Descriptor  `json:"layout"`
	Report    fit.Report         `json:"fit"`
	Artifacts map[string]string  `json:"artifacts"`
	Encoding  map[string]string  `json:"encoding"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Duration  string             `json:"duration"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode render request"))
		return
	}
	opts.Logger = s.logger.With("id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := renderResponse{
		Skin:      result.Skin,
		FrameHash: result.FrameHash,
		Layout:    result.Descriptor,
		Report:    result.Report,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		Encoding:  make(map[string]string, len(result.Artifacts)),
		Cache:     result.CacheInfo,
		Duration:  time.Since(start).Round(time.Microsecond).String(),
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatPNG {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
			resp.Encoding[format] = "base64"
			continue
		}
		resp.Artifacts[format] = string(data)
		resp.Encoding[format] = "utf-8"
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "card count must be an integer, got %q", s)
	}
	if n < 0 || n > MaxCards {
		return 0, errors.New(errors.ErrCodeInvalidInput, "card count must be between 0 and %d, got %d", MaxCards, n)
	}
	return n, nil
}
