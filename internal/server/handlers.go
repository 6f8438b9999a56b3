package server

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fiducial/pkg/buildinfo"
	"github.com/matzehuels/fiducial/pkg/cache"
	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/fonts"
	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// Response headers describing a marker.
const (
	HeaderHash        = "X-Marker-Hash"
	HeaderFingerprint = "X-Marker-Fingerprint"
	HeaderCache       = "X-Cache"
)

// auditMaxKeys bounds the quadratic audit endpoint.
const auditMaxKeys = 512

var contentTypes = map[string]string{
	pipeline.FormatPNG: "image/png",
	pipeline.FormatSVG: "image/svg+xml",
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, buildinfo.Get())
}

// ElementResponse describes one key.
type ElementResponse struct {
	Number   int               `json:"number"`
	Symbol   string            `json:"symbol,omitempty"`
	Name     string            `json:"name,omitempty"`
	Category elements.Category `json:"category"`
	Period   int               `json:"period"`
	Group    int               `json:"group"`
	Hash     string            `json:"hash"`
}

func describeKey(key int) ElementResponse {
	e, _ := elements.Lookup(key)
	return ElementResponse{
		Number:   key,
		Symbol:   e.Symbol,
		Name:     e.Name,
		Category: elements.CategoryOf(key),
		Period:   elements.Period(key),
		Group:    elements.Group(key),
		Hash:     marker.DeriveHash(key).String(),
	}
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	list := elements.All()
	if slug := r.URL.Query().Get("category"); slug != "" {
		c, err := elements.ParseCategory(slug)
		if err != nil {
			s.respondErr(w, r, errors.Wrap(errors.ErrCodeInvalidOption, err, "category %q", slug))
			return
		}
		list = elements.InCategory(c)
	}
	out := make([]ElementResponse, len(list))
	for i, e := range list {
		out[i] = describeKey(e.Number)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	key, err := s.resolveKey(chi.URLParam(r, "key"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, describeKey(key))
}

// resolveKey accepts exactly one number or element symbol.
func (s *Server) resolveKey(raw string) (int, error) {
	if raw == "" || strings.Contains(raw, ",") {
		return 0, errors.New(errors.ErrCodeInvalidKey, "expected a single key, got %q", raw)
	}
	keys, err := pipeline.ParseKeys(raw, s.cfg.Defaults.MaxKey)
	if err != nil {
		return 0, err
	}
	if len(keys) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidKey, "%q names %d keys, expected one", raw, len(keys))
	}
	return keys[0], nil
}

// markerOptions applies query parameters over the configured defaults.
func (s *Server) markerOptions(r *http.Request, key int) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Key = key
	opts.Logger = s.logger

	q := r.URL.Query()
	if v := q.Get("mode"); v != "" {
		opts.Mode = v
	}
	if v := q.Get("shape"); v != "" {
		opts.Shape = v
	}
	if v := q.Get("label"); v != "" {
		opts.CodeText = v
		opts.ShowCode = true
	}
	if v := q.Get("font"); v != "" {
		// Paths and system lookups stay server-side configuration.
		if !fonts.IsEmbedded(v) {
			return opts, errors.New(errors.ErrCodeInvalidOption,
				"font %q not available (use %s, %s or %s)", v, fonts.GoBold, fonts.GoRegular, fonts.GoMono)
		}
		opts.Font = v
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "size %q is not an integer", v)
		}
		opts.Size = n
	}
	for name, dst := range map[string]*bool{
		"code":    &opts.ShowCode,
		"number":  &opts.ShowNumber,
		"binary":  &opts.Binary,
		"refresh": &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidOption, "%s=%q is not a boolean", name, v)
		}
		*dst = b
	}
	return opts, nil
}

func (s *Server) handleMarker(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	format := strings.TrimPrefix(strings.ToLower(ext), ".")

	key, err := s.resolveKey(name)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	opts, err := s.markerOptions(r, key)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if format != "" {
		opts.Format = format
	}

	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	etag := `"` + cache.Hash(res.Data)[:32] + `"`
	h := w.Header()
	h.Set("Content-Type", contentTypes[res.Format])
	h.Set("ETag", etag)
	h.Set("Cache-Control", "public, max-age=86400")
	h.Set(HeaderHash, res.Hash.String())
	h.Set(HeaderFingerprint, res.Fingerprint)
	h.Set(HeaderCache, cacheStatus(res.Cached))
	for _, warn := range res.Warnings {
		h.Add("Warning", fmt.Sprintf("199 fiducial %q", warn))
	}

	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

// etagMatch reports whether an If-None-Match header names etag. The header
// may list several tags, weak or strong, or be "*".
func etagMatch(header, etag string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}
	return false
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// GridResponse is the JSON form of a generated grid.
type GridResponse struct {
	Key         int              `json:"key"`
	Hash        string           `json:"hash"`
	Fingerprint string           `json:"fingerprint"`
	Mode        string           `json:"mode"`
	Shape       string           `json:"shape"`
	Size        int              `json:"size"`
	Filled      int              `json:"filled"`
	Rows        []string         `json:"rows"`
	Regions     []RegionResponse `json:"regions"`
}

type RegionResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	key, err := s.resolveKey(chi.URLParam(r, "key"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	opts, err := s.markerOptions(r, key)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondErr(w, r, err)
		return
	}
	g, err := marker.Generate(key, opts.MarkerOptions())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	regions := make([]RegionResponse, len(g.Regions))
	for i, reg := range g.Regions {
		b := reg.Bounds
		regions[i] = RegionResponse{
			Name: reg.Name, Kind: reg.Kind.String(),
			Row: b.Min.Y, Col: b.Min.X, Rows: b.Dy(), Cols: b.Dx(),
		}
	}
	respondJSON(w, http.StatusOK, GridResponse{
		Key:         g.Key,
		Hash:        g.Hash.String(),
		Fingerprint: g.Fingerprint(),
		Mode:        g.Mode.String(),
		Shape:       g.Shape.String(),
		Size:        g.Size,
		Filled:      g.FilledCount(),
		Rows:        g.Rows(),
		Regions:     regions,
	})
}

// AuditResponse is the JSON form of marker.Report.
type AuditResponse struct {
	Mode           string   `json:"mode"`
	Shape          string   `json:"shape"`
	Keys           int      `json:"keys"`
	OK             bool     `json:"ok"`
	Identical      []string `json:"identical"`
	HashCollisions []string `json:"hash_collisions"`
	MinDistance    int      `json:"min_distance"`
	Closest        string   `json:"closest,omitempty"`
	MeanDistance   float64  `json:"mean_distance"`
}

func pairs(ps []marker.Pair) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	spec := r.URL.Query().Get("keys")
	if spec == "" {
		spec = "all"
	}
	keys, err := pipeline.ParseKeys(spec, s.cfg.Defaults.MaxKey)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if len(keys) > auditMaxKeys {
		s.respondErr(w, r, errors.New(errors.ErrCodeInvalidOption, "audit limited to %d keys, got %d", auditMaxKeys, len(keys)))
		return
	}
	opts, err := s.markerOptions(r, keys[0])
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondErr(w, r, err)
		return
	}

	rep, err := marker.Audit(keys, opts.MarkerOptions())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	resp := AuditResponse{
		Mode:           rep.Mode.String(),
		Shape:          rep.Shape.String(),
		Keys:           rep.Keys,
		OK:             rep.OK(),
		Identical:      pairs(rep.Identical),
		HashCollisions: pairs(rep.HashCollisions),
		MinDistance:    rep.MinDistance,
		MeanDistance:   rep.MeanDistance,
	}
	if rep.Keys > 1 {
		resp.Closest = rep.Closest.String()
	}
	respondJSON(w, http.StatusOK, resp)
}
