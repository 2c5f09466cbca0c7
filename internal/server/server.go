// Package server exposes the conversion engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"deasciifier/internal/boundary"
	"deasciifier/internal/correction"
	"deasciifier/internal/customdict"
	"deasciifier/internal/editor"
	"deasciifier/internal/rangeproc"
	"deasciifier/internal/relay"
	"deasciifier/internal/session"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
	"deasciifier/pkg/options"
)

const maxBody = 1 << 20

// Server holds the shared engine. Catalogs are immutable; adding a custom
// correction swaps in a freshly merged one.
type Server struct {
	processor  *transform.Processor
	background *relay.Background
	base       *correction.Static
	generated  correction.Catalog
	store      Store
	logger     *slog.Logger

	mu     sync.RWMutex
	merged *correction.Static
}

// New returns a server. base holds the file-backed corrections and may be
// nil; generated, when set, is consulted after them.
func New(processor *transform.Processor, base *correction.Static, generated correction.Catalog, store Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if base == nil {
		base = correction.NewStatic(nil)
	}
	return &Server{
		processor:  processor,
		background: relay.NewBackground(processor, logger),
		base:       base,
		generated:  generated,
		store:      store,
		logger:     logger.With("component", "server"),
		merged:     base,
	}
}

// Reload merges the stored custom corrections over the base catalog.
func (s *Server) Reload(ctx context.Context) error {
	custom, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	merged := correction.Merge(s.base, custom)
	s.mu.Lock()
	s.merged = merged
	s.mu.Unlock()
	s.logger.Info("corrections loaded", "custom", len(custom), "total", merged.Len())
	return nil
}

// Catalog returns the current catalog.
func (s *Server) Catalog() correction.Catalog {
	s.mu.RLock()
	merged := s.merged
	s.mu.RUnlock()
	if s.generated == nil {
		return merged
	}
	return correction.Chain{merged, s.generated}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/deasciify", s.convertHandler(transform.Deasciify))
	mux.HandleFunc("/api/v1/asciify", s.convertHandler(transform.Asciify))
	mux.HandleFunc("/api/v1/typed", s.handleTyped)
	mux.HandleFunc("/api/v1/relay", s.handleRelay)
	mux.HandleFunc("/api/v1/suggest", s.handleSuggest)
	mux.HandleFunc("/api/v1/corrections/", s.handleCorrections)
	mux.HandleFunc("/api/v1/custom-correction", s.handleAddCustom)
	mux.HandleFunc("/api/v1/custom-correction/", s.handleRemoveCustom)
	return mux
}

// TextRequest is the body of the conversion endpoints. Selection indices are
// rune offsets.
type TextRequest struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

func (r TextRequest) selection() textrange.Range {
	return textrange.New(r.SelectionStart, r.SelectionEnd)
}

// RangeJSON is a half-open rune range.
type RangeJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TextResponse carries the whole converted document.
type TextResponse struct {
	Text             string    `json:"text"`
	Range            RangeJSON `json:"range"`
	ChangedPositions []int     `json:"changed_positions"`
}

// newSession builds a single-request session over text.
func (s *Server) newSession(text string, sel textrange.Range) (*session.Session, *editor.Memory) {
	ed := editor.NewMemory(text)
	ed.SetSelection(sel)
	sess := session.New(ed, s.processor, s.Catalog(),
		session.WithLogger(s.logger),
		session.WithOptions(options.WithHighlightChanges(false)))
	return sess, ed
}

func (s *Server) convertHandler(mode transform.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req TextRequest
		if !decodeBody(w, r, &req) {
			return
		}
		rng, err := rangeproc.Resolve(rangeproc.SelectionPolicy, []rune(req.Text), req.selection())
		if err != nil {
			writeError(w, err)
			return
		}
		// A selection lying past the end resolves empty. The editor would
		// clamp it to a caret, which reads as "whole text".
		if rng.IsEmpty() {
			writeJSON(w, http.StatusOK, TextResponse{
				Text:             req.Text,
				Range:            RangeJSON{Start: rng.Start, End: rng.End},
				ChangedPositions: []int{},
			})
			return
		}
		sess, ed := s.newSession(req.Text, rng)
		res, err := sess.ProcessSelection(mode)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, TextResponse{
			Text:             ed.Text(),
			Range:            RangeJSON{Start: rng.Start, End: rng.End},
			ChangedPositions: nonNil(res.ChangedPositions),
		})
	}
}

// handleTyped deasciifies the word finished by the rune just before the
// cursor, as if it had been typed.
func (s *Server) handleTyped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req TextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	runes := []rune(req.Text)
	rng, err := rangeproc.Resolve(rangeproc.CursorPolicy, runes, req.selection())
	if err != nil {
		writeError(w, err)
		return
	}
	sess, ed := s.newSession(req.Text, req.selection())
	sess.SetOptions(options.WithAutoConvert(true))
	cursor := ed.Selection().Start
	if cursor == 0 || !boundary.IsSeparator(runes[cursor-1]) {
		rng = textrange.Point(cursor)
	} else if err := sess.OnKeyUp(runes[cursor-1]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{
		Text:             ed.Text(),
		Range:            RangeJSON{Start: rng.Start, End: rng.End},
		ChangedPositions: changedBetween(req.Text, ed.Text()),
	})
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	m, err := relay.Decode(data)
	if err != nil {
		writeError(w, err)
		return
	}
	reply, err := s.background.Handle(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := relay.Encode(reply)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

// SuggestRequest asks for the correction menu at a caret.
type SuggestRequest struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

// SuggestResponse mirrors correction.MenuState.
type SuggestResponse struct {
	Visible     bool       `json:"visible"`
	Word        string     `json:"word,omitempty"`
	Range       *RangeJSON `json:"range,omitempty"`
	Suggestions []string   `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req SuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	caret := textrange.Point(req.Cursor)
	if err := caret.Validate(); err != nil {
		writeError(w, err)
		return
	}
	sess, _ := s.newSession(req.Text, caret)
	if err := sess.OnClick(); err != nil {
		writeError(w, err)
		return
	}
	st := sess.MenuState()
	resp := SuggestResponse{Visible: st.Visible, Word: st.Word, Suggestions: nonNilStrings(st.Suggestions)}
	if st.Anchor != nil {
		resp.Range = &RangeJSON{Start: st.Anchor.Start, End: st.Anchor.End}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCorrections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	word := strings.TrimPrefix(r.URL.Path, "/api/v1/corrections/")
	if word == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word is required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"word":        word,
		"suggestions": nonNilStrings(s.Catalog().Lookup(word)),
	})
}

func (s *Server) handleAddCustom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Word         string   `json:"word"`
		Alternatives []string `json:"alternatives"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Word) == "" || len(req.Alternatives) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	if err := s.store.Put(r.Context(), req.Word, req.Alternatives); err != nil {
		writeError(w, err)
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleRemoveCustom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	word := strings.TrimPrefix(r.URL.Path, "/api/v1/custom-correction/")
	if word == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word is required"})
		return
	}
	if err := s.store.Remove(r.Context(), word); err != nil {
		writeError(w, err)
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "deasciifier"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, textrange.ErrInvalidRange),
		errors.Is(err, transform.ErrUnknownMode),
		errors.Is(err, relay.ErrMalformed),
		errors.Is(err, relay.ErrUnknownKind),
		errors.Is(err, relay.ErrUnexpectedMessage),
		errors.Is(err, customdict.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, textrange.ErrPrecondition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// changedBetween lists rune indices where a and b differ. Conversion keeps
// lengths, so the indices line up.
func changedBetween(a, b string) []int {
	ra, rb := []rune(a), []rune(b)
	out := []int{}
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] != rb[i] {
			out = append(out, i)
		}
	}
	return out
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
