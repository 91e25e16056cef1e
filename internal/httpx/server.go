package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/store"
)

// Server exposes a registry of games over a JSON API.
type Server struct {
	gamesMu  sync.Mutex
	games    map[uuid.UUID]*game.Engine
	store    *store.Store
	startFEN string

	srvMu sync.Mutex
	srv   *http.Server
}

// Options configures a Server. A nil Store disables the save endpoints; an
// empty StartFEN means the standard position.
type Options struct {
	Store    *store.Store
	StartFEN string
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

var errUnknownGame = errors.New("unknown game")

// NewServer validates the start position and returns an empty registry.
func NewServer(opts Options) (*Server, error) {
	fen := opts.StartFEN
	if fen == "" {
		fen = game.StandardFEN
	}
	if _, err := game.NewEngineFromFEN(fen); err != nil {
		return nil, err
	}
	return &Server{
		games:    make(map[uuid.UUID]*game.Engine),
		store:    opts.Store,
		startFEN: fen,
	}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/games", s.withJSON(s.handleListGames))
	mux.HandleFunc("POST /api/games", s.withJSON(s.handleCreateGame))
	mux.HandleFunc("GET /api/games/{id}", s.withJSON(s.handleState))
	mux.HandleFunc("DELETE /api/games/{id}", s.withJSON(s.handleDeleteGame))

	mux.HandleFunc("POST /api/games/{id}/start", s.withJSON(s.handleStart))
	mux.HandleFunc("POST /api/games/{id}/reset", s.withJSON(s.handleReset))
	mux.HandleFunc("POST /api/games/{id}/move", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/games/{id}/board-move", s.withJSON(s.handleBoardMove))
	mux.HandleFunc("POST /api/games/{id}/relay", s.withJSON(s.handleRelay))
	mux.HandleFunc("POST /api/games/{id}/notation", s.withJSON(s.handleNotation))
	mux.HandleFunc("POST /api/games/{id}/promote", s.withJSON(s.handlePromote))
	mux.HandleFunc("POST /api/games/{id}/cancel-promotion", s.withJSON(s.handleCancelPromotion))
	mux.HandleFunc("POST /api/games/{id}/undo", s.withJSON(s.handleUndo))
	mux.HandleFunc("POST /api/games/{id}/redo", s.withJSON(s.handleRedo))
	mux.HandleFunc("POST /api/games/{id}/takeback", s.withJSON(s.handleTakeback))
	mux.HandleFunc("POST /api/games/{id}/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("POST /api/games/{id}/timeout", s.withJSON(s.handleTimeout))
	mux.HandleFunc("POST /api/games/{id}/draw", s.withJSON(s.handleDraw))
	mux.HandleFunc("GET /api/games/{id}/destinations", s.withJSON(s.handleDestinations))
	mux.HandleFunc("GET /api/games/{id}/fen", s.withJSON(s.handleGetFEN))
	mux.HandleFunc("POST /api/games/{id}/fen", s.withJSON(s.handleLoadFEN))
	mux.HandleFunc("GET /api/games/{id}/pgn", s.withJSON(s.handleGetPGN))
	mux.HandleFunc("POST /api/games/{id}/pgn", s.withJSON(s.handleLoadPGN))
	mux.HandleFunc("POST /api/games/{id}/save", s.withJSON(s.handleSave))

	mux.HandleFunc("GET /api/saved", s.withJSON(s.handleListSaved))
	mux.HandleFunc("POST /api/saved/{id}/open", s.withJSON(s.handleOpenSaved))
	mux.HandleFunc("DELETE /api/saved/{id}", s.withJSON(s.handleDeleteSaved))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody reads an optional JSON body into v. It writes the error
// response itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	var illegal *game.IllegalMoveError
	var format *game.FormatError
	var rng *game.RangeError
	switch {
	case errors.Is(err, errUnknownGame), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &illegal), errors.As(err, &format), errors.As(err, &rng),
		errors.Is(err, game.ErrNoPiece), errors.Is(err, game.ErrNoAttackBoard),
		errors.Is(err, game.ErrInvalidPromotion):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrPromotionPending), errors.Is(err, game.ErrNoPromotionPending),
		errors.Is(err, game.ErrNothingToUndo), errors.Is(err, game.ErrNothingToRedo),
		errors.Is(err, game.ErrDrawOfferUnavailable), errors.Is(err, game.ErrNoDrawOffer):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func gameID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errUnknownGame
	}
	return id, nil
}

// act runs fn against the game named in the path and answers with the
// resulting state. A move suspended for promotion is a success carrying a
// message.
func (s *Server) act(w http.ResponseWriter, r *http.Request, fn func(*game.Engine) error) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.gamesMu.Lock()
	eng, ok := s.games[id]
	if !ok {
		s.gamesMu.Unlock()
		writeError(w, http.StatusNotFound, errUnknownGame.Error())
		return
	}
	err = fn(eng)
	state := eng.State()
	s.gamesMu.Unlock()

	switch {
	case err == nil:
		writeJSON(w, map[string]any{"id": id, "state": state})
	case errors.Is(err, game.ErrSuspendedForPromotion):
		writeJSON(w, map[string]any{"id": id, "state": state, "message": err.Error()})
	default:
		writeError(w, statusFor(err), err.Error())
	}
}

// ---- API: registry ----

type createBody struct {
	FEN   string `json:"fen"`
	PGN   string `json:"pgn"`
	White string `json:"white"`
	Black string `json:"black"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if !decodeBody(w, r, &body) {
		return
	}
	var (
		eng *game.Engine
		err error
	)
	switch {
	case strings.TrimSpace(body.PGN) != "":
		eng, err = game.ParsePGN(body.PGN)
	case strings.TrimSpace(body.FEN) != "":
		eng, err = game.NewEngineFromFEN(strings.TrimSpace(body.FEN))
	default:
		eng, err = game.NewEngineFromFEN(s.startFEN)
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if body.White != "" {
		eng.Tags().Set("White", body.White)
	}
	if body.Black != "" {
		eng.Tags().Set("Black", body.Black)
	}

	id := uuid.New()
	s.gamesMu.Lock()
	s.games[id] = eng
	state := eng.State()
	s.gamesMu.Unlock()
	log.Printf("game %s created", id)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"id": id, "state": state})
}

type gameSummary struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Result string    `json:"result"`
	Plies  int       `json:"plies"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.gamesMu.Lock()
	out := make([]gameSummary, 0, len(s.games))
	for id, eng := range s.games {
		out = append(out, gameSummary{
			ID:     id,
			Status: eng.Status().String(),
			Result: eng.Status().Result(),
			Plies:  len(eng.Moves()),
		})
	}
	s.gamesMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	writeJSON(w, map[string]any{"games": out})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(*game.Engine) error { return nil })
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.gamesMu.Lock()
	_, ok := s.games[id]
	delete(s.games, id)
	s.gamesMu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownGame.Error())
		return
	}
	log.Printf("game %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error {
		e.Start()
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error { return e.LoadFEN(s.startFEN) })
}

// ---- API: moves ----

type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Rotate    bool   `json:"rotate"`
	Promotion string `json:"promotion"`
}

func parsePromotion(text string) (game.PieceType, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}
	pt, ok := game.ParsePromotionPiece(text)
	if !ok {
		return 0, false, game.ErrInvalidPromotion
	}
	return pt, true, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	from, err := shared.AnnotationToSquare(strings.TrimSpace(body.From))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from square: "+err.Error())
		return
	}
	to, err := shared.AnnotationToSquare(strings.TrimSpace(body.To))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to square: "+err.Error())
		return
	}
	pt, has, err := parsePromotion(body.Promotion)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid promotion choice")
		return
	}
	s.act(w, r, func(e *game.Engine) error {
		return e.Move(game.MoveRequest{From: from, To: to, Promotion: pt, HasPromotion: has})
	})
}

func (s *Server) handleBoardMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	from, err := shared.ParseSlot(strings.TrimSpace(body.From))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from board: "+err.Error())
		return
	}
	req := game.BoardMoveRequest{From: from, Rotate: body.Rotate}
	if !body.Rotate {
		if req.To, err = shared.ParseSlot(strings.TrimSpace(body.To)); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to board: "+err.Error())
			return
		}
	}
	if req.Promotion, req.HasPromotion, err = parsePromotion(body.Promotion); err != nil {
		writeError(w, http.StatusBadRequest, "invalid promotion choice")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.MoveBoard(req) })
}

type relayBody struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	AttackBoard bool   `json:"attackBoard"`
	Color       string `json:"color"`
	Promotion   string `json:"promotion"`
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	var body relayBody
	if !decodeBody(w, r, &body) {
		return
	}
	color, ok := parseColor(body.Color)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid color")
		return
	}
	start, err := shared.AnnotationToSquare(strings.TrimSpace(body.Start))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start square: "+err.Error())
		return
	}
	end, err := shared.AnnotationToSquare(strings.TrimSpace(body.End))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end square: "+err.Error())
		return
	}
	rm := game.RelayedMove{Start: start, End: end, AttackBoard: body.AttackBoard, Color: color}
	if rm.Promotion, rm.HasPromotion, err = parsePromotion(body.Promotion); err != nil {
		writeError(w, http.StatusBadRequest, "invalid promotion choice")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.ApplyRelayedMove(rm) })
}

type notationBody struct {
	Move string `json:"move"`
}

func (s *Server) handleNotation(w http.ResponseWriter, r *http.Request) {
	var body notationBody
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Move) == "" {
		writeError(w, http.StatusBadRequest, "missing move")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.PlayNotation(strings.TrimSpace(body.Move)) })
}

type promoteBody struct {
	Piece string `json:"piece"`
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	var body promoteBody
	if !decodeBody(w, r, &body) {
		return
	}
	pt, ok := game.ParsePromotionPiece(strings.TrimSpace(body.Piece))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid promotion choice")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.Promote(pt) })
}

func (s *Server) handleCancelPromotion(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error { return e.CancelPromotion() })
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error { return e.Undo() })
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error { return e.Redo() })
}

func (s *Server) handleTakeback(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, func(e *game.Engine) error { return e.Takeback() })
}

// ---- API: game end ----

type colorBody struct {
	Color  string `json:"color"`
	Action string `json:"action"`
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	var body colorBody
	if !decodeBody(w, r, &body) {
		return
	}
	color, ok := parseColor(body.Color)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid color")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.Resign(color) })
}

func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	var body colorBody
	if !decodeBody(w, r, &body) {
		return
	}
	color, ok := parseColor(body.Color)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid color")
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.ReportTimeout(color) })
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var body colorBody
	if !decodeBody(w, r, &body) {
		return
	}
	color, ok := parseColor(body.Color)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid color")
		return
	}
	var fn func(*game.Engine) error
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "offer":
		fn = func(e *game.Engine) error { return e.OfferDraw(color) }
	case "accept":
		fn = func(e *game.Engine) error { return e.AcceptDraw(color) }
	case "decline":
		fn = func(e *game.Engine) error { return e.DeclineDraw(color) }
	default:
		writeError(w, http.StatusBadRequest, "action must be offer, accept or decline")
		return
	}
	s.act(w, r, fn)
}

// ---- API: queries ----

type boardDestination struct {
	Slot   string `json:"slot"`
	Rotate bool   `json:"rotate,omitempty"`
}

// handleDestinations answers ?from=<square> with piece destinations and
// ?board=<slot> with attack-board destinations.
func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if board := strings.TrimSpace(q.Get("board")); board != "" {
		slot, err := shared.ParseSlot(board)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid board: "+err.Error())
			return
		}
		s.query(w, r, func(e *game.Engine) (any, error) {
			dests, err := e.BoardDestinations(slot)
			if err != nil {
				return nil, err
			}
			out := make([]boardDestination, 0, len(dests))
			for _, d := range dests {
				out = append(out, boardDestination{Slot: d.Slot.String(), Rotate: d.Rotate})
			}
			return map[string]any{"board": slot.String(), "destinations": out}, nil
		})
		return
	}
	from, err := shared.AnnotationToSquare(strings.TrimSpace(q.Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from square: "+err.Error())
		return
	}
	s.query(w, r, func(e *game.Engine) (any, error) {
		dests, err := e.LegalDestinations(from)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(dests))
		for _, d := range dests {
			out = append(out, d.String())
		}
		return map[string]any{"from": from.String(), "destinations": out}, nil
	})
}

// query runs fn against the game named in the path and writes its result.
func (s *Server) query(w http.ResponseWriter, r *http.Request, fn func(*game.Engine) (any, error)) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.gamesMu.Lock()
	eng, ok := s.games[id]
	if !ok {
		s.gamesMu.Unlock()
		writeError(w, http.StatusNotFound, errUnknownGame.Error())
		return
	}
	v, err := fn(eng)
	s.gamesMu.Unlock()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, v)
}

// ---- API: FEN / PGN ----

type fenBody struct {
	FEN string `json:"fen"`
}

type pgnBody struct {
	PGN string `json:"pgn"`
}

func (s *Server) handleGetFEN(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(e *game.Engine) (any, error) {
		return fenBody{FEN: e.FEN()}, nil
	})
}

func (s *Server) handleLoadFEN(w http.ResponseWriter, r *http.Request) {
	var body fenBody
	if !decodeBody(w, r, &body) {
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.LoadFEN(strings.TrimSpace(body.FEN)) })
}

func (s *Server) handleGetPGN(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(e *game.Engine) (any, error) {
		return pgnBody{PGN: e.PGN()}, nil
	})
}

func (s *Server) handleLoadPGN(w http.ResponseWriter, r *http.Request) {
	var body pgnBody
	if !decodeBody(w, r, &body) {
		return
	}
	s.act(w, r, func(e *game.Engine) error { return e.LoadPGN(body.PGN) })
}

// ---- API: persistence ----

var errNoStore = errors.New("persistence is disabled")

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errNoStore.Error())
		return
	}
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.gamesMu.Lock()
	eng, ok := s.games[id]
	var saved store.SavedGame
	if ok {
		saved = store.FromEngine(id, eng)
	}
	s.gamesMu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownGame.Error())
		return
	}
	if err := s.store.Save(r.Context(), &saved); err != nil {
		log.Printf("save %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, map[string]any{"id": saved.ID, "savedAt": saved.UpdatedAt})
}

type savedSummary struct {
	ID        uuid.UUID `json:"id"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	Result    string    `json:"result"`
	Status    string    `json:"status"`
	Plies     int       `json:"plies"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errNoStore.Error())
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		log.Printf("list saved: %v", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	out := make([]savedSummary, 0, len(list))
	for _, g := range list {
		out = append(out, savedSummary{
			ID:        g.ID,
			White:     g.White,
			Black:     g.Black,
			Result:    g.Result,
			Status:    g.Status,
			Plies:     g.Plies,
			UpdatedAt: g.UpdatedAt,
		})
	}
	writeJSON(w, map[string]any{"saved": out})
}

// handleOpenSaved replays a saved game into the registry under its saved
// ID, replacing any live game with that ID.
func (s *Server) handleOpenSaved(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errNoStore.Error())
		return
	}
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	saved, err := s.store.Load(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	eng, err := saved.Engine()
	if err != nil {
		log.Printf("open %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.gamesMu.Lock()
	s.games[id] = eng
	state := eng.State()
	s.gamesMu.Unlock()
	writeJSON(w, map[string]any{"id": id, "state": state})
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errNoStore.Error())
		return
	}
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- parsing helpers ----

func parseColor(s string) (game.Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return game.White, true
	case "black", "b":
		return game.Black, true
	default:
		return 0, false
	}
}
