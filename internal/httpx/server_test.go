package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/store"
)

type reply struct {
	ID      string          `json:"id"`
	State   game.BoardState `json:"state"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newHandler(t *testing.T, opts Options) http.Handler {
	t.Helper()
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv.routes()
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) reply {
	t.Helper()
	var out reply
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func createGame(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rr := serve(t, h, http.MethodPost, "/api/games", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rr.Code, rr.Body.String())
	}
	id := decode(t, rr).ID
	if id == "" {
		t.Fatalf("create returned no id")
	}
	return id
}

func TestCreateGameAndMove(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, `{"white":"Kirk","black":"Spock"}`)

	rr := serve(t, h, http.MethodGet, "/api/games/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("state: status %d", rr.Code)
	}
	st := decode(t, rr).State
	if st.Status != "pre-game" || len(st.Pieces) != 32 || st.FEN != game.StandardFEN {
		t.Fatalf("fresh game state = %s, %d pieces, %q", st.Status, len(st.Pieces), st.FEN)
	}
	if got := rr.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Fatalf("CSP header = %q", got)
	}

	rr = serve(t, h, http.MethodPost, "/api/games/"+id+"/move", `{"from":"a2W","to":"a4W"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("move: status %d body %s", rr.Code, rr.Body.String())
	}
	st = decode(t, rr).State
	if st.Turn != "black" || len(st.Moves) != 1 || st.Moves[0].Notation != "a4W" {
		t.Fatalf("after move: turn %s moves %+v", st.Turn, st.Moves)
	}

	rr = serve(t, h, http.MethodGet, "/api/games/"+id+"/pgn", "")
	var pgn pgnBody
	if err := json.Unmarshal(rr.Body.Bytes(), &pgn); err != nil {
		t.Fatalf("decode pgn: %v", err)
	}
	if !strings.Contains(pgn.PGN, `[White "Kirk"]`) || !strings.Contains(pgn.PGN, "1. a4W *") {
		t.Fatalf("pgn = %s", pgn.PGN)
	}
}

func TestMoveErrors(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"illegal", "/api/games/" + id + "/move", `{"from":"a2W","to":"a5W"}`, http.StatusBadRequest},
		{"wrong side", "/api/games/" + id + "/move", `{"from":"d7B","to":"d5B"}`, http.StatusConflict},
		{"empty square", "/api/games/" + id + "/move", `{"from":"b3W","to":"b4W"}`, http.StatusBadRequest},
		{"bad square", "/api/games/" + id + "/move", `{"from":"q9W","to":"a4W"}`, http.StatusBadRequest},
		{"bad promotion", "/api/games/" + id + "/move", `{"from":"a2W","to":"a4W","promotion":"king"}`, http.StatusBadRequest},
		{"bad json", "/api/games/" + id + "/move", `{"from":`, http.StatusBadRequest},
		{"stuck board", "/api/games/" + id + "/board-move", `{"from":"QL1","to":"QL3"}`, http.StatusBadRequest},
		{"nothing to undo", "/api/games/" + id + "/undo", "", http.StatusConflict},
		{"no promotion", "/api/games/" + id + "/promote", `{"piece":"queen"}`, http.StatusConflict},
		{"unknown game", "/api/games/00000000-0000-0000-0000-000000000001/move", `{"from":"a2W","to":"a4W"}`, http.StatusNotFound},
		{"malformed id", "/api/games/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodPost
			if tt.body == "" && !strings.HasSuffix(tt.path, "/undo") {
				method = http.MethodGet
			}
			rr := serve(t, h, method, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			if decode(t, rr).Error == "" {
				t.Fatalf("missing error message")
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	big := `{"from":"` + strings.Repeat("a", int(maxJSONBodyBytes)) + `"}`
	rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/move", big)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestPromotionFlow(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, `{"fen":"- 3k/1P2/4/4|4/4/4/4|4/4/4/K3 w - - 0 1"}`)

	rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/move", `{"from":"b7B","to":"b8B"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("move: status %d body %s", rr.Code, rr.Body.String())
	}
	got := decode(t, rr)
	if got.Message == "" || !got.State.PendingPromotion || got.State.Turn != "white" {
		t.Fatalf("expected a pending promotion, got %+v", got)
	}

	rr = serve(t, h, http.MethodPost, "/api/games/"+id+"/promote", `{"piece":"bishop"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("promote: status %d body %s", rr.Code, rr.Body.String())
	}
	st := decode(t, rr).State
	if st.PendingPromotion || len(st.Moves) != 1 || st.Moves[0].Notation != "b8B=B" {
		t.Fatalf("after promote: %+v", st.Moves)
	}
}

func TestCancelPromotion(t *testing.T) {
	fen := "- 3k/1P2/4/4|4/4/4/4|4/4/4/K3 w - - 0 1"
	h := newHandler(t, Options{})
	id := createGame(t, h, `{"fen":"`+fen+`"}`)
	serve(t, h, http.MethodPost, "/api/games/"+id+"/move", `{"from":"b7B","to":"b8B"}`)
	rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/cancel-promotion", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel: status %d body %s", rr.Code, rr.Body.String())
	}
	if st := decode(t, rr).State; st.PendingPromotion || st.FEN != fen {
		t.Fatalf("after cancel: pending %v fen %q", st.PendingPromotion, st.FEN)
	}
}

func TestBoardMoveAndDestinations(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, `{"fen":"w1 k3/4/4/4|4/4/4/4|4/4/4/3K|D1/2 w - - 0 1"}`)

	rr := serve(t, h, http.MethodGet, "/api/games/"+id+"/destinations?board=QL1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("destinations: status %d body %s", rr.Code, rr.Body.String())
	}
	var boards struct {
		Destinations []boardDestination `json:"destinations"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &boards); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(boards.Destinations) != 5 {
		t.Fatalf("board destinations = %+v", boards.Destinations)
	}

	rr = serve(t, h, http.MethodPost, "/api/games/"+id+"/board-move", `{"from":"QL1","to":"QL3"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("board-move: status %d body %s", rr.Code, rr.Body.String())
	}
	st := decode(t, rr).State
	if len(st.Moves) != 1 || !st.Moves[0].AttackBoard || st.Turn != "black" {
		t.Fatalf("after board move: %+v", st.Moves)
	}
	found := false
	for _, b := range st.AttackBoards {
		if b.Slot == "QL3" && b.Owner == "white" {
			found = true
		}
	}
	if !found {
		t.Fatalf("attack boards = %+v", st.AttackBoards)
	}
}

func TestPieceDestinations(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	rr := serve(t, h, http.MethodGet, "/api/games/"+id+"/destinations?from=a1W", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Destinations []string `json:"destinations"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(out.Destinations, ",") != "b3W,b3N" && strings.Join(out.Destinations, ",") != "b3N,b3W" {
		t.Fatalf("destinations = %v", out.Destinations)
	}

	rr = serve(t, h, http.MethodGet, "/api/games/"+id+"/destinations?from=b3W", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty square: status %d", rr.Code)
	}
}

func TestDrawResignAndUndo(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	path := "/api/games/" + id

	serve(t, h, http.MethodPost, path+"/move", `{"from":"a2W","to":"a4W"}`)
	if rr := serve(t, h, http.MethodPost, path+"/undo", `{}`); rr.Code != http.StatusOK {
		t.Fatalf("undo: %d", rr.Code)
	}
	if rr := serve(t, h, http.MethodPost, path+"/redo", `{}`); rr.Code != http.StatusOK {
		t.Fatalf("redo: %d", rr.Code)
	}
	if rr := serve(t, h, http.MethodPost, path+"/draw", `{"color":"black","action":"wave"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad action: %d", rr.Code)
	}
	if rr := serve(t, h, http.MethodPost, path+"/draw", `{"color":"black","action":"offer"}`); rr.Code != http.StatusOK {
		t.Fatalf("offer: %d %s", rr.Code, rr.Body.String())
	}
	rr := serve(t, h, http.MethodPost, path+"/draw", `{"color":"white","action":"accept"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", rr.Code, rr.Body.String())
	}
	if st := decode(t, rr).State; st.Status != "draw-agreement" || st.Result != "1/2-1/2" {
		t.Fatalf("status %s result %s", st.Status, st.Result)
	}
	if rr := serve(t, h, http.MethodPost, path+"/resign", `{"color":"white"}`); rr.Code != http.StatusConflict {
		t.Fatalf("resign after the end: %d", rr.Code)
	}

	other := createGame(t, h, "")
	rr = serve(t, h, http.MethodPost, "/api/games/"+other+"/resign", `{"color":"w"}`)
	if st := decode(t, rr).State; rr.Code != http.StatusOK || st.Result != "0-1" {
		t.Fatalf("resign: %d %+v", rr.Code, st)
	}
	rr = serve(t, h, http.MethodPost, "/api/games/"+other+"/timeout", `{"color":"purple"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad color: %d", rr.Code)
	}
}

func TestRelayRejectsWrongSide(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	path := "/api/games/" + id + "/relay"
	if rr := serve(t, h, http.MethodPost, path, `{"start":"d7B","end":"d5B","color":"black"}`); rr.Code != http.StatusConflict {
		t.Fatalf("out of turn relay: %d", rr.Code)
	}
	rr := serve(t, h, http.MethodPost, path, `{"start":"a2W","end":"a4W","color":"white"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("relay: %d %s", rr.Code, rr.Body.String())
	}
	if rr := serve(t, h, http.MethodPost, path, `{"start":"a2W","end":"a4W","color":"white"}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate relay: %d", rr.Code)
	}
}

func TestNotationMove(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/notation", `{"move":"a4W"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	if rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/notation", `{"move":"Qz9W"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown notation: %d", rr.Code)
	}
}

func TestLoadFENKeepsGameOnError(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	path := "/api/games/" + id
	serve(t, h, http.MethodPost, path+"/move", `{"from":"a2W","to":"a4W"}`)

	if rr := serve(t, h, http.MethodPost, path+"/fen", `{"fen":"not a fen"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad fen: %d", rr.Code)
	}
	rr := serve(t, h, http.MethodGet, path, "")
	if st := decode(t, rr).State; len(st.Moves) != 1 {
		t.Fatalf("failed load changed the game: %+v", st.Moves)
	}

	fen := "- k3/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"
	if rr := serve(t, h, http.MethodPost, path+"/fen", `{"fen":"`+fen+`"}`); rr.Code != http.StatusOK {
		t.Fatalf("load fen: %d %s", rr.Code, rr.Body.String())
	}
	rr = serve(t, h, http.MethodGet, path+"/fen", "")
	var got fenBody
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || got.FEN != fen {
		t.Fatalf("fen = %q (%v)", got.FEN, err)
	}
}

func TestCreateRejectsBadPosition(t *testing.T) {
	h := newHandler(t, Options{})
	rr := serve(t, h, http.MethodPost, "/api/games", `{"fen":"- 4/4/4/4|4/4/4/4|4/4/4/4 w - - 0 1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
	if _, err := NewServer(Options{StartFEN: "garbage"}); err == nil {
		t.Fatalf("NewServer accepted a bad start position")
	}
}

func TestListAndDeleteGames(t *testing.T) {
	h := newHandler(t, Options{})
	a := createGame(t, h, "")
	createGame(t, h, "")
	rr := serve(t, h, http.MethodGet, "/api/games", "")
	var list struct {
		Games []gameSummary `json:"games"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil || len(list.Games) != 2 {
		t.Fatalf("list = %+v (%v)", list, err)
	}
	if rr := serve(t, h, http.MethodDelete, "/api/games/"+a, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}
	if rr := serve(t, h, http.MethodGet, "/api/games/"+a, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("deleted game still served: %d", rr.Code)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	h := newHandler(t, Options{})
	id := createGame(t, h, "")
	if rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/save", ""); rr.Code != http.StatusNotImplemented {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestSaveAndOpen(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "games.db"), false)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	h := newHandler(t, Options{Store: st})

	id := createGame(t, h, `{"white":"Kirk"}`)
	serve(t, h, http.MethodPost, "/api/games/"+id+"/move", `{"from":"a2W","to":"a4W"}`)
	if rr := serve(t, h, http.MethodPost, "/api/games/"+id+"/save", ""); rr.Code != http.StatusOK {
		t.Fatalf("save: %d %s", rr.Code, rr.Body.String())
	}

	rr := serve(t, h, http.MethodGet, "/api/saved", "")
	var saved struct {
		Saved []savedSummary `json:"saved"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil || len(saved.Saved) != 1 {
		t.Fatalf("saved = %+v (%v)", saved, err)
	}
	if s := saved.Saved[0]; s.ID.String() != id || s.White != "Kirk" || s.Plies != 1 {
		t.Fatalf("summary = %+v", s)
	}

	serve(t, h, http.MethodDelete, "/api/games/"+id, "")
	rr = serve(t, h, http.MethodPost, "/api/saved/"+id+"/open", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("open: %d %s", rr.Code, rr.Body.String())
	}
	if got := decode(t, rr).State; len(got.Moves) != 1 || got.Turn != "black" {
		t.Fatalf("reopened state: %+v", got.Moves)
	}

	if rr := serve(t, h, http.MethodDelete, "/api/saved/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete saved: %d", rr.Code)
	}
	if rr := serve(t, h, http.MethodPost, "/api/saved/"+id+"/open", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("open deleted: %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newHandler(t, Options{})
	rr := serve(t, h, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}
