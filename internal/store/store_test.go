package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"), false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func move(t *testing.T, e *game.Engine, from, to string) {
	t.Helper()
	f, err := shared.AnnotationToSquare(from)
	if err != nil {
		t.Fatalf("square %s: %v", from, err)
	}
	d, err := shared.AnnotationToSquare(to)
	if err != nil {
		t.Fatalf("square %s: %v", to, err)
	}
	if err := e.Move(game.MoveRequest{From: f, To: d}); err != nil {
		t.Fatalf("%s-%s: %v", from, to, err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	e := game.NewEngine()
	e.Tags().Set("White", "Kirk")
	move(t, e, "a2W", "a4W")
	move(t, e, "d7B", "d5B")

	g := FromEngine(uuid.Nil, e)
	if err := s.Save(ctx, &g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if g.ID == uuid.Nil {
		t.Fatalf("Save should assign an ID")
	}

	got, err := s.Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.White != "Kirk" || got.Plies != 2 || got.Result != "*" || got.Status != game.WhiteTurn.String() {
		t.Fatalf("loaded %+v", got)
	}
	back, err := got.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if back.FEN() != e.FEN() {
		t.Fatalf("FEN %q, want %q", back.FEN(), e.FEN())
	}
}

func TestSaveUpdatesExistingRow(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	e := game.NewEngine()
	g := FromEngine(uuid.Nil, e)
	if err := s.Save(ctx, &g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	move(t, e, "a2W", "a4W")
	next := FromEngine(g.ID, e)
	next.CreatedAt = g.CreatedAt
	if err := s.Save(ctx, &next); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Plies != 1 {
		t.Fatalf("list = %+v", list)
	}
}

func TestSaveWithFreshIDInserts(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	id := uuid.New()
	g := FromEngine(id, game.NewEngine())
	if err := s.Save(ctx, &g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Load(ctx, id); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadAndDeleteMissing(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if _, err := s.Load(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load missing = %v", err)
	}
	if err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing = %v", err)
	}

	g := FromEngine(uuid.Nil, game.NewEngine())
	if err := s.Save(ctx, &g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete = %v", err)
	}
}

func TestFinishedGameKeepsResult(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	e := game.NewEngine()
	move(t, e, "a2W", "a4W")
	if err := e.Resign(game.Black); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	g := FromEngine(uuid.Nil, e)
	if err := s.Save(ctx, &g); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, g.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	back, err := got.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if back.Status() != game.BlackResignation || got.Result != "1-0" {
		t.Fatalf("status %v result %q", back.Status(), got.Result)
	}
}
