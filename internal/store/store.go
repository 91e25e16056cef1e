// Package store keeps saved games in a SQL database through gorm. A saved
// game is its PGN record plus a few columns for listing.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
)

var ErrNotFound = errors.New("saved game not found")

// SavedGame is one stored game.
type SavedGame struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	White     string
	Black     string
	FEN       string
	PGN       string
	Result    string
	Status    string `gorm:"index"`
	Plies     int
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (g *SavedGame) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// FromEngine captures e under id. A nil id gets a fresh one on first save.
func FromEngine(id uuid.UUID, e *game.Engine) SavedGame {
	white, _ := e.Tags().Get("White")
	black, _ := e.Tags().Get("Black")
	return SavedGame{
		ID:     id,
		White:  white,
		Black:  black,
		FEN:    e.FEN(),
		PGN:    e.PGN(),
		Result: e.Status().Result(),
		Status: e.Status().String(),
		Plies:  len(e.Moves()),
	}
}

// Engine replays the stored record.
func (g SavedGame) Engine() (*game.Engine, error) {
	e, err := game.ParsePGN(g.PGN)
	if err != nil {
		return nil, fmt.Errorf("saved game %s: %w", g.ID, err)
	}
	return e, nil
}

type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and migrates
// the schema. gorm's logger is silent unless debug is set.
func Open(path string, debug bool) (*Store, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&SavedGame{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save inserts g, or updates it when a row with its ID exists.
func (s *Store) Save(ctx context.Context, g *SavedGame) error {
	if g.ID == uuid.Nil {
		return s.db.WithContext(ctx).Create(g).Error
	}
	return s.db.WithContext(ctx).Save(g).Error
}

func (s *Store) Load(ctx context.Context, id uuid.UUID) (*SavedGame, error) {
	var g SavedGame
	err := s.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns every saved game, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SavedGame, error) {
	var out []SavedGame
	if err := s.db.WithContext(ctx).Order("updated_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&SavedGame{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
