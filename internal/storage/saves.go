package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tetrix-game/tetrix/internal/engine"
)

// ErrSaveNotFound is returned when no save matches.
var ErrSaveNotFound = errors.New("storage: save not found")

// SaveSlot describes a stored game without its payload.
type SaveSlot struct {
	ID        uuid.UUID
	Mode      string
	Score     int
	UpdatedAt time.Time
}

// PutSave stores a game in progress. A zero id creates a new slot; any other
// id overwrites that slot. Returns the slot id.
func (s *Store) PutSave(id uuid.UUID, mode string, data engine.SaveData) (uuid.UUID, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot encode save: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saves (id, mode, score, payload, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		   mode = excluded.mode,
		   score = excluded.score,
		   payload = excluded.payload,
		   updated_at = CURRENT_TIMESTAMP`,
		id.String(), mode, data.Score, string(payload),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save game: %w", err)
	}
	return id, nil
}

// LoadSave returns the stored game in a slot.
func (s *Store) LoadSave(id uuid.UUID) (SaveSlot, engine.SaveData, error) {
	row := s.db.QueryRow(
		`SELECT id, mode, score, payload, updated_at FROM saves WHERE id = ?`,
		id.String(),
	)
	return scanSave(row)
}

// LatestSave returns the most recently written save for a mode.
func (s *Store) LatestSave(mode string) (SaveSlot, engine.SaveData, error) {
	row := s.db.QueryRow(
		`SELECT id, mode, score, payload, updated_at
		 FROM saves WHERE mode = ?
		 ORDER BY updated_at DESC, rowid DESC
		 LIMIT 1`,
		mode,
	)
	return scanSave(row)
}

func scanSave(row *sql.Row) (SaveSlot, engine.SaveData, error) {
	var slot SaveSlot
	var data engine.SaveData
	var rawID, payload string
	var updatedAt any

	err := row.Scan(&rawID, &slot.Mode, &slot.Score, &payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return slot, data, ErrSaveNotFound
	}
	if err != nil {
		return slot, data, fmt.Errorf("storage: cannot query save: %w", err)
	}

	slot.ID, err = uuid.Parse(rawID)
	if err != nil {
		return slot, data, fmt.Errorf("storage: bad save id %q: %w", rawID, err)
	}
	slot.UpdatedAt = parseTime(updatedAt)
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return slot, data, fmt.Errorf("storage: cannot decode save %s: %w", slot.ID, err)
	}
	return slot, data, nil
}

// ListSaves returns saved slots, newest first.
func (s *Store) ListSaves(limit int) ([]SaveSlot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, score, updated_at
		 FROM saves
		 ORDER BY updated_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var slots []SaveSlot
	for rows.Next() {
		var slot SaveSlot
		var rawID string
		var updatedAt any
		if err := rows.Scan(&rawID, &slot.Mode, &slot.Score, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if slot.ID, err = uuid.Parse(rawID); err != nil {
			continue
		}
		slot.UpdatedAt = parseTime(updatedAt)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return slots, nil
}

// DeleteSave removes a slot. Deleting a missing slot is not an error.
func (s *Store) DeleteSave(id uuid.UUID) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}
