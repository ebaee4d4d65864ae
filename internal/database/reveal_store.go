package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/logging"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

// RevealStore keeps the revealed days in the revealed_days table
type RevealStore struct {
	db     *DB
	logger zerolog.Logger
}

// RevealRecord is one revealed day with the time it was first stored
type RevealRecord struct {
	Day        int
	RevealedAt time.Time
}

var _ reveal.Store = (*RevealStore)(nil)

// NewRevealStore creates a store on top of a migrated database
func NewRevealStore(db *DB) *RevealStore {
	return &RevealStore{
		db:     db,
		logger: logging.GetLogger("reveal-store"),
	}
}

// Load returns every stored day in ascending order. An empty table is an
// empty calendar, not an error.
func (s *RevealStore) Load() ([]int, error) {
	rows, err := s.db.conn.Query(`SELECT day FROM revealed_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("failed to query revealed days: %w", err)
	}
	defer rows.Close()

	days := []int{}
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan revealed day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revealed days: %w", err)
	}
	return days, nil
}

// Save replaces the stored set with days in a single transaction. Days that
// stay revealed keep their original revealed_at.
func (s *RevealStore) Save(days []int) error {
	keep := make(map[int]struct{}, len(days))
	for _, day := range days {
		keep[day] = struct{}{}
	}

	err := s.db.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		existing, err := storedDays(tx)
		if err != nil {
			return err
		}

		for _, day := range existing {
			if _, ok := keep[day]; ok {
				continue
			}
			if _, err := tx.Exec(`DELETE FROM revealed_days WHERE day = ?`, day); err != nil {
				return fmt.Errorf("failed to delete day %d: %w", day, err)
			}
		}

		for day := range keep {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO revealed_days (day) VALUES (?)`, day); err != nil {
				return fmt.Errorf("failed to insert day %d: %w", day, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Ints("days", days).Msg("Failed to save revealed days")
		return err
	}

	s.logger.Debug().Int("count", len(keep)).Msg("Saved revealed days")
	return nil
}

// History returns the stored days with their reveal timestamps
func (s *RevealStore) History(ctx context.Context) ([]RevealRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT day, revealed_at FROM revealed_days ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reveal history: %w", err)
	}
	defer rows.Close()

	var records []RevealRecord
	for rows.Next() {
		var record RevealRecord
		if err := rows.Scan(&record.Day, &record.RevealedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reveal record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func storedDays(tx *sql.Tx) ([]int, error) {
	rows, err := tx.Query(`SELECT day FROM revealed_days`)
	if err != nil {
		return nil, fmt.Errorf("failed to query revealed days: %w", err)
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan revealed day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
