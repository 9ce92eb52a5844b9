package playback

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Session is one recorded stretch of playback. A session opens when a handle
// starts (or an embed goes live) and closes with a reason when it stops.
type Session struct {
	ID        int            `db:"id" json:"-"`
	HandleID  string         `db:"handle_id" json:"handle_id"`
	CardID    string         `db:"card_id" json:"card_id"`
	Kind      string         `db:"kind" json:"kind"`
	Src       string         `db:"src" json:"src"`
	StartedAt time.Time      `db:"started_at" json:"started_at"`
	StoppedAt sql.NullTime   `db:"stopped_at" json:"stopped_at"`
	Reason    sql.NullString `db:"reason" json:"reason"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// RecordStart opens a session for the handle, first closing any session left
// dangling by a crash or missed stop so at most one stays open per handle.
func (s *Store) RecordStart(handleID, cardID, kind, src string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	var committed bool
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	now := time.Now()

	_, err = tx.Exec(`
	  UPDATE playback_sessions
	  SET stopped_at = ?, reason = 'superseded'
	  WHERE handle_id = ? AND stopped_at IS NULL`,
		now, handleID)
	if err != nil {
		return fmt.Errorf("failed to close dangling session: %w", err)
	}

	_, err = tx.Exec(`
	  INSERT INTO playback_sessions (handle_id, card_id, kind, src, started_at)
	  VALUES (?, ?, ?, ?, ?)`,
		handleID, cardID, kind, src, now)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RecordStop closes the newest open session for the handle. Stopping a
// handle with no open session is a no-op rather than an error; stop calls
// arrive from several event sources and often race a prior close.
func (s *Store) RecordStop(handleID, reason string) error {
	_, err := s.db.Exec(`
	  UPDATE playback_sessions
	  SET stopped_at = ?, reason = ?
	  WHERE id = (
	    SELECT id FROM playback_sessions
	    WHERE handle_id = ? AND stopped_at IS NULL
	    ORDER BY started_at DESC LIMIT 1
	  )`,
		time.Now(), reason, handleID)
	return err
}

func (s *Store) History(limit int) ([]Session, error) {
	var results []Session

	if limit <= 0 {
		return results, fmt.Errorf("must request at least one historical session")
	}

	err := s.db.Select(&results, `
	  SELECT id, handle_id, card_id, kind, src, started_at, stopped_at, reason
	  FROM playback_sessions
	  ORDER BY started_at DESC, id DESC
	  LIMIT ?`, limit)

	return results, err
}
