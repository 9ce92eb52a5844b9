package playback

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showdeck/showdeck/migrations"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	goose.SetBaseFS(migrations.GetMigrations())

	err = goose.SetDialect("sqlite3")
	require.NoError(t, err)

	err = goose.Up(db.DB, ".")
	require.NoError(t, err)

	return db
}

func TestStore_RecordStartAndStop(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.RecordStart("card:1:youtube:99", "card:1", "youtube", "https://www.youtube.com/embed/abc")
	require.NoError(t, err)

	err = store.RecordStop("card:1:youtube:99", "clip_end")
	require.NoError(t, err)

	results, err := store.History(7)
	require.NoError(t, err)
	require.Len(t, results, 1)

	s := results[0]
	assert.Equal(t, "card:1:youtube:99", s.HandleID)
	assert.Equal(t, "card:1", s.CardID)
	assert.Equal(t, "youtube", s.Kind)
	assert.Equal(t, "https://www.youtube.com/embed/abc", s.Src)
	assert.True(t, s.StoppedAt.Valid)
	assert.Equal(t, "clip_end", s.Reason.String)
}

func TestStore_RecordStartClosesDanglingSession(t *testing.T) {
	store := NewStore(setupTestDB(t))

	require.NoError(t, store.RecordStart("h1", "card:1", "video", "video/demo.mp4"))
	// a second start without a stop, e.g. after a crash
	require.NoError(t, store.RecordStart("h1", "card:1", "video", "video/demo.mp4"))

	results, err := store.History(7)
	require.NoError(t, err)
	require.Len(t, results, 2)

	var open, superseded int
	for _, s := range results {
		if !s.StoppedAt.Valid {
			open++
			continue
		}
		if s.Reason.String == "superseded" {
			superseded++
		}
	}
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, superseded)
}

func TestStore_RecordStopWithoutOpenSessionIsNoOp(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.RecordStop("never-started", "interrupted")
	assert.NoError(t, err)
}

func TestStore_HistoryRequiresPositiveLimit(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.History(0)
	assert.Error(t, err)
}

func TestStore_HistoryLimitsAndOrders(t *testing.T) {
	store := NewStore(setupTestDB(t))

	require.NoError(t, store.RecordStart("h1", "card:1", "video", "a"))
	require.NoError(t, store.RecordStart("h2", "card:2", "youtube", "b"))
	require.NoError(t, store.RecordStart("h3", "card:3", "embed", "c"))

	results, err := store.History(2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// newest first
	assert.Equal(t, "h3", results[0].HandleID)
	assert.Equal(t, "h2", results[1].HandleID)
}

func TestStore_HistoryPropagatesQueryErrors(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	mock.ExpectQuery("SELECT id, handle_id").WillReturnError(assert.AnError)

	store := NewStore(sqlx.NewDb(db, "sqlmock"))
	_, err = store.History(7)
	assert.Error(t, err)
}
