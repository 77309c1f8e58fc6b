package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TimeLayout is how message timestamps are stored; it sorts lexically.
const TimeLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    id          INTEGER PRIMARY KEY,
    line_number INTEGER NOT NULL DEFAULT 0,
    ts          TEXT NOT NULL,
    sender      TEXT NOT NULL,
    text        TEXT NOT NULL,
    is_media    INTEGER NOT NULL DEFAULT 0,
    is_deleted  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS messages_sender ON messages(sender);
CREATE INDEX IF NOT EXISTS messages_ts ON messages(ts);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    content=messages,
    content_rowid=id,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES('delete', old.id, old.text);
END;
`

// DB is the store for one analysis session. It lives in memory and is
// gone when closed.
type DB struct {
	db *sqlx.DB
}

func Open() (*DB, error) {
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sqlx.DB {
	return d.db
}

type MessageRow struct {
	ID         int    `db:"id"`
	LineNumber int    `db:"line_number"`
	Ts         string `db:"ts"`
	Sender     string `db:"sender"`
	Text       string `db:"text"`
	IsMedia    bool   `db:"is_media"`
	IsDeleted  bool   `db:"is_deleted"`
}

const messageColumns = "id, line_number, ts, sender, text, is_media, is_deleted"

type SenderCount struct {
	Sender string `db:"sender"`
	Count  int    `db:"n"`
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.Get(&n, "SELECT COUNT(*) FROM messages")
	return n, err
}

func (d *DB) IndexedCount() (int, error) {
	var n int
	err := d.db.Get(&n, "SELECT COUNT(*) FROM messages_fts")
	return n, err
}

// Senders returns every sender with its message count, busiest first.
func (d *DB) Senders() ([]SenderCount, error) {
	var out []SenderCount
	err := d.db.Select(&out,
		"SELECT sender, COUNT(*) AS n FROM messages GROUP BY sender ORDER BY n DESC, sender")
	return out, err
}

// GetMessage returns nil without error when id is unknown.
func (d *DB) GetMessage(id int) (*MessageRow, error) {
	var m MessageRow
	err := d.db.Get(&m, "SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessagesWindow returns a window of messages around a hit message.
// startPos is the number of messages before the returned window and
// totalCount is the number of messages in the session. A negative hitID
// returns every message.
func (d *DB) GetMessagesWindow(hitID, context int) (rows []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	totalCount, err = d.MessageCount()
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// find the row_number (0-based position) of the hit message
	hitPos := -1
	if hitID >= 0 {
		err = d.db.Get(&hitPos, `
			SELECT pos FROM (
				SELECT id, ROW_NUMBER() OVER (ORDER BY id) - 1 AS pos
				FROM messages
			) WHERE id = ?`,
			hitID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			hitPos = -1
			err = nil
		} else if err != nil {
			return nil, -1, 0, 0, err
		}
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = hitPos - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitPos + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	err = d.db.Select(&rows,
		"SELECT "+messageColumns+" FROM messages ORDER BY id LIMIT ? OFFSET ?",
		limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	hitIdx = -1
	for i, r := range rows {
		if r.ID == hitID {
			hitIdx = i
			break
		}
	}
	return rows, hitIdx, startPos, totalCount, nil
}
