package index

import (
	"fmt"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

type Stats struct {
	Loaded  int
	Indexed int
}

func (s Stats) String() string {
	return fmt.Sprintf("loaded=%d indexed=%d", s.Loaded, s.Indexed)
}

// Load inserts the records of one export in a single transaction.
func Load(db *DB, records []parse.Record) (Stats, error) {
	var stats Stats

	tx, err := db.Raw().Beginx()
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		`INSERT INTO messages (id, line_number, ts, sender, text, is_media, is_deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return stats, err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.ID,
			r.LineNumber,
			r.Timestamp.Format(TimeLayout),
			r.Sender,
			r.Text,
			r.IsMedia,
			r.IsDeleted,
		)
		if err != nil {
			return stats, fmt.Errorf("insert message %d: %w", r.ID, err)
		}
		stats.Loaded++
	}

	if err := tx.Commit(); err != nil {
		return stats, err
	}

	stats.Indexed, err = db.IndexedCount()
	if err != nil {
		return stats, fmt.Errorf("count fts: %w", err)
	}
	return stats, nil
}

// OpenLoaded opens a fresh session store holding records.
func OpenLoaded(records []parse.Record) (*DB, error) {
	db, err := Open()
	if err != nil {
		return nil, err
	}
	if _, err := Load(db, records); err != nil {
		db.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return db, nil
}
