package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
)

var _ persistence.LogDao = new(LogDao)

// LogDao writes the append-only audit trail. It is a pure sink; nothing in
// the dispatch core reads it back.
type LogDao struct {
	db *sql.DB
}

func NewLogDao(db *sql.DB) *LogDao {
	return &LogDao{db: db}
}

func (d *LogDao) Append(ctx context.Context, entry model.LogEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}
	_, err := d.db.ExecContext(ctx, `
		insert into logs(level, message, context, metadata, created_at)
		values ($1,$2,$3,$4,now())
	`, entry.Level, entry.Message, entry.Context, metadata)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
