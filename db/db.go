package db

import (
	"database/sql"
	"fmt"

	"touchtrack/model"

	_ "github.com/mattn/go-sqlite3"
)

// Storage persists decoded key actions.
type Storage interface {
	Store(action *model.Action) error
	GatherCounts() ([]model.ActionCount, error)
	Close()
}

type SQLiteStorage struct {
	db *sql.DB
}

func initDBStorage(db *sql.DB) error {
	sqlStmt := `
	create table if not exists actions(kind text, code int, text text, x int, y int, ts datetime);`

	if _, err := db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("could not create actions table: %w", err)
	}

	sqlStmt = `create index if not exists actions_tsix on actions (ts ASC);`
	if _, err := db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("could not create timestamp index: %w", err)
	}

	return nil
}

// ConnectDB opens (creating if needed) a sqlite action store at path.
// Use ":memory:" for an ephemeral store.
func ConnectDB(path string) (Storage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite database %s: %w", path, err)
	}

	if err := initDBStorage(db); err != nil {
		return nil, err
	}

	return &SQLiteStorage{db}, nil
}

func (s *SQLiteStorage) Store(action *model.Action) error {
	_, err := s.db.Exec(`insert into actions(kind, code, text, x, y, ts)
	    values(?, ?, ?, ?, ?, datetime('now', 'subsec'))`,
		action.Kind, action.Code, action.Text, action.X, action.Y)
	if err != nil {
		return fmt.Errorf("could not store action: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) GatherCounts() ([]model.ActionCount, error) {
	rows, err := s.db.Query(
		`select kind, code, text, count(*) as cnt
        from actions
        group by kind, code, text
        order by cnt desc`)
	if err != nil {
		return nil, fmt.Errorf("could not gather action counts: %w", err)
	}

	defer rows.Close()

	result := make([]model.ActionCount, 0)

	for rows.Next() {
		var row model.ActionCount

		if err := rows.Scan(&row.Kind, &row.Code, &row.Text, &row.Count); err != nil {
			return nil, fmt.Errorf("could not scan action count row: %w", err)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action counts: %w", err)
	}

	return result, nil
}

func (s *SQLiteStorage) Close() {
	s.db.Close()
}
