package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func init() {
	RegisterGoMigration(3, upNormalizeDueDates, downNormalizeDueDates)
}

// Due dates imported from the web client arrive as full ISO timestamps
// ("2024-01-31T00:00:00.000Z"). Tasks only carry a calendar date.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func upNormalizeDueDates(tx *sql.Tx) error {
	type row struct {
		id  int64
		due string
	}
	var pending []row

	rows, err := tx.Query("SELECT id, due_date FROM tasks WHERE due_date IS NOT NULL AND length(due_date) <> 10")
	if err != nil {
		return fmt.Errorf("failed to query due dates: %w", err)
	}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.due); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	rows.Close()

	stmt, err := tx.Prepare("UPDATE tasks SET due_date = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer stmt.Close()

	for _, r := range pending {
		normalized, err := normalizeDueDate(r.due)
		if err != nil {
			return fmt.Errorf("task %d: %w", r.id, err)
		}
		if _, err := stmt.Exec(normalized, r.id); err != nil {
			return fmt.Errorf("failed to update task %d: %w", r.id, err)
		}
	}
	return nil
}

// The date-only form is a valid reading of every original value, so there is
// nothing to restore.
func downNormalizeDueDates(*sql.Tx) error {
	return nil
}

func normalizeDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("could not parse due date %q", s)
}
