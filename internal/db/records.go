package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when no record matches a resource and id.
var ErrNotFound = errors.New("record not found")

// Record is one stored item of a resource collection. Fields holds the
// client-supplied body as-is.
type Record struct {
	ID        int64
	Resource  string
	Fields    map[string]any
	CreatedAt time.Time
}

// Object renders the record the way the hosted mock API does: the stored
// fields plus a string id and createdAt.
func (r Record) Object() map[string]any {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = strconv.FormatInt(r.ID, 10)
	out["createdAt"] = r.CreatedAt.UTC().Format(time.RFC3339)
	return out
}

// ListRecords returns every record of a resource in insertion order. A
// non-empty filter keeps records with a top-level string or number value
// containing it, ignoring case. Key names are not searched.
func ListRecords(db *sql.DB, resource, filter string) ([]Record, error) {
	query := `
		SELECT id, resource, data, created_at
		FROM records
		WHERE resource = ? AND (? = '' OR EXISTS (
			SELECT 1 FROM json_each(records.data)
			WHERE json_each.type IN ('text', 'integer', 'real')
			AND CAST(json_each.value AS TEXT) LIKE '%' || ? || '%' ESCAPE '\'
		))
		ORDER BY id
	`

	rows, err := db.Query(query, resource, filter, escapeLike(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	results := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetRecord retrieves a single record by resource and id.
func GetRecord(db *sql.DB, resource string, id int64) (Record, error) {
	query := `
		SELECT id, resource, data, created_at
		FROM records
		WHERE resource = ? AND id = ?
	`

	r, err := scanRecord(db.QueryRow(query, resource, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get record: %w", err)
	}
	return r, nil
}

// InsertRecord stores a new record and returns it with its assigned id.
func InsertRecord(db *sql.DB, resource string, fields map[string]any) (Record, error) {
	fields = cloneFields(fields)
	delete(fields, "id")
	delete(fields, "createdAt")

	data, err := encodeFields(fields)
	if err != nil {
		return Record{}, err
	}

	createdAt := time.Now().UTC()
	result, err := db.Exec(
		`INSERT INTO records (resource, data, created_at) VALUES (?, ?, ?)`,
		resource, data, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("failed to get record id: %w", err)
	}

	return Record{
		ID:        id,
		Resource:  resource,
		Fields:    fields,
		CreatedAt: createdAt,
	}, nil
}

// UpdateRecord merges fields into an existing record. Keys not present in
// fields keep their stored values.
func UpdateRecord(db *sql.DB, resource string, id int64, fields map[string]any) (Record, error) {
	tx, err := db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanRecord(tx.QueryRow(
		`SELECT id, resource, data, created_at FROM records WHERE resource = ? AND id = ?`,
		resource, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get record: %w", err)
	}

	merged := cloneFields(current.Fields)
	for k, v := range fields {
		merged[k] = v
	}
	// Identity is owned by the store.
	delete(merged, "id")
	delete(merged, "createdAt")

	data, err := encodeFields(merged)
	if err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(`UPDATE records SET data = ? WHERE resource = ? AND id = ?`, data, resource, id); err != nil {
		return Record{}, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("failed to commit update: %w", err)
	}

	current.Fields = merged
	return current, nil
}

// DeleteRecord removes a record and returns what was deleted.
func DeleteRecord(db *sql.DB, resource string, id int64) (Record, error) {
	existing, err := GetRecord(db, resource, id)
	if err != nil {
		return Record{}, err
	}

	result, err := db.Exec(`DELETE FROM records WHERE resource = ? AND id = ?`, resource, id)
	if err != nil {
		return Record{}, fmt.Errorf("failed to delete record: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return Record{}, ErrNotFound
	}
	return existing, nil
}

// CountRecords returns how many records a resource holds.
func CountRecords(db *sql.DB, resource string) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM records WHERE resource = ?`, resource).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Seed inserts items into an empty resource. It does nothing when the
// resource already has records.
func Seed(db *sql.DB, resource string, items []map[string]any) (int, error) {
	n, err := CountRecords(db, resource)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i, item := range items {
		if _, err := InsertRecord(db, resource, item); err != nil {
			return i, fmt.Errorf("failed to seed %s: %w", resource, err)
		}
	}
	return len(items), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var r Record
	var data, createdAt string
	if err := row.Scan(&r.ID, &r.Resource, &data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("failed to scan record row: %w", err)
	}

	r.Fields = map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &r.Fields); err != nil {
			return Record{}, fmt.Errorf("failed to decode record %d: %w", r.ID, err)
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}

func encodeFields(fields map[string]any) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return string(data), nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
