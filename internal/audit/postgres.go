package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hquant/futuresbot/internal/order"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the audit trail in a single append-only table.
// The serial id column preserves write order for Tail.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}

	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

// Append implements Store.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	requestJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("failed to encode audit request: %w", err)
	}
	outcomeJSON, err := json.Marshal(rec.Outcome)
	if err != nil {
		return fmt.Errorf("failed to encode audit outcome: %w", err)
	}

	query := `
        INSERT INTO audit_records (
            recorded_at, level, client_order_id, request, outcome, detail
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )
    `

	_, err = s.db.ExecContext(ctx, query,
		rec.Timestamp,
		string(rec.Level),
		rec.ClientOrderID,
		requestJSON,
		outcomeJSON,
		rec.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	return nil
}

// Tail implements Store.
func (s *PostgresStore) Tail(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		n = DefaultTail
	}

	query := `
        SELECT recorded_at, level, client_order_id, request, outcome, detail
        FROM audit_records
        ORDER BY id DESC
        LIMIT $1
    `

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var (
			rec         Record
			ts          time.Time
			level       string
			requestJSON []byte
			outcomeJSON []byte
		)
		if err := rows.Scan(&ts, &level, &rec.ClientOrderID, &requestJSON, &outcomeJSON, &rec.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Timestamp = ts
		rec.Level = Level(level)
		if err := json.Unmarshal(requestJSON, &rec.Request); err != nil {
			return nil, fmt.Errorf("failed to decode audit request: %w", err)
		}
		var outcome order.Outcome
		if err := json.Unmarshal(outcomeJSON, &outcome); err != nil {
			return nil, fmt.Errorf("failed to decode audit outcome: %w", err)
		}
		rec.Outcome = outcome
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	// rows come back newest-first; Tail reports write order
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	if result == nil {
		result = []Record{}
	}
	return result, nil
}

func (s *PostgresStore) initTables() error {
	query := `CREATE TABLE IF NOT EXISTS audit_records (
		id SERIAL PRIMARY KEY,
		recorded_at TIMESTAMP NOT NULL,
		level VARCHAR(10) NOT NULL,
		client_order_id VARCHAR(64),
		request JSONB NOT NULL,
		outcome JSONB NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}
