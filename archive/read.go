package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Get retrieves a revision by content digest, bytes included.
// Returns an error wrapping sql.ErrNoRows if not found.
func (a *Archive) Get(ctx context.Context, digest string) (Revision, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, unit_name, file_name, wire_version, digest, data, created_at
		FROM revisions
		WHERE digest = ?
	`, digest)

	rev, err := scanRevisionRow(row)
	if err != nil {
		return Revision{}, fmt.Errorf("get %s: %w", digest, err)
	}
	return rev, nil
}

// Latest retrieves the newest revision of a unit, bytes included. Ties on
// created_at fall to the id, which is creation-ordered.
// Returns an error wrapping sql.ErrNoRows if the unit was never archived.
func (a *Archive) Latest(ctx context.Context, unitName string) (Revision, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, unit_name, file_name, wire_version, digest, data, created_at
		FROM revisions
		WHERE unit_name = ?
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, unitName)

	rev, err := scanRevisionRow(row)
	if err != nil {
		return Revision{}, fmt.Errorf("latest %q: %w", unitName, err)
	}
	return rev, nil
}

// List returns every revision in deterministic order, oldest first. Data
// is left nil; fetch bytes with Get when needed.
//
// Returns an empty slice (not nil) when the archive is empty.
func (a *Archive) List(ctx context.Context) ([]Revision, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, unit_name, file_name, wire_version, digest, created_at
		FROM revisions
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		rev, err := scanRevisionSummary(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}

	if revisions == nil {
		revisions = []Revision{}
	}

	return revisions, nil
}

// scanRevisionSummary scans a data-less row into a Revision struct.
func scanRevisionSummary(rows *sql.Rows) (Revision, error) {
	var rev Revision
	var createdAt string

	if err := rows.Scan(
		&rev.ID, &rev.UnitName, &rev.FileName, &rev.WireVersion,
		&rev.Digest, &createdAt,
	); err != nil {
		return Revision{}, fmt.Errorf("scan revision: %w", err)
	}

	var err error
	rev.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return Revision{}, err
	}

	return rev, nil
}

// scanRevisionRow scans a single full row into a Revision struct.
func scanRevisionRow(row *sql.Row) (Revision, error) {
	var rev Revision
	var createdAt string

	if err := row.Scan(
		&rev.ID, &rev.UnitName, &rev.FileName, &rev.WireVersion,
		&rev.Digest, &rev.Data, &createdAt,
	); err != nil {
		return Revision{}, err
	}

	var err error
	rev.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return Revision{}, err
	}

	return rev, nil
}

func parseCreatedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}
