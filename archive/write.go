package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seistools/stratum/bir"
)

// Put archives one encoded instantiation. The bytes must decode cleanly;
// the unit and file names are lifted from the decoded metadata, so junk
// never enters the archive. Archiving bytes whose digest is already
// present is idempotent: no new row is written and the revision that
// owns the digest is returned, original id and timestamp included.
func (a *Archive) Put(ctx context.Context, data []byte) (Revision, error) {
	unit, err := bir.Decode(data)
	if err != nil {
		return Revision{}, fmt.Errorf("put: %w", err)
	}

	var unitName, fileName string
	if unit.Meta != nil {
		unitName = unit.Meta.UnitName
		fileName = unit.Meta.FileName
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO revisions
		(id, unit_name, file_name, wire_version, digest, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		uuid.Must(uuid.NewV7()).String(),
		unitName,
		fileName,
		bir.WireVersion,
		digest,
		data,
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("put: %w", err)
	}
	slog.Debug("archived revision", "unit", unitName, "digest", digest, "bytes", len(data))

	// Read the row back so a duplicate put returns the revision that
	// actually owns the digest.
	return a.Get(ctx, digest)
}

// Delete removes the revision with the given digest.
// Returns an error wrapping sql.ErrNoRows if no such revision exists.
func (a *Archive) Delete(ctx context.Context, digest string) error {
	res, err := a.db.ExecContext(ctx, `
		DELETE FROM revisions WHERE digest = ?
	`, digest)
	if err != nil {
		return fmt.Errorf("delete %s: %w", digest, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", digest, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", digest, sql.ErrNoRows)
	}

	return nil
}
