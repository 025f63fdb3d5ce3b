package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
)

// OutputRepository owns the canonical <eventId>.json documents.
type OutputRepository struct {
	dir string
}

func NewOutputRepository(dir string) *OutputRepository {
	return &OutputRepository{dir: dir}
}

func (r *OutputRepository) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listIDs(r.dir)
}

// Save encodes g with sorted keys and two-space indent, writes it to a temp
// file in the same directory and renames it over the target.
func (r *OutputRepository) Save(ctx context.Context, g game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(g.EventID); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := encodeAPI.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return crerr.Wrapf(err, "encode game %s", g.EventID)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create output dir %s", r.dir)
	}
	return writeAtomic(r.dir, g.EventID+jsonExt, buf.B)
}

// Delete removes the document. A document that is already gone is not an
// error.
func (r *OutputRepository) Delete(ctx context.Context, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validID(eventID); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(r.dir, eventID+jsonExt)); err != nil && !crerr.Is(err, fs.ErrNotExist) {
		return crerr.Wrapf(err, "delete game %s", eventID)
	}
	return nil
}

// renameFile is swapped in tests to simulate a failed commit.
var renameFile = os.Rename

func writeAtomic(dir, name string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", name)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return crerr.Wrapf(err, "write %s", tmpPath)
	}
	if err = tmp.Sync(); err != nil {
		return crerr.Wrapf(err, "sync %s", tmpPath)
	}
	if err = tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpPath)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return crerr.Wrapf(err, "chmod %s", tmpPath)
	}
	if err = renameFile(tmpPath, filepath.Join(dir, name)); err != nil {
		return crerr.Wrapf(err, "commit %s", name)
	}
	return nil
}
