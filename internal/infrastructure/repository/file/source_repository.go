package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/rawdata"
)

// SourceRepository reads <eventId>.json payloads written by the upstream
// poller.
type SourceRepository struct {
	dir string
}

func NewSourceRepository(dir string) *SourceRepository {
	return &SourceRepository{dir: dir}
}

func (r *SourceRepository) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listIDs(r.dir)
}

// Read returns found=false when the file vanished between listing and
// reading. Unreadable or malformed files are errors.
func (r *SourceRepository) Read(ctx context.Context, eventID string) (rawdata.Payload, bool, error) {
	if err := ctx.Err(); err != nil {
		return rawdata.Payload{}, false, err
	}
	if err := validID(eventID); err != nil {
		return rawdata.Payload{}, false, err
	}

	path := filepath.Join(r.dir, eventID+jsonExt)
	raw, err := os.ReadFile(path)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return rawdata.Payload{}, false, nil
		}
		return rawdata.Payload{}, false, crerr.Wrapf(err, "read source %s", eventID)
	}

	body, err := decodeTree(raw)
	if err != nil {
		return rawdata.Payload{}, false, crerr.Wrapf(err, "decode source %s", eventID)
	}
	return rawdata.Payload{EventID: eventID, Body: body, Size: len(raw)}, true, nil
}
