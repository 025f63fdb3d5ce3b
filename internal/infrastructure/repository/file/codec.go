// Package file stores raw payloads, rosters and canonical documents as flat
// JSON files, one per entity.
package file

import (
	"io/fs"
	"os"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const jsonExt = ".json"

var (
	decodeAPI = sonic.Config{UseNumber: true, CopyString: true}.Froze()
	encodeAPI = sonic.ConfigStd
)

func decodeTree(raw []byte) (any, error) {
	var out any
	if err := decodeAPI.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// listJSON returns the names of *.json files in dir, sorted. A missing
// directory is empty, not an error. Dotfiles are never listed, which keeps
// in-flight temp files out.
func listJSON(dir string, foldCase bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, crerr.Wrapf(err, "list %s", dir)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		match := name
		if foldCase {
			match = strings.ToLower(name)
		}
		if !strings.HasSuffix(match, jsonExt) || strings.HasPrefix(name, ".") || len(name) == len(jsonExt) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func listIDs(dir string) ([]string, error) {
	names, err := listJSON(dir, false)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		names[i] = strings.TrimSuffix(name, jsonExt)
	}
	return names, nil
}

// validID rejects ids that would escape the store directory.
func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return crerr.Newf("invalid document id %q", id)
	}
	return nil
}
