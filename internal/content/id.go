package content

import (
	"fmt"
	"path"
	"strings"
)

const (
	setDir     = "model"
	grammarDir = "grammar"
	indexFile  = "index.json"
)

// ResolveID normalizes a set or topic identifier. A ".json" suffix and a
// leading directory of the same kind are stripped.
func ResolveID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	id = strings.TrimPrefix(id, setDir+"/")
	id = strings.TrimPrefix(id, grammarDir+"/")
	id = strings.TrimSuffix(id, ".json")
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// SetPath returns the source path of an exercise set.
func SetPath(id string) string { return path.Join(setDir, id+".json") }

// TopicPath returns the source path of a grammar topic.
func TopicPath(id string) string { return path.Join(grammarDir, id+".json") }

// IndexPath is the source path of the grammar index.
func IndexPath() string { return path.Join(grammarDir, indexFile) }
