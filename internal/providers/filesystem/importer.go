package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// nodeNamespace seeds the name-based node ids
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("nexusos:fs-node"))

// NodeID returns the id an imported entry at rel (slash separated) gets
func NodeID(rel string) string {
	return uuid.NewSHA1(nodeNamespace, []byte(rel)).String()
}

// Importer turns a host directory into flat file-system nodes
type Importer struct {
	exclude []string
	logger  *zap.Logger
}

// NewImporter creates an importer. Exclude patterns are doublestar globs
// matched against slash-separated paths relative to the imported directory.
func NewImporter(exclude []string, logger *zap.Logger) (*Importer, error) {
	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{exclude: exclude, logger: logger}, nil
}

type entry struct {
	rel  string
	node types.Node
}

// Import walks dir and returns one node per entry, sorted by relative path.
// Entries directly inside dir are top-level. Symlinks are skipped.
func (im *Importer) Import(ctx context.Context, dir string) ([]types.Node, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var (
		mu      sync.Mutex
		entries []entry
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			im.logger.Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if im.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		node, ok := im.nodeFor(path, rel, d)
		if !ok {
			return nil
		}

		mu.Lock()
		entries = append(entries, entry{rel: rel, node: node})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.rel, b.rel)
	})

	nodes := make([]types.Node, len(entries))
	for i, e := range entries {
		nodes[i] = e.node
	}

	im.logger.Info("Imported host directory", zap.String("dir", root), zap.Int("nodes", len(nodes)))
	return nodes, nil
}

func (im *Importer) nodeFor(path, rel string, d os.DirEntry) (types.Node, bool) {
	info, err := d.Info()
	if err != nil {
		return types.Node{}, false
	}

	node := types.Node{
		ID:         NodeID(rel),
		Name:       d.Name(),
		Kind:       types.NodeFile,
		CreatedAt:  info.ModTime().UnixMilli(),
		StorageURL: "file://" + filepath.ToSlash(path),
	}
	if parent := parentRel(rel); parent != "" {
		node.ParentID = types.Ref(NodeID(parent))
	}

	if d.IsDir() {
		node.Kind = types.NodeFolder
		return node, true
	}

	size := info.Size()
	node.Size = &size
	if mt, err := mimetype.DetectFile(path); err == nil {
		node.MimeType = mt.String()
	}
	return node, true
}

func (im *Importer) excluded(rel string) bool {
	for _, p := range im.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// parentRel returns the parent of a slash-separated relative path, or ""
// for a top-level entry
func parentRel(rel string) string {
	i := strings.LastIndexByte(rel, '/')
	if i < 0 {
		return ""
	}
	return rel[:i]
}
