package filesystem

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// archiveEntry is one member of an archive, before it becomes a node
type archiveEntry struct {
	rel     string
	dir     bool
	size    int64
	modTime time.Time
	mime    string
}

// IsArchive reports whether path names an archive ImportArchive can read
func IsArchive(path string) bool {
	_, ok := archiveFormat(path)
	return ok
}

func archiveFormat(path string) (string, bool) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return "zip", true
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return "tar.gz", true
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		return "tar.zst", true
	case strings.HasSuffix(name, ".tar"):
		return "tar", true
	default:
		return "", false
	}
}

// ImportArchive lists a zip or tar archive (optionally gzip or zstd
// compressed) as nodes, without extracting it. Folders that only appear as
// path prefixes are added. Ids match what Import gives the extracted tree.
func (im *Importer) ImportArchive(ctx context.Context, archive string) ([]types.Node, error) {
	format, ok := archiveFormat(archive)
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Base(archive))
	}
	abs, err := filepath.Abs(archive)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", archive, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", archive, err)
	}

	var entries []archiveEntry
	if format == "zip" {
		entries, err = im.listZIP(ctx, abs)
	} else {
		entries, err = im.listTAR(ctx, abs, format)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", filepath.Base(archive), err)
	}

	nodes := im.archiveNodes(abs, entries, info.ModTime())
	im.logger.Info("Imported archive",
		zap.String("archive", abs),
		zap.String("format", format),
		zap.Int("nodes", len(nodes)),
	)
	return nodes, nil
}

func (im *Importer) listZIP(ctx context.Context, archive string) ([]archiveEntry, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var entries []archiveEntry
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info := file.FileInfo()
		e := archiveEntry{
			dir:     info.IsDir(),
			size:    info.Size(),
			modTime: info.ModTime(),
		}
		var ok bool
		if e.rel, ok = cleanArchivePath(file.Name); !ok {
			continue
		}
		if !e.dir {
			if rc, err := file.Open(); err == nil {
				e.mime = detectMIME(rc)
				rc.Close()
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (im *Importer) listTAR(ctx context.Context, archive, format string) ([]archiveEntry, error) {
	file, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src io.Reader = file
	switch format {
	case "tar.gz":
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gzReader.Close()
		src = gzReader
	case "tar.zst":
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zstdReader.Close()
		src = zstdReader
	}

	tarReader := tar.NewReader(src)
	var entries []archiveEntry
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		e := archiveEntry{modTime: header.ModTime}
		switch header.Typeflag {
		case tar.TypeDir:
			e.dir = true
		case tar.TypeReg:
			e.size = header.Size
			e.mime = detectMIME(tarReader)
		default:
			// links and devices have no place in the tree
			continue
		}
		var ok bool
		if e.rel, ok = cleanArchivePath(header.Name); !ok {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// archiveNodes turns entries into nodes, dropping excluded paths and
// adding implied parent folders. Later duplicates replace earlier ones.
func (im *Importer) archiveNodes(archive string, entries []archiveEntry, archiveTime time.Time) []types.Node {
	byRel := make(map[string]archiveEntry, len(entries))
	for _, e := range entries {
		if im.excludedPath(e.rel) {
			continue
		}
		byRel[e.rel] = e
		for parent := parentRel(e.rel); parent != ""; parent = parentRel(parent) {
			if p, ok := byRel[parent]; ok && p.dir {
				continue
			}
			byRel[parent] = archiveEntry{rel: parent, dir: true, modTime: archiveTime}
		}
	}

	rels := make([]string, 0, len(byRel))
	for rel := range byRel {
		rels = append(rels, rel)
	}
	slices.Sort(rels)

	nodes := make([]types.Node, 0, len(rels))
	for _, rel := range rels {
		e := byRel[rel]
		node := types.Node{
			ID:         NodeID(rel),
			Name:       path.Base(rel),
			Kind:       types.NodeFile,
			CreatedAt:  e.modTime.UnixMilli(),
			StorageURL: "file://" + filepath.ToSlash(archive) + "#" + rel,
		}
		if parent := parentRel(rel); parent != "" {
			node.ParentID = types.Ref(NodeID(parent))
		}
		if e.dir {
			node.Kind = types.NodeFolder
		} else {
			size := e.size
			node.Size = &size
			node.MimeType = e.mime
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// excludedPath reports whether rel or any of its parents is excluded
func (im *Importer) excludedPath(rel string) bool {
	for p := rel; p != ""; p = parentRel(p) {
		if im.excluded(p) {
			return true
		}
	}
	return false
}

// cleanArchivePath normalizes a member name. Absolute names and names
// escaping the archive root are rejected.
func cleanArchivePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", false
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

func detectMIME(r io.Reader) string {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return ""
	}
	return mt.String()
}
