package types

// NodeKind distinguishes folders from files
type NodeKind string

const (
	NodeFolder NodeKind = "folder"
	NodeFile   NodeKind = "file"
)

// Node is one entry of the virtual file system as stored: a flat row that
// references its owning folder by id. A nil ParentID means the node is top-level.
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       NodeKind `json:"kind"`
	ParentID   *string  `json:"parent_id"`
	CreatedAt  int64    `json:"created_at"` // unix milliseconds
	Size       *int64   `json:"size,omitempty"`
	MimeType   string   `json:"mime_type,omitempty"`
	StorageURL string   `json:"storage_url,omitempty"`
}

// IsFolder reports whether the node can own children
func (n Node) IsFolder() bool {
	return n.Kind == NodeFolder
}

// IsTopLevel reports whether the node has no parent
func (n Node) IsTopLevel() bool {
	return n.ParentID == nil
}

// TreeNode is a projected node. Children is derived and never stored.
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children,omitempty"`
}

// Ref returns a parent reference to id
func Ref(id string) *string {
	return &id
}
