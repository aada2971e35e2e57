// Package models defines the records kept in the data room and the view
// types built from them.
package models

import "time"

// FileKind classifies a stored file. Every stored file is a PDF.
type FileKind string

const FileKindPDF FileKind = "pdf"

// Folder is a node in the folder tree. A nil ParentID places it at the root.
type Folder struct {
	ID        string
	Name      string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// File is an opaque document record. Content is nil in listings and search
// results; it is populated by point lookups and on create.
type File struct {
	ID         string
	Name       string
	Kind       FileKind
	Size       int64
	Content    []byte
	ContentKey *string
	FolderID   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewFile carries the caller-supplied fields for a file create.
type NewFile struct {
	Name     string
	Content  []byte
	Size     int64
	FolderID *string
}

// FolderUpdate and FileUpdate list the mutable fields; nil means unchanged.
type FolderUpdate struct {
	Name *string
}

type FileUpdate struct {
	Name *string
}

// Contents is a folders+files pair, used both for a folder's children and
// for search results.
type Contents struct {
	Folders []Folder
	Files   []File
}

// IsEmpty reports whether c holds neither folders nor files.
func (c Contents) IsEmpty() bool {
	return len(c.Folders) == 0 && len(c.Files) == 0
}

// Clone copies both slices so the result can be handed out safely.
func (c Contents) Clone() Contents {
	out := Contents{}
	if c.Folders != nil {
		out.Folders = append(make([]Folder, 0, len(c.Folders)), c.Folders...)
	}
	if c.Files != nil {
		out.Files = append(make([]File, 0, len(c.Files)), c.Files...)
	}
	return out
}

// Breadcrumb is one ancestor on the path to the current folder. Path is the
// cumulative display path, e.g. "/Contracts/2024".
type Breadcrumb struct {
	ID   string
	Name string
	Path string
}

// Stats summarises the whole store.
type Stats struct {
	Folders    int
	Files      int
	TotalBytes int64
}

// UploadSource is anything that can be uploaded: a name, a size hint and
// a payload reader.
type UploadSource interface {
	Name() string
	Size() int64
	ReadContent() ([]byte, error)
}
