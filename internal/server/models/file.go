package models

import "time"

// File is the metadata of one stored upload. A row exists only for uploads
// whose bytes were fully written under StoragePath.
type File struct {
	ID int64
	// UserID is the owner of the file.
	UserID int64
	// StoredName is the generated on-disk name, unique across all users.
	StoredName string
	// OriginalName is the client-supplied filename, kept for display and
	// download only.
	OriginalName string
	MediaType    string
	Size         int64
	StoragePath  string
	CreatedAt    time.Time
}

// FileSummary is the wire form of a File.
type FileSummary struct {
	ID               int64     `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	CreatedAt        time.Time `json:"created_at"`
}

func (f *File) Summary() FileSummary {
	return FileSummary{
		ID:               f.ID,
		Filename:         f.StoredName,
		OriginalFilename: f.OriginalName,
		FileType:         f.MediaType,
		FileSize:         f.Size,
		CreatedAt:        f.CreatedAt,
	}
}
