package model

import "time"

type DocumentStatus string

const (
	DocumentUploading  DocumentStatus = "uploading"
	DocumentProcessing DocumentStatus = "processing"
	DocumentIndexed    DocumentStatus = "indexed"
	DocumentError      DocumentStatus = "error"
)

type DocumentSource string

const (
	DocSourceUpload      DocumentSource = "upload"
	DocSourceGoogleDrive DocumentSource = "google_drive"
	DocSourceSharePoint  DocumentSource = "sharepoint"
)

// Document is a knowledge-base file the backend has ingested for RAG
// retrieval. The client only lists and displays these.
type Document struct {
	ID           string         `json:"document_id"`
	Filename     string         `json:"filename"`
	ContentType  string         `json:"content_type"`
	Source       DocumentSource `json:"source"`
	Status       DocumentStatus `json:"status"`
	FileSize     int64          `json:"file_size,omitempty"`
	PageCount    int            `json:"page_count,omitempty"`
	ChunkCount   int            `json:"chunk_count,omitempty"`
	UploadDate   time.Time      `json:"upload_date"`
	IndexedAt    *time.Time     `json:"indexed_at,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type DocumentList struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// DocumentUploadResult acknowledges an upload before indexing finishes.
type DocumentUploadResult struct {
	ID       string         `json:"document_id"`
	Filename string         `json:"filename"`
	Status   DocumentStatus `json:"status"`
	Message  string         `json:"message"`
}
