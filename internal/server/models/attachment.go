package models

// Attachment describes metadata for a file stored in object storage and
// linked to a post. The blob itself lives in S3; the row keeps the storage
// key and the public URL handed out to readers.
type Attachment struct {
	ID         int64
	PostID     int64
	StorageKey string
	URL        string
	CreateDate string
}

// AttachmentUploadTask instructs the client to upload a file using a
// presigned URL.
type AttachmentUploadTask struct {
	// URL is a temporary presigned HTTP URL for the client to PUT the file.
	URL string
	// FileURL is the address the file will be readable at once uploaded.
	FileURL string
}
