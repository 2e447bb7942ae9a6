package requests

import "io"

type Pagination struct {
	Page     int
	PageSize int
}

// FileUpload is a file taken from a multipart request.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type SetActive struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
