package dto

// CreateFolderRequest creates a document folder, optionally nested.
type CreateFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// MoveDocumentRequest reassigns a document to another folder (nil for root).
type MoveDocumentRequest struct {
	FolderID *int64 `json:"folderId"`
}

// LogListQuery filters the action-log listing.
type LogListQuery struct {
	FolderID *int64 `form:"folderId"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}

// MoveLogRequest files a log entry into a folder.
type MoveLogRequest struct {
	FolderID *int64 `json:"folderId"`
}
