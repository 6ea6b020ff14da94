package models

import "time"

// Folder groups documents; folders nest through ParentID.
type Folder struct {
	ID        int64     `json:"id" db:"id"`
	SchoolID  int64     `json:"schoolId" db:"school_id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Document is an uploaded file tied to a user and optionally to a
// prospective student and a folder. No versioning; moves are a folder
// reassignment.
type Document struct {
	ID         int64     `json:"id" db:"id"`
	SchoolID   int64     `json:"schoolId" db:"school_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	StudentID  *int64    `json:"studentId,omitempty" db:"student_id"`
	FolderID   *int64    `json:"folderId,omitempty" db:"folder_id"`
	FileName   string    `json:"fileName" db:"file_name" example:"passport.pdf"`
	FilePath   string    `json:"filePath" db:"file_path"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	FileType   string    `json:"fileType" db:"file_type"` // MIME type
	UploadedAt time.Time `json:"uploadedAt" db:"uploaded_at"`
}
