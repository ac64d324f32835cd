package domain

import (
	"strings"
	"time"
)

// DriveLinkPrefix is the only accepted prefix for external resource links.
const DriveLinkPrefix = "https://drive.google.com/"

// Resource is a shared study material. It carries either an embedded file
// or an external link.
type Resource struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Subject     string `json:"subject" bson:"subject"`
	Department  string `json:"department" bson:"department"`
	Year        string `json:"year" bson:"year"`
	Semester    string `json:"semester" bson:"semester"`
	Type        string `json:"type" bson:"type"`

	FileContent []byte `json:"-" bson:"fileContent,omitempty"`
	FileName    string `json:"fileName,omitempty" bson:"fileName,omitempty"`
	FileType    string `json:"fileType,omitempty" bson:"fileType,omitempty"`
	FileSize    int64  `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	HasFile     bool   `json:"hasFile" bson:"hasFile"`
	GDriveLink  string `json:"gdriveLink,omitempty" bson:"gdriveLink,omitempty"`

	DownloadCount  int        `json:"downloadCount" bson:"downloadCount"`
	UploadedBy     string     `json:"uploadedBy" bson:"uploadedBy"`
	UploadedByName string     `json:"uploadedByName" bson:"uploadedByName"`
	UploadedAt     time.Time  `json:"uploadedAt" bson:"uploadedAt"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ResourcePatch holds the editable fields of a resource. Nil fields are
// left untouched. Identity, ownership and creation fields are deliberately
// absent so they can never be overwritten by an edit.
type ResourcePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Department  *string `json:"department,omitempty"`
	Year        *string `json:"year,omitempty"`
	Semester    *string `json:"semester,omitempty"`
	Type        *string `json:"type,omitempty"`
	GDriveLink  *string `json:"gdriveLink,omitempty"`
	FileName    *string `json:"fileName,omitempty"`
}

// Fields returns the patch as a bson-ready field map keyed by stored name.
func (p ResourcePatch) Fields() map[string]string {
	out := make(map[string]string)
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("title", p.Title)
	set("description", p.Description)
	set("subject", p.Subject)
	set("department", p.Department)
	set("year", p.Year)
	set("semester", p.Semester)
	set("type", p.Type)
	set("gdriveLink", p.GDriveLink)
	set("fileName", p.FileName)
	return out
}

// Apply copies the non-nil fields of p onto r.
func (p ResourcePatch) Apply(r *Resource) {
	for k, v := range p.Fields() {
		switch k {
		case "title":
			r.Title = v
		case "description":
			r.Description = v
		case "subject":
			r.Subject = v
		case "department":
			r.Department = v
		case "year":
			r.Year = v
		case "semester":
			r.Semester = v
		case "type":
			r.Type = v
		case "gdriveLink":
			r.GDriveLink = v
		case "fileName":
			r.FileName = v
		}
	}
}

// IsDriveLink reports whether link points at Google Drive.
func IsDriveLink(link string) bool {
	return strings.HasPrefix(link, DriveLinkPrefix)
}

// DownloadEvent is one entry in the download audit trail.
type DownloadEvent struct {
	ResourceID   string    `bson:"resourceId"`
	UserID       string    `bson:"userId"`
	DownloadedAt time.Time `bson:"downloadedAt"`
}
