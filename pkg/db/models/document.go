package models

import "time"

// Document is a logical scanned item assembled from one or more files
type Document struct {
	UUID           string    `gorm:"column:uuid;primaryKey;type:text;not null"`
	DateRegistered time.Time `gorm:"column:date_registered;not null"`
	DateCreated    time.Time `gorm:"column:date_created"`
}

func (Document) TableName() string {
	return "document"
}

// DocumentFile assigns a hashed file to a page of a document
type DocumentFile struct {
	DocumentUUID string `gorm:"column:document_uuid;primaryKey;type:text;not null;autoIncrement:false"`
	Page         int    `gorm:"column:page;primaryKey;not null;autoIncrement:false"`
	FileHash     string `gorm:"column:file_hash;type:text;not null"`

	// Relationships
	Document *Document `gorm:"foreignKey:DocumentUUID;references:UUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	File     *FileInfo `gorm:"foreignKey:FileHash;references:Hash"`
}

func (DocumentFile) TableName() string {
	return "document_file"
}

// DocumentTag attaches a free-form tag to a document
type DocumentTag struct {
	DocumentID string `gorm:"column:document_id;primaryKey;type:text;not null"`
	Tag        string `gorm:"column:tag;primaryKey;type:text;not null"`

	// Relationships
	Document *Document `gorm:"foreignKey:DocumentID;references:UUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (DocumentTag) TableName() string {
	return "document_tag"
}
