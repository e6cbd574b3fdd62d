package models

// FileInfo maps a content hash to the path and size it was last seen with
type FileInfo struct {
	Hash string `gorm:"column:hash;primaryKey;type:text"`
	Path string `gorm:"column:path;type:text"`
	Size int64  `gorm:"column:size;type:int"`
}

func (FileInfo) TableName() string {
	return "fileinfo"
}
