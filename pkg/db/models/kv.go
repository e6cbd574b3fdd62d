package models

// KV stores process-wide schema metadata as plain text pairs
type KV struct {
	Key   string `gorm:"column:key;primaryKey;type:text"`
	Value string `gorm:"column:value;type:text"`
}

func (KV) TableName() string {
	return "kv"
}
