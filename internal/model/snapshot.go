package model

import "time"

// CacheSnapshot is one cache's serialized snapshot, stored by the postgres cache backend.
type CacheSnapshot struct {
	Name      string    `gorm:"type:varchar(255);primaryKey" json:"name"`
	Data      []byte    `gorm:"type:bytea;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (CacheSnapshot) TableName() string { return "cache_snapshots" }
