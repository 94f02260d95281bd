package video

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is the part of the video catalogue this service depends on: a video
// exists while it has a row that is not soft-deleted.
type Video struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index"`
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for videos
func (Video) TableName() string {
	return "videos"
}
