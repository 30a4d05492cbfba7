package school

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// School is the persisted school record. Image holds the stored filename only.
type School struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Address     string    `gorm:"column:address" json:"address"`
	City        string    `gorm:"column:city" json:"city"`
	State       string    `gorm:"column:state" json:"state"`
	Contact     string    `gorm:"column:contact;size:10" json:"contact"`
	Email       string    `gorm:"column:email_id;not null" json:"email_id"`
	Description string    `gorm:"column:description" json:"description"`
	Image       *string   `gorm:"column:image" json:"image"`
	CreatedAt   time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (School) TableName() string { return "schools" }

// BeforeCreate assigns a time-ordered UUIDv7 so that ties on created_at still sort newest first.
func (s *School) BeforeCreate(_ *gorm.DB) error {
	if s.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	s.ID = id.String()
	return nil
}

// ImageName returns the stored image filename or "".
func (s *School) ImageName() string {
	if s.Image == nil {
		return ""
	}
	return *s.Image
}
