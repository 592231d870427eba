package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentType is one node of the 4-level taxonomy. Parent is assigned at
// creation and never changed; the in-memory tree relies on that.
type EquipmentType struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null;size:100" json:"name"`
	Level     int            `gorm:"column:level;not null;index" json:"level"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent    *EquipmentType `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (EquipmentType) TableName() string { return "equipment_type" }
