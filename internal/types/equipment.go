package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Equipment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Brand       string         `gorm:"column:brand" json:"brand"`
	Model       string         `gorm:"column:model" json:"model"`
	Description string         `gorm:"column:description" json:"description"`
	TypeNodeID  *uuid.UUID     `gorm:"type:uuid;index" json:"type_node_id,omitempty"`
	TypeNode    *EquipmentType `gorm:"foreignKey:TypeNodeID;references:ID" json:"type_node,omitempty"`
	// Denormalized hierarchy path for list display, refreshed whenever the
	// type node changes.
	Domain      string         `gorm:"column:domain" json:"domain,omitempty"`
	Type        string         `gorm:"column:type" json:"type,omitempty"`
	Category    string         `gorm:"column:category" json:"category,omitempty"`
	Subcategory string         `gorm:"column:subcategory" json:"subcategory,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Equipment) TableName() string { return "equipment" }
