package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClassificationLog records one call to the external classifier: the prompt
// we sent, the raw untrusted response, and what survived validation.
type ClassificationLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EquipmentID *uuid.UUID     `gorm:"type:uuid;index" json:"equipment_id,omitempty"`
	Model       string         `gorm:"column:model;not null" json:"model"`
	Prompt      string         `gorm:"column:prompt" json:"prompt"`
	Response    string         `gorm:"column:response" json:"response"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Success     bool           `gorm:"column:success;not null" json:"success"`
	Error       string         `gorm:"column:error" json:"error"`
	Usage       datatypes.JSON `gorm:"type:jsonb;column:usage" json:"usage,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ClassificationLog) TableName() string { return "classification_log" }
