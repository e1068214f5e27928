package models

import "time"

type ModuleSettingModel struct {
	Key       string `gorm:"primaryKey;size:64"`
	Enabled   bool   `gorm:"not null"`
	UpdatedAt time.Time
}

func (ModuleSettingModel) TableName() string {
	return "module_settings"
}
