package models

import "time"

type Usuario struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome      string     `gorm:"size:255;not null" json:"nome"`
	Email     string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Senha     string     `gorm:"size:255;not null" json:"-"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }
