package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Codigo        string          `gorm:"size:100;index" json:"codigo"`
	Nome          string          `gorm:"size:255;not null" json:"nome"`
	Tipo          string          `gorm:"size:100" json:"tipo"`
	Fabricante    string          `gorm:"size:255" json:"fabricante"`
	Quantidade    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"quantidade"`
	Unidade       string          `gorm:"size:50" json:"unidade"`
	Validade      *Date           `gorm:"type:date" json:"validade"`
	Preco         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"preco"`
	EstoqueAtual  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"estoque_minimo"`
	Documento     []byte          `gorm:"type:bytea" json:"-"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Material) TableName() string { return "materiais" }

type EmailLog struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Destinatario string     `gorm:"size:255;not null" json:"destinatario"`
	Assunto      string     `gorm:"size:255" json:"assunto"`
	Corpo        string     `gorm:"type:text" json:"corpo"`
	MaterialID   *int64     `gorm:"index" json:"material_id"`
	Status       string     `gorm:"size:20;not null" json:"status"`
	Erro         *string    `gorm:"type:text" json:"erro,omitempty"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailLog) TableName() string { return "emails_log" }

const (
	EmailEnviado = "enviado"
	EmailErro    = "erro"
)
