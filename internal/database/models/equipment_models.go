package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment operational status. Only StatusAtivo is enforced
// programmatically (restored when a maintenance order concludes); the
// other values are caller-supplied.
const (
	StatusAtivo      = "ativo"
	StatusInativo    = "inativo"
	StatusManutencao = "manutencao"
)

// Maintenance work-order lifecycle.
const (
	ManutencaoAgendada    = "agendada"
	ManutencaoEmAndamento = "em_andamento"
	ManutencaoConcluida   = "concluida"
	ManutencaoCancelada   = "cancelada"
)

const (
	PrioridadeBaixa = "baixa"
	PrioridadeMedia = "media"
	PrioridadeAlta  = "alta"
)

const AcaoCriacao = "criacao"

type Equipamento struct {
	ID                     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Codigo                 string          `gorm:"size:100;index" json:"codigo"`
	Nome                   string          `gorm:"size:255;not null" json:"nome"`
	Modelo                 string          `gorm:"size:255" json:"modelo"`
	Fabricante             string          `gorm:"size:255" json:"fabricante"`
	NumeroSerie            string          `gorm:"size:100" json:"numero_serie"`
	Categoria              string          `gorm:"size:100" json:"categoria"`
	Localizacao            string          `gorm:"size:255" json:"localizacao"`
	Status                 string          `gorm:"size:20;not null;default:ativo" json:"status"`
	DataAquisicao          *Date           `gorm:"type:date" json:"data_aquisicao"`
	ValorAquisicao         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"valor_aquisicao"`
	GarantiaAte            *Date           `gorm:"type:date" json:"garantia_ate"`
	EspecificacoesTecnicas string          `gorm:"type:text" json:"especificacoes_tecnicas"`
	Observacoes            string          `gorm:"type:text" json:"observacoes"`
	CreatedAt              *time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              *time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Equipamento) TableName() string { return "equipamentos" }

type Manutencao struct {
	ID            int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	EquipamentoID int64               `gorm:"index;not null" json:"equipamento_id"`
	Tipo          string              `gorm:"size:100" json:"tipo"`
	Descricao     string              `gorm:"type:text;not null" json:"descricao"`
	DataAgendada  Date                `gorm:"type:date;not null" json:"data_agendada"`
	DataRealizada *Date               `gorm:"type:date" json:"data_realizada"`
	Status        string              `gorm:"size:20;not null;default:agendada" json:"status"`
	Prioridade    string              `gorm:"size:10;not null;default:media" json:"prioridade"`
	Responsavel   string              `gorm:"size:255" json:"responsavel"`
	Fornecedor    string              `gorm:"size:255" json:"fornecedor"`
	Custo         decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"custo"`
	Observacoes   string              `gorm:"type:text" json:"observacoes"`
	CreatedAt     *time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Manutencao) TableName() string { return "manutencoes" }

// HistoricoManutencao is append-only: rows are inserted when a work
// order is created and never updated or deleted.
type HistoricoManutencao struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EquipamentoID int64      `gorm:"index;not null" json:"equipamento_id"`
	ManutencaoID  int64      `gorm:"index;not null" json:"manutencao_id"`
	Acao          string     `gorm:"size:50;not null" json:"acao"`
	Descricao     string     `gorm:"type:text" json:"descricao"`
	Usuario       string     `gorm:"size:255" json:"usuario"`
	CreatedAt     *time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (HistoricoManutencao) TableName() string { return "historico_manutencoes" }
