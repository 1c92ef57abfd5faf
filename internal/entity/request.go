package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommodityGroup is one row of the seeded spend-category taxonomy.
type CommodityGroup struct {
	ID       string `gorm:"primaryKey;size:3" json:"id"`
	Category string `gorm:"size:100;not null" json:"category"`
	Name     string `gorm:"size:150;not null" json:"name"`
}

// ProcurementRequest is the aggregate the extraction pipeline feeds into. It
// owns its lines, attachments, and status history.
type ProcurementRequest struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RequestorName    string          `gorm:"size:200;not null" json:"requestor_name"`
	Title            string          `gorm:"size:250;not null" json:"title"`
	Department       string          `gorm:"size:200;not null" json:"department"`
	VendorName       string          `gorm:"size:250;not null" json:"vendor_name"`
	VendorVATID      *string         `gorm:"size:50" json:"vendor_vat_id"`
	CommodityGroupID *string         `gorm:"size:3" json:"commodity_group_id"`
	CommodityGroup   *CommodityGroup `json:"commodity_group,omitempty"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	CurrentStatus    string          `gorm:"size:30;not null" json:"current_status"`
	CreatedAt        time.Time       `json:"created_at"`

	OrderLines   []OrderLine   `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"order_lines"`
	Attachments  []Attachment  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	StatusEvents []StatusEvent `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"status_events"`
}

// OrderLine is one position on a request. TotalPrice is stored as stated on
// the source document for extracted lines; manual lines derive it from unit
// price times amount at creation.
type OrderLine struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"index;not null" json:"-"`

	Product     string          `gorm:"size:250" json:"product"`
	Description string          `gorm:"size:500;not null" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Amount      int             `gorm:"not null" json:"amount"`
	Unit        *string         `gorm:"size:50" json:"unit"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// Attachment is a stored offer document.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"index;not null" json:"-"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	Path      string    `gorm:"size:500;not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusEvent is an immutable entry of the status history.
type StatusEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  uint      `gorm:"index;not null" json:"-"`
	FromStatus *string   `gorm:"size:30" json:"from_status"`
	ToStatus   string    `gorm:"size:30;not null" json:"to_status"`
	ChangedAt  time.Time `gorm:"autoCreateTime" json:"changed_at"`
	ChangedBy  *string   `gorm:"size:200" json:"changed_by"`
}
