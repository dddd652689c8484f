package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lease statuses
const (
	StatusPending    = "Pending"
	StatusActive     = "Active"
	StatusTerminated = "Terminated"
	StatusExpired    = "Expired"
)

// Payment cycles
const (
	CycleMonthly   = "Monthly"
	CycleQuarterly = "Quarterly"
	CycleAnnually  = "Annually"
)

// Schedule entry statuses
const (
	ScheduleUnpaid  = "Unpaid"
	SchedulePaid    = "Paid"
	ScheduleOverdue = "Overdue"
)

// Lease represents a rental agreement binding a tenant to a unit.
type Lease struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UnitID          uint       `json:"unit_id" gorm:"not null;index"`
	TenantID        uint       `json:"tenant_id" gorm:"not null;index"`
	StartDate       time.Time  `json:"start_date" gorm:"not null"`
	EndDate         *time.Time `json:"end_date"` // nil = open-ended
	RentAmount      decimal.Decimal `json:"rent_amount" gorm:"type:numeric(12,2);not null"`
	PaymentCycle    string          `json:"payment_cycle" gorm:"not null;default:'Monthly'"`
	DepositAmount   decimal.Decimal `json:"deposit_amount" gorm:"type:numeric(12,2)"`
	DepositPaid     bool       `json:"deposit_paid"`
	DepositPaidDate *time.Time `json:"deposit_paid_date"`
	Status          string     `json:"status" gorm:"not null;default:'Pending';index"`
	TerminationDate *time.Time `json:"termination_date"`
	CreatedBy       uint       `json:"created_by" gorm:"index"`

	Schedule    []PaymentScheduleEntry `json:"payment_schedule" gorm:"foreignKey:LeaseID;constraint:OnDelete:CASCADE"`
	CustomTerms []CustomTerm           `json:"custom_terms" gorm:"foreignKey:LeaseID;constraint:OnDelete:CASCADE"`
	Documents   []LeaseDocument        `json:"documents" gorm:"foreignKey:LeaseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Lease) TableName() string {
	return "leases"
}

// IsActive reports whether the lease is currently in force.
func (l *Lease) IsActive() bool {
	return l.Status == StatusActive
}

// PaymentScheduleEntry is one expected rent payment, owned by its lease.
type PaymentScheduleEntry struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	LeaseID  uint       `json:"-" gorm:"not null;index"`
	Position int        `json:"position" gorm:"not null"`
	DueDate  time.Time  `json:"due_date" gorm:"not null"`
	PaidDate *time.Time `json:"paid_date"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status   string          `json:"status" gorm:"not null;default:'Unpaid'"`
}

// TableName specifies the table name
func (PaymentScheduleEntry) TableName() string {
	return "lease_payment_schedule"
}

// CustomTerm is a free-text clause attached to a lease, kept in order.
type CustomTerm struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	LeaseID  uint   `json:"-" gorm:"not null;index"`
	Position int    `json:"position" gorm:"not null"`
	Text     string `json:"text" gorm:"not null"`
}

// TableName specifies the table name
func (CustomTerm) TableName() string {
	return "lease_custom_terms"
}

// LeaseDocument is a stored reference to an uploaded lease document.
type LeaseDocument struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	LeaseID uint   `json:"-" gorm:"not null;index"`
	Name    string `json:"name" gorm:"not null"`
	FileRef string `json:"file_ref" gorm:"not null"`
}

// TableName specifies the table name
func (LeaseDocument) TableName() string {
	return "lease_documents"
}

// LeaseFilter narrows and pages lease listings.
type LeaseFilter struct {
	UnitID   uint
	TenantID uint
	Status   string
	Limit    int
	Offset   int
}

// LeaseRepository defines the contract for lease data access
type LeaseRepository interface {
	// CreateExclusive inserts the lease only if no Active or Pending lease
	// for the same unit overlaps its interval. The check and the insert run
	// in a single transaction.
	CreateExclusive(lease *Lease) error
	FindByID(id uint) (*Lease, error)
	FindAll(filter LeaseFilter) ([]Lease, int64, error)
	FindOverlapping(unitID uint, start time.Time, end *time.Time, excludeID uint) ([]Lease, error)
	Update(lease *Lease) error
	UpdateScheduleEntry(entry *PaymentScheduleEntry) error
	Delete(id uint) error
}

// UnitGateway resolves unit references owned by the facility module.
type UnitGateway interface {
	UnitExists(id uint) (bool, error)
	SetOccupancy(id uint, occupied bool) error
}

// TenantGateway resolves tenant references owned by the tenant module.
type TenantGateway interface {
	TenantExists(id uint) (bool, error)
}

// ErrOverlap is returned by CreateExclusive when the unit is already
// leased for an overlapping period.
type ErrOverlap struct {
	UnitID uint
}

func (e *ErrOverlap) Error() string {
	return "unit is already leased for an overlapping period"
}
