package orders

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order is one print order as stored and shown in admin. Money is ZAR cents.
type Order struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	OrderNumber string `gorm:"type:varchar(32);not null;uniqueIndex:ux_orders_order_number"`

	CustomerName  string `gorm:"type:varchar(255);not null"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index:ix_orders_customer_email"`
	CustomerPhone string `gorm:"type:varchar(32);not null"`

	AddressLine1 string  `gorm:"type:varchar(255);not null"`
	AddressLine2 *string `gorm:"type:varchar(255)"`
	City         string  `gorm:"type:varchar(100);not null"`
	Province     string  `gorm:"type:varchar(32);not null"`
	PostalCode   string  `gorm:"type:varchar(16);not null"`

	WallWidthM  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	WallHeightM decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	WallCount   int             `gorm:"not null"`
	TotalSqm    decimal.Decimal `gorm:"type:decimal(8,2);not null"`

	// Primary print file plus the full per-wall list.
	ImageURL  string         `gorm:"type:varchar(512);not null"`
	ImageURLs datatypes.JSON `gorm:"type:json;not null"`
	// Per-wall dimensions when walls differ; null for uniform orders.
	WallsSpec datatypes.JSON `gorm:"type:json"`

	WallpaperStyle    string `gorm:"type:varchar(32);not null"`
	ApplicationMethod string `gorm:"type:varchar(32);not null"`

	SubtotalCents int64 `gorm:"not null"`
	ShippingCents int64 `gorm:"not null"`
	TotalCents    int64 `gorm:"not null"`

	Status          Status  `gorm:"type:varchar(32);not null;index:ix_orders_status"`
	StitchPaymentID *string `gorm:"type:varchar(128)"`

	AssignedFactoryID *string `gorm:"type:char(36);index:ix_orders_factory"`

	LastActivityAt      *time.Time `gorm:"type:datetime(3)"`
	LastActivityPreview *string    `gorm:"type:varchar(200)"`

	CreatedAt   time.Time  `gorm:"type:datetime(3);not null;index:ix_orders_created_at"`
	UpdatedAt   time.Time  `gorm:"type:datetime(3);not null"`
	ShippedAt   *time.Time `gorm:"type:datetime(3)"`
	DeliveredAt *time.Time `gorm:"type:datetime(3)"`
	RefundedAt  *time.Time `gorm:"type:datetime(3)"`
	// Soft delete: archived orders keep their rows and activity.
	DeletedAt *time.Time `gorm:"type:datetime(3);index:ix_orders_deleted_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Archived() bool { return o.DeletedAt != nil }
func (o *Order) Refunded() bool { return o.RefundedAt != nil }

// Activity is the append-only audit log: one row per order mutation. Rows are
// never updated or deleted.
type Activity struct {
	ID       string  `gorm:"type:char(36);primaryKey"`
	OrderID  string  `gorm:"type:char(36);not null;index:ix_order_activity_order_id"`
	ActorID  string  `gorm:"type:varchar(64);not null"`
	Action   Action  `gorm:"type:varchar(32);not null"`
	OldValue *string `gorm:"type:varchar(255)"`
	NewValue *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Activity) TableName() string { return "order_activity" }

// Factory is a print shop orders can be assigned to.
type Factory struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Factory) TableName() string { return "factories" }

// WallDimensions is the persisted shape of one per-wall entry in WallsSpec.
type WallDimensions struct {
	WidthM  decimal.Decimal `json:"width_m"`
	HeightM decimal.Decimal `json:"height_m"`
}
