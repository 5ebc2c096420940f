package view

import (
	"encoding/json"
	"time"

	"github.com/ecoh04/paperwalls/internal/modules/orders"
	"github.com/ecoh04/paperwalls/internal/modules/pricing"
	"github.com/ecoh04/paperwalls/internal/modules/shipping"
)

type AdminOrderListItem struct {
	ID           string `json:"id"`
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	Total        string `json:"total"`
	TotalCents   int64  `json:"total_cents"`
	Factory      string `json:"factory,omitempty"`
	Archived     bool   `json:"archived"`
	Refunded     bool   `json:"refunded"`
	CreatedAt    string `json:"created_at"`
}

type AdminOrdersPage struct {
	Items      []AdminOrderListItem `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

type AdminActivityEntry struct {
	Action   string  `json:"action"`
	Label    string  `json:"label"`
	ActorID  string  `json:"actor_id"`
	OldValue *string `json:"old_value,omitempty"`
	NewValue *string `json:"new_value,omitempty"`
	At       string  `json:"at"`
}

type AdminWallDimensions struct {
	WidthM  string `json:"width_m"`
	HeightM string `json:"height_m"`
}

type AdminOrderDetail struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`

	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	AddressLine1  string  `json:"address_line1"`
	AddressLine2  *string `json:"address_line2,omitempty"`
	City          string  `json:"city"`
	Province      string  `json:"province"`
	ProvinceLabel string  `json:"province_label"`
	PostalCode    string  `json:"postal_code"`

	WallWidthM  string                `json:"wall_width_m"`
	WallHeightM string                `json:"wall_height_m"`
	WallCount   int                   `json:"wall_count"`
	TotalSqm    string                `json:"total_sqm"`
	Walls       []AdminWallDimensions `json:"walls,omitempty"`

	ImageURL  string   `json:"image_url"`
	ImageURLs []string `json:"image_urls"`

	WallpaperStyle    string `json:"wallpaper_style"`
	ApplicationMethod string `json:"application_method"`

	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`

	Status          string  `json:"status"`
	StatusLabel     string  `json:"status_label"`
	StitchPaymentID *string `json:"stitch_payment_id,omitempty"`
	Factory         string  `json:"factory,omitempty"`
	Archived        bool    `json:"archived"`

	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	ShippedAt   *string `json:"shipped_at,omitempty"`
	DeliveredAt *string `json:"delivered_at,omitempty"`
	RefundedAt  *string `json:"refunded_at,omitempty"`

	Activity []AdminActivityEntry `json:"activity"`
}

const adminTimeLayout = "2006-01-02 15:04"

func AdminOrderListItemFrom(o orders.Order, factoryNames map[string]string) AdminOrderListItem {
	return AdminOrderListItem{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		StatusLabel:  o.Status.Label(),
		Total:        pricing.FormatZAR(o.TotalCents),
		TotalCents:   o.TotalCents,
		Factory:      factoryName(o.AssignedFactoryID, factoryNames),
		Archived:     o.Archived(),
		Refunded:     o.Refunded(),
		CreatedAt:    o.CreatedAt.Format(adminTimeLayout),
	}
}

func AdminOrderDetailFrom(o orders.Order, activity []orders.Activity, factoryNames map[string]string) AdminOrderDetail {
	d := AdminOrderDetail{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,

		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		AddressLine1:  o.AddressLine1,
		AddressLine2:  o.AddressLine2,
		City:          o.City,
		Province:      o.Province,
		ProvinceLabel: shipping.Province(o.Province).Label(),
		PostalCode:    o.PostalCode,

		WallWidthM:  o.WallWidthM.String(),
		WallHeightM: o.WallHeightM.String(),
		WallCount:   o.WallCount,
		TotalSqm:    o.TotalSqm.String(),

		ImageURL: o.ImageURL,

		WallpaperStyle:    o.WallpaperStyle,
		ApplicationMethod: o.ApplicationMethod,

		Subtotal: pricing.FormatZAR(o.SubtotalCents),
		Shipping: pricing.FormatZAR(o.ShippingCents),
		Total:    pricing.FormatZAR(o.TotalCents),

		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		StitchPaymentID: o.StitchPaymentID,
		Factory:         factoryName(o.AssignedFactoryID, factoryNames),
		Archived:        o.Archived(),

		CreatedAt:   o.CreatedAt.Format(adminTimeLayout),
		UpdatedAt:   o.UpdatedAt.Format(adminTimeLayout),
		ShippedAt:   formatTimePtr(o.ShippedAt),
		DeliveredAt: formatTimePtr(o.DeliveredAt),
		RefundedAt:  formatTimePtr(o.RefundedAt),
	}

	if len(o.ImageURLs) > 0 {
		_ = json.Unmarshal(o.ImageURLs, &d.ImageURLs)
	}
	if len(o.WallsSpec) > 0 {
		var dims []orders.WallDimensions
		if err := json.Unmarshal(o.WallsSpec, &dims); err == nil {
			for _, w := range dims {
				d.Walls = append(d.Walls, AdminWallDimensions{
					WidthM:  w.WidthM.String(),
					HeightM: w.HeightM.String(),
				})
			}
		}
	}

	for _, a := range activity {
		d.Activity = append(d.Activity, AdminActivityEntry{
			Action:   string(a.Action),
			Label:    a.Action.Label(),
			ActorID:  a.ActorID,
			OldValue: a.OldValue,
			NewValue: a.NewValue,
			At:       a.CreatedAt.Format(adminTimeLayout),
		})
	}
	return d
}

func factoryName(id *string, names map[string]string) string {
	if id == nil {
		return ""
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return *id
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(adminTimeLayout)
	return &s
}
