package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// FactoryUnassigned filters for orders with no assigned factory.
const FactoryUnassigned = "unassigned"

type ListParams struct {
	Status       string // optional status filter
	RefundedOnly bool   // overrides Status when set
	FactoryID    string // factory id or FactoryUnassigned
	From         *time.Time
	To           *time.Time
	Q            string // matches order number or customer name
	ShowArchived bool
	Page         int
	PageSize     int
}

type ListResult struct {
	Items []Order
	Total int64
}

func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 30
	}

	base := r.db.WithContext(ctx).Model(&Order{})
	base = applyFilters(base, in)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Order
	if err := base.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}

	return ListResult{Items: items, Total: total}, nil
}

// ListAll runs the same filters without pagination, newest first. Used by the
// CSV export so the file is deterministic for a given filter set.
func (r *Repo) ListAll(ctx context.Context, in ListParams) ([]Order, error) {
	var items []Order
	q := applyFilters(r.db.WithContext(ctx).Model(&Order{}), in)
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyFilters(q *gorm.DB, in ListParams) *gorm.DB {
	if !in.ShowArchived {
		q = q.Where("deleted_at IS NULL")
	}
	if in.RefundedOnly {
		q = q.Where("refunded_at IS NOT NULL")
	} else if s := strings.TrimSpace(in.Status); s != "" {
		q = q.Where("status = ?", s)
	}
	if in.FactoryID == FactoryUnassigned {
		q = q.Where("assigned_factory_id IS NULL")
	} else if in.FactoryID != "" {
		q = q.Where("assigned_factory_id = ?", in.FactoryID)
	}
	if term := strings.TrimSpace(in.Q); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("(order_number LIKE ? OR customer_name LIKE ?)", like, like)
	}
	if in.From != nil {
		q = q.Where("created_at >= ?", *in.From)
	}
	if in.To != nil {
		q = q.Where("created_at <= ?", *in.To)
	}
	return q
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// GetDetail loads an order with its activity trail, newest entry first.
func (r *Repo) GetDetail(ctx context.Context, id string) (Order, []Activity, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return Order{}, nil, err
	}
	var acts []Activity
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&acts, "order_id = ?", id).Error; err != nil {
		return Order{}, nil, err
	}
	return o, acts, nil
}

func (r *Repo) ListFactories(ctx context.Context) ([]Factory, error) {
	var out []Factory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// FactoryNames maps factory id to name for the ids that exist.
func (r *Repo) FactoryNames(ctx context.Context) (map[string]string, error) {
	fs, err := r.ListFactories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(fs))
	for _, f := range fs {
		names[f.ID] = f.Name
	}
	return names, nil
}
