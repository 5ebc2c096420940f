package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecoh04/paperwalls/internal/storage"
)

// Service drives the post-creation order lifecycle for the admin back-office.
// Every mutation appends exactly one Activity row in the same transaction.
type Service struct {
	db     *gorm.DB
	store  storage.Storage
	logger *slog.Logger
}

func NewService(db *gorm.DB, store storage.Storage) *Service {
	return &Service{db: db, store: store, logger: slog.Default()}
}

func (s *Service) SetLogger(l *slog.Logger) { s.logger = l }

// SetStatus is the admin status dropdown: only new/in_production/shipped/
// delivered are accepted. Shipped and delivered stamp their timestamps the
// first time they are reached.
func (s *Service) SetStatus(ctx context.Context, orderID string, to Status, actorID string) error {
	if !to.OperatorSettable() {
		return ErrInvalidStatus
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{"status": to, "updated_at": now}
		if to == StatusShipped && o.ShippedAt == nil {
			updates["shipped_at"] = now
		}
		if to == StatusDelivered && o.DeliveredAt == nil {
			updates["delivered_at"] = now
		}

		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		old := string(o.Status)
		next := string(to)
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionStatusChange, OldValue: &old, NewValue: &next,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Status → "+to.Label())
	})
}

// AssignFactory sets or clears the assigned factory; the activity row records
// the old and new factory names, not ids.
func (s *Service) AssignFactory(ctx context.Context, orderID string, factoryID *string, actorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		oldName, err := factoryName(ctx, tx, o.AssignedFactoryID)
		if err != nil {
			return err
		}
		if factoryID != nil {
			var cnt int64
			if err := tx.WithContext(ctx).Model(&Factory{}).Where("id = ?", *factoryID).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrUnknownFactory
			}
		}
		newName, err := factoryName(ctx, tx, factoryID)
		if err != nil {
			return err
		}

		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"assigned_factory_id": factoryID, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionAssigned, OldValue: &oldName, NewValue: &newName,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Factory → "+newName)
	})
}

// AddNote appends a free-text note to the audit trail without touching the
// order row itself.
func (s *Service) AddNote(ctx context.Context, orderID, note, actorID string) error {
	text := strings.TrimSpace(note)
	if text == "" {
		return ErrEmptyNote
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionNote, NewValue: &text,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Note: "+text)
	})
}

// DetailUpdates carries the editable order fields; nil pointers are left
// untouched.
type DetailUpdates struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string

	AddressLine1 *string
	AddressLine2 *string
	City         *string
	Province     *string
	PostalCode   *string

	WallWidthM        *string // decimal strings, validated upstream
	WallHeightM       *string
	WallCount         *int
	TotalSqm          *string
	WallpaperStyle    *string
	ApplicationMethod *string
	WallsSpec         []WallDimensions
}

// UpdateDetails edits customer, address or spec fields. One activity row is
// written, its kind chosen by the highest-priority field group touched
// (address over customer over spec), matching how the back-office presents
// edits.
func (s *Service) UpdateDetails(ctx context.Context, orderID string, in DetailUpdates, actorID string) error {
	updates, kind := detailChanges(in)
	if len(updates) == 0 {
		return ErrNothingToUpdate
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		updates["updated_at"] = time.Now()
		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		fields := make([]string, 0, len(updates))
		for k := range updates {
			if k != "updated_at" {
				fields = append(fields, k)
			}
		}
		payload, _ := json.Marshal(fields)
		val := string(payload)
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: kind, NewValue: &val,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, kind.Label())
	})
}

// detailChanges flattens a DetailUpdates into column updates and picks the
// activity kind for the edit.
func detailChanges(in DetailUpdates) (map[string]any, Action) {
	updates := map[string]any{}
	address, customer, spec := false, false, false

	set := func(col string, v *string, group *bool) {
		if v != nil {
			updates[col] = *v
			*group = true
		}
	}
	set("customer_name", in.CustomerName, &customer)
	set("customer_email", in.CustomerEmail, &customer)
	set("customer_phone", in.CustomerPhone, &customer)
	set("address_line1", in.AddressLine1, &address)
	set("address_line2", in.AddressLine2, &address)
	set("city", in.City, &address)
	set("province", in.Province, &address)
	set("postal_code", in.PostalCode, &address)
	set("wall_width_m", in.WallWidthM, &spec)
	set("wall_height_m", in.WallHeightM, &spec)
	set("total_sqm", in.TotalSqm, &spec)
	set("wallpaper_style", in.WallpaperStyle, &spec)
	set("application_method", in.ApplicationMethod, &spec)
	if in.WallCount != nil {
		updates["wall_count"] = *in.WallCount
		spec = true
	}
	if in.WallsSpec != nil {
		raw, _ := json.Marshal(in.WallsSpec)
		updates["walls_spec"] = datatypes.JSON(raw)
		spec = true
	}

	kind := ActionSpecEdit
	switch {
	case address:
		kind = ActionAddressEdit
	case customer:
		kind = ActionCustomerEdit
	case spec:
		kind = ActionSpecEdit
	}
	return updates, kind
}

// Cancel moves any non-terminal order to cancelled and records the reason.
func (s *Service) Cancel(ctx context.Context, orderID, reason, actorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status.Terminal() {
			return ErrNotCancellable
		}

		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"status": StatusCancelled, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		old := string(o.Status)
		val := strings.TrimSpace(reason)
		if val == "" {
			val = "Cancelled"
		}
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionCancelled, OldValue: &old, NewValue: &val,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Cancelled")
	})
}

// MarkRefunded stamps refunded_at and forces the status to cancelled; the
// refunded flag coexists with the status rather than replacing it.
func (s *Service) MarkRefunded(ctx context.Context, orderID, actorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"status": StatusCancelled, "refunded_at": now, "updated_at": now}).Error; err != nil {
			return err
		}

		val := "Refunded"
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionRefunded, NewValue: &val,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Refunded")
	})
}

// Archive soft-deletes: the order drops out of default listings but keeps
// its row and audit trail. Reversible via Restore.
func (s *Service) Archive(ctx context.Context, orderID, actorID string) error {
	return s.setArchived(ctx, orderID, actorID, true)
}

func (s *Service) Restore(ctx context.Context, orderID, actorID string) error {
	return s.setArchived(ctx, orderID, actorID, false)
}

func (s *Service) setArchived(ctx context.Context, orderID, actorID string, archived bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		var deletedAt *time.Time
		action, val := ActionRestored, "Restored"
		if archived {
			now := time.Now()
			deletedAt = &now
			action, val = ActionArchived, "Archived"
		}

		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"deleted_at": deletedAt, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: action, NewValue: &val,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, val)
	})
}

// ReplacePrintFile overwrites the print file for one wall. The blob is
// uploaded first (same key as the original, so storage upserts); only then
// is the order row updated.
func (s *Service) ReplacePrintFile(ctx context.Context, orderID string, wallIndex int, file io.Reader, actorID string) error {
	if wallIndex < 0 {
		return ErrBadWallIndex
	}

	repo := NewRepo(s.db)
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	var urls []string
	if err := json.Unmarshal(o.ImageURLs, &urls); err != nil || len(urls) == 0 {
		urls = []string{o.ImageURL}
	}
	if wallIndex >= len(urls) {
		return ErrBadWallIndex
	}

	key := fmt.Sprintf("%s-%d.jpg", o.OrderNumber, wallIndex)
	res, err := s.store.Put(ctx, file, storage.PutInput{Key: key, ContentType: "image/jpeg"})
	if err != nil {
		return fmt.Errorf("upload print file: %w", err)
	}
	urls[wallIndex] = res.URL

	raw, _ := json.Marshal(urls)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{
				"image_url":  urls[0],
				"image_urls": datatypes.JSON(raw),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		val := fmt.Sprintf("Wall %d replaced", wallIndex+1)
		if err := appendActivity(ctx, tx, Activity{
			OrderID: o.ID, ActorID: actorID,
			Action: ActionPrintFileReplaced, NewValue: &val,
		}); err != nil {
			return err
		}
		return setLastActivity(ctx, tx, o.ID, "Print file replaced")
	})
}

// MarkPaid transitions every referenced pending order to new and records the
// provider's payment id. Called by the payment webhook; orders already past
// pending are left alone, which makes redelivered webhooks harmless.
func (s *Service) MarkPaid(ctx context.Context, orderNumbers []string, paymentID string) error {
	if len(orderNumbers) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var matched []Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&matched, "order_number IN ? AND status = ?", orderNumbers, StatusPending).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, o := range matched {
			updates := map[string]any{"status": StatusNew, "updated_at": now}
			if paymentID != "" {
				updates["stitch_payment_id"] = paymentID
			}
			if err := tx.WithContext(ctx).Model(&Order{}).
				Where("id = ? AND status = ?", o.ID, StatusPending).
				Updates(updates).Error; err != nil {
				return err
			}

			for _, a := range paymentActivities(o.ID, paymentID) {
				if err := appendActivity(ctx, tx, a); err != nil {
					return err
				}
			}
			if err := setLastActivity(ctx, tx, o.ID, "Payment received"); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "order paid", "order_number", o.OrderNumber, "payment_id", paymentID)
		}
		return nil
	})
}

// paymentActivities builds the audit rows for a pending order that just got
// paid: the pending→new status change, plus a payment_received row carrying
// the provider's payment id when one was supplied.
func paymentActivities(orderID, paymentID string) []Activity {
	old := string(StatusPending)
	next := string(StatusNew)
	rows := []Activity{{
		OrderID: orderID, ActorID: "stitch",
		Action: ActionStatusChange, OldValue: &old, NewValue: &next,
	}}
	if paymentID != "" {
		rows = append(rows, Activity{
			OrderID: orderID, ActorID: "stitch",
			Action: ActionPaymentReceived, NewValue: &paymentID,
		})
	}
	return rows
}

func lockOrder(ctx context.Context, tx *gorm.DB, id string) (Order, error) {
	var o Order
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func appendActivity(ctx context.Context, tx *gorm.DB, a Activity) error {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	return tx.WithContext(ctx).Create(&a).Error
}

func setLastActivity(ctx context.Context, tx *gorm.DB, orderID, preview string) error {
	if len(preview) > 200 {
		preview = preview[:200]
	}
	now := time.Now()
	return tx.WithContext(ctx).Model(&Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"last_activity_at": now, "last_activity_preview": preview}).Error
}

func factoryName(ctx context.Context, tx *gorm.DB, id *string) (string, error) {
	if id == nil {
		return "Unassigned", nil
	}
	var f Factory
	if err := tx.WithContext(ctx).First(&f, "id = ?", *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "Unknown", nil
		}
		return "", err
	}
	return f.Name, nil
}
