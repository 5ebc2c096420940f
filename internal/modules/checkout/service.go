package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ecoh04/paperwalls/internal/modules/configurator"
	"github.com/ecoh04/paperwalls/internal/modules/crop"
	"github.com/ecoh04/paperwalls/internal/modules/orders"
	"github.com/ecoh04/paperwalls/internal/modules/payments"
	"github.com/ecoh04/paperwalls/internal/modules/pricing"
	"github.com/ecoh04/paperwalls/internal/modules/shipping"
	"github.com/ecoh04/paperwalls/internal/storage"
)

const insertAttempts = 3

// Address is the validated checkout address. Province arrives normalized to
// the closed enum.
type Address struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	AddressLine1 string
	AddressLine2 string
	City         string
	Province     shipping.Province
	PostalCode   string
}

// Line is one cart entry at submission time: a complete configuration plus
// one rasterized print file per wall.
type Line struct {
	Config configurator.Configuration
	Crops  []crop.Result
}

type SubmitResult struct {
	RedirectURL  string
	OrderNumbers []string
}

// Service assembles submitted carts into order rows, uploads print files,
// and opens the payment. Uploads complete before the rows are written, and
// the rows exist before the payment is created, because the payment's
// webhook references the order numbers.
type Service struct {
	db       *gorm.DB
	store    storage.Storage
	provider payments.Provider
	appURL   string
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, store storage.Storage, provider payments.Provider, appURL string) *Service {
	return &Service{
		db:       db,
		store:    store,
		provider: provider,
		appURL:   strings.TrimRight(appURL, "/"),
		logger:   slog.Default(),
		now:      time.Now,
	}
}

func (s *Service) SetLogger(l *slog.Logger) { s.logger = l }

func (s *Service) Submit(ctx context.Context, addr Address, cart []Line) (SubmitResult, error) {
	if len(cart) == 0 {
		return SubmitResult{}, ErrEmptyCart
	}
	for _, line := range cart {
		if !line.Config.Complete() {
			return SubmitResult{}, ErrIncompleteConfig
		}
		if len(line.Crops) != len(line.Config.Walls()) && len(line.Crops) != 1 {
			return SubmitResult{}, ErrMissingPrintFiles
		}
	}

	shippingCents := shipping.Cents(addr.Province)

	var (
		rows    []orders.Order
		numbers []string
	)
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		var err error
		rows, numbers, err = s.buildRows(ctx, addr, cart, shippingCents)
		if err != nil {
			return SubmitResult{}, err
		}

		err = s.db.WithContext(ctx).Create(&rows).Error
		if err == nil {
			break
		}
		if !isDup(err) {
			return SubmitResult{}, fmt.Errorf("insert orders: %w", err)
		}
		// order_number collision: regenerate suffixes, re-upload under the
		// new keys, try again.
		s.logger.WarnContext(ctx, "order number collision, retrying", "attempt", attempt)
		if attempt == insertAttempts {
			return SubmitResult{}, ErrOrderNumberConflict
		}
	}

	var totalCents int64
	for _, r := range rows {
		totalCents += r.TotalCents
	}

	resp, err := s.provider.CreatePayment(ctx, payments.CreatePaymentRequest{
		AmountCents:  totalCents,
		OrderNumbers: numbers,
		Reference:    numbers[0],
		PayerName:    addr.CustomerName,
		PayerEmail:   addr.CustomerEmail,
		PayerPhone:   addr.CustomerPhone,
		SuccessURL:   s.successURL(numbers),
		CancelURL:    s.appURL + "/checkout",
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create payment: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout submitted",
		"orders", len(numbers), "total_cents", totalCents)
	return SubmitResult{RedirectURL: resp.RedirectURL, OrderNumbers: numbers}, nil
}

// buildRows generates fresh order numbers, uploads every print file, and
// assembles the rows. A failed upload aborts the whole submission; an order
// must never persist with missing images.
func (s *Service) buildRows(ctx context.Context, addr Address, cart []Line, shippingCents int64) ([]orders.Order, []string, error) {
	now := s.now()
	rows := make([]orders.Order, 0, len(cart))
	numbers := make([]string, 0, len(cart))

	for i, line := range cart {
		number := orderNumber(now, newSuffix())
		numbers = append(numbers, number)

		urls := make([]string, 0, len(line.Crops))
		for j, cr := range line.Crops {
			key := fmt.Sprintf("%s-%d.jpg", number, j)
			res, err := s.store.Put(ctx, bytes.NewReader(cr.JPEG), storage.PutInput{
				Key:         key,
				ContentType: "image/jpeg",
			})
			if err != nil {
				return nil, nil, fmt.Errorf("upload print file %s: %w", key, err)
			}
			urls = append(urls, res.URL)
		}

		row, err := s.buildRow(line, addr, number, urls, now)
		if err != nil {
			return nil, nil, err
		}
		// Shipping is charged on the first cart line only.
		if i == 0 {
			row.ShippingCents = shippingCents
			row.TotalCents = row.SubtotalCents + shippingCents
		}
		rows = append(rows, row)
	}
	return rows, numbers, nil
}

func (s *Service) buildRow(line Line, addr Address, number string, urls []string, now time.Time) (orders.Order, error) {
	cfg := line.Config
	breakdown := pricing.Price(cfg.TotalSqm(), cfg.Finish, cfg.Application)

	walls := cfg.Walls()
	first := walls[0]

	var wallsSpec datatypes.JSON
	if pw, ok := cfg.Layout.(configurator.PerWall); ok {
		dims := make([]orders.WallDimensions, len(pw.Walls))
		for i, w := range pw.Walls {
			dims[i] = orders.WallDimensions{WidthM: w.WidthM, HeightM: w.HeightM}
		}
		raw, err := json.Marshal(dims)
		if err != nil {
			return orders.Order{}, err
		}
		wallsSpec = datatypes.JSON(raw)
	}

	rawURLs, err := json.Marshal(urls)
	if err != nil {
		return orders.Order{}, err
	}

	var line2 *string
	if v := strings.TrimSpace(addr.AddressLine2); v != "" {
		line2 = &v
	}

	return orders.Order{
		ID:          uuid.NewString(),
		OrderNumber: number,

		CustomerName:  strings.TrimSpace(addr.CustomerName),
		CustomerEmail: strings.TrimSpace(addr.CustomerEmail),
		CustomerPhone: strings.TrimSpace(addr.CustomerPhone),

		AddressLine1: strings.TrimSpace(addr.AddressLine1),
		AddressLine2: line2,
		City:         strings.TrimSpace(addr.City),
		Province:     string(addr.Province),
		PostalCode:   strings.TrimSpace(addr.PostalCode),

		WallWidthM:  first.WidthM,
		WallHeightM: first.HeightM,
		WallCount:   cfg.WallCount,
		TotalSqm:    cfg.TotalSqm(),

		ImageURL:  urls[0],
		ImageURLs: datatypes.JSON(rawURLs),
		WallsSpec: wallsSpec,

		WallpaperStyle:    string(cfg.Finish),
		ApplicationMethod: string(cfg.Application),

		SubtotalCents: breakdown.SubtotalCents,
		ShippingCents: 0,
		TotalCents:    breakdown.SubtotalCents,

		Status:    orders.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Service) successURL(numbers []string) string {
	return s.appURL + "/checkout/success?orders=" + url.QueryEscape(strings.Join(numbers, ","))
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
