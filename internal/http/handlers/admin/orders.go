package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/http/validation"
	"github.com/ecoh04/paperwalls/internal/modules/orders"
	"github.com/ecoh04/paperwalls/internal/shared/apperr"
	"github.com/ecoh04/paperwalls/pkg/view"
)

// actorAdmin identifies back-office mutations in the activity trail.
const actorAdmin = "admin"

const listPageSize = 30

type OrdersHandler struct {
	DB  *gorm.DB
	Svc *orders.Service
}

func NewOrdersHandler(db *gorm.DB, svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{DB: db, Svc: svc}
}

func (h *OrdersHandler) List(c *gin.Context) {
	params := listParamsFromQuery(c)

	repo := orders.NewRepo(h.DB)
	res, err := repo.List(c.Request.Context(), params)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	names, err := repo.FactoryNames(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]view.AdminOrderListItem, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, view.AdminOrderListItemFrom(o, names))
	}

	c.JSON(http.StatusOK, view.AdminOrdersPage{
		Items:      items,
		Total:      res.Total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: pagesFromTotal(res.Total, params.PageSize),
	})
}

func listParamsFromQuery(c *gin.Context) orders.ListParams {
	params := orders.ListParams{
		Status:       strings.TrimSpace(c.Query("status")),
		RefundedOnly: c.Query("refunded") == "1",
		FactoryID:    strings.TrimSpace(c.Query("factory")),
		Q:            strings.TrimSpace(c.Query("q")),
		ShowArchived: c.Query("archived") == "1",
		Page:         parseInt(c.Query("page"), 1),
		PageSize:     listPageSize,
	}
	if t, ok := parseDate(c.Query("from")); ok {
		params.From = &t
	}
	if t, ok := parseDate(c.Query("to")); ok {
		// inclusive end of day
		end := t.Add(24*time.Hour - time.Millisecond)
		params.To = &end
	}
	return params
}

func (h *OrdersHandler) Detail(c *gin.Context) {
	repo := orders.NewRepo(h.DB)
	o, acts, err := repo.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, orderError(err))
		return
	}
	names, err := repo.FactoryNames(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, view.AdminOrderDetailFrom(o, acts, names))
}

// ExportCSV streams the current listing, all pages, as a spreadsheet.
func (h *OrdersHandler) ExportCSV(c *gin.Context) {
	params := listParamsFromQuery(c)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	repo := orders.NewRepo(h.DB)
	if err := repo.Export(c.Request.Context(), c.Writer, params); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
	}
}

func (h *OrdersHandler) Factories(c *gin.Context) {
	fs, err := orders.NewRepo(h.DB).ListFactories(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]item, 0, len(fs))
	for _, f := range fs {
		out = append(out, item{ID: f.ID, Name: f.Name})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrdersHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Status is required.", validation.FromBindError(err, &req)))
		return
	}
	err := h.Svc.SetStatus(c.Request.Context(), c.Param("id"), orders.Status(req.Status), actorAdmin)
	respond(c, err)
}

type assignRequest struct {
	FactoryID *string `json:"factory_id"` // null clears the assignment
}

func (h *OrdersHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Assign request is invalid.", validation.FromBindError(err, &req)))
		return
	}
	err := h.Svc.AssignFactory(c.Request.Context(), c.Param("id"), req.FactoryID, actorAdmin)
	respond(c, err)
}

type noteRequest struct {
	Note string `json:"note" binding:"required"`
}

func (h *OrdersHandler) AddNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Note is required.", validation.FromBindError(err, &req)))
		return
	}
	err := h.Svc.AddNote(c.Request.Context(), c.Param("id"), req.Note, actorAdmin)
	respond(c, err)
}

type editRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone *string `json:"customer_phone"`

	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`

	WallWidthM        *string                 `json:"wall_width_m"`
	WallHeightM       *string                 `json:"wall_height_m"`
	WallCount         *int                    `json:"wall_count" binding:"omitempty,min=1,max=4"`
	TotalSqm          *string                 `json:"total_sqm"`
	WallpaperStyle    *string                 `json:"wallpaper_style"`
	ApplicationMethod *string                 `json:"application_method"`
	Walls             []orders.WallDimensions `json:"walls"`
}

func (h *OrdersHandler) Edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Edit request is invalid.", validation.FromBindError(err, &req)))
		return
	}
	err := h.Svc.UpdateDetails(c.Request.Context(), c.Param("id"), orders.DetailUpdates{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,

		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,

		WallWidthM:        req.WallWidthM,
		WallHeightM:       req.WallHeightM,
		WallCount:         req.WallCount,
		TotalSqm:          req.TotalSqm,
		WallpaperStyle:    req.WallpaperStyle,
		ApplicationMethod: req.ApplicationMethod,
		WallsSpec:         req.Walls,
	}, actorAdmin)
	respond(c, err)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrdersHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)
	err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason, actorAdmin)
	respond(c, err)
}

func (h *OrdersHandler) Refund(c *gin.Context) {
	respond(c, h.Svc.MarkRefunded(c.Request.Context(), c.Param("id"), actorAdmin))
}

func (h *OrdersHandler) Archive(c *gin.Context) {
	respond(c, h.Svc.Archive(c.Request.Context(), c.Param("id"), actorAdmin))
}

func (h *OrdersHandler) Restore(c *gin.Context) {
	respond(c, h.Svc.Restore(c.Request.Context(), c.Param("id"), actorAdmin))
}

// ReplacePrintFile takes a multipart upload: wall_index + file.
func (h *OrdersHandler) ReplacePrintFile(c *gin.Context) {
	wallIndex := parseInt(c.PostForm("wall_index"), -1)

	fh, err := c.FormFile("file")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("A print file is required.", nil))
		return
	}
	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	respond(c, h.Svc.ReplacePrintFile(c.Request.Context(), c.Param("id"), wallIndex, f, actorAdmin))
}

type bulkRequest struct {
	IDs       []string `json:"ids" binding:"required,min=1"`
	Action    string   `json:"action" binding:"required,oneof=status assign"`
	Status    string   `json:"status"`
	FactoryID *string  `json:"factory_id"`
}

// Bulk applies a status change or factory assignment to many orders. Each
// order is processed independently; failures are reported per id instead of
// aborting the batch.
func (h *OrdersHandler) Bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Bulk request is invalid.", validation.FromBindError(err, &req)))
		return
	}

	failed := map[string]string{}
	for _, id := range req.IDs {
		var err error
		switch req.Action {
		case "status":
			err = h.Svc.SetStatus(c.Request.Context(), id, orders.Status(req.Status), actorAdmin)
		case "assign":
			err = h.Svc.AssignFactory(c.Request.Context(), id, req.FactoryID, actorAdmin)
		}
		if err != nil {
			failed[id] = apperr.PublicMessage(orderError(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        len(failed) == 0,
		"processed": len(req.IDs) - len(failed),
		"failed":    failed,
	})
}

func respond(c *gin.Context, err error) {
	if err != nil {
		middleware.Fail(c, orderError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func orderError(err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return apperr.NotFoundErr("Order not found.")
	case errors.Is(err, orders.ErrInvalidStatus):
		return apperr.InvalidErr("That status cannot be set directly.", nil)
	case errors.Is(err, orders.ErrNotCancellable):
		return apperr.ConflictErr("Delivered or cancelled orders cannot be cancelled.")
	case errors.Is(err, orders.ErrEmptyNote):
		return apperr.InvalidErr("Note cannot be empty.", nil)
	case errors.Is(err, orders.ErrUnknownFactory):
		return apperr.InvalidErr("Unknown factory.", nil)
	case errors.Is(err, orders.ErrBadWallIndex):
		return apperr.InvalidErr("Wall index is out of range.", nil)
	case errors.Is(err, orders.ErrNothingToUpdate):
		return apperr.InvalidErr("Nothing to update.", nil)
	default:
		return apperr.Wrap(err)
	}
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func pagesFromTotal(total int64, size int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
