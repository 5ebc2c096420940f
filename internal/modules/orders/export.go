package orders

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/ecoh04/paperwalls/internal/modules/pricing"
)

// exportHeader is the fixed column order of the admin CSV export.
var exportHeader = []string{
	"Order", "Customer", "Email", "Phone", "Status",
	"Total", "Created", "Updated", "Shipped", "Factory",
}

// WriteCSV renders orders as the admin export. encoding/csv applies RFC 4180
// quoting, and the row order follows the input, so identical filters produce
// byte-identical files.
func WriteCSV(w io.Writer, items []Order, factoryNames map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range items {
		factory := ""
		if o.AssignedFactoryID != nil {
			factory = factoryNames[*o.AssignedFactoryID]
		}
		row := []string{
			o.OrderNumber,
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.Status.Label(),
			pricing.FormatZAR(o.TotalCents),
			exportDate(&o.CreatedAt),
			exportDate(&o.UpdatedAt),
			exportDate(o.ShippedAt),
			factory,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// Export streams the filtered listing as CSV.
func (r *Repo) Export(ctx context.Context, w io.Writer, in ListParams) error {
	items, err := r.ListAll(ctx, in)
	if err != nil {
		return err
	}
	names, err := r.FactoryNames(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, items, names)
}
