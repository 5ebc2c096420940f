package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoh04/paperwalls/internal/modules/configurator"
	"github.com/ecoh04/paperwalls/internal/modules/crop"
	"github.com/ecoh04/paperwalls/internal/modules/orders"
	"github.com/ecoh04/paperwalls/internal/modules/pricing"
	"github.com/ecoh04/paperwalls/internal/modules/shipping"
	"github.com/ecoh04/paperwalls/internal/storage"
)

type memStorage struct {
	keys []string
}

func (m *memStorage) Put(_ context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if _, err := io.ReadAll(r); err != nil {
		return storage.PutResult{}, err
	}
	m.keys = append(m.keys, in.Key)
	return storage.PutResult{Key: in.Key, URL: "https://cdn.test/" + in.Key}, nil
}

func (m *memStorage) Delete(context.Context, string) error { return nil }

func testService(store storage.Storage) *Service {
	s := NewService(nil, store, nil, "https://paperwalls.test/")
	s.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return s
}

func uniformConfig() configurator.Configuration {
	return configurator.Configuration{
		WallCount: 2,
		Layout: configurator.Uniform{Wall: configurator.WallSpec{
			WidthM:   decimal.NewFromFloat(3),
			HeightM:  decimal.NewFromFloat(2.4),
			ImageRef: "upload-1",
		}},
		Finish:      pricing.FinishMatte,
		Application: pricing.ApplicationDIY,
	}
}

func fakeCrops(n int) []crop.Result {
	out := make([]crop.Result, n)
	for i := range out {
		out[i] = crop.Result{Width: 100, Height: 100, JPEG: []byte{0xff, 0xd8, byte(i)}}
	}
	return out
}

func testAddress() Address {
	return Address{
		CustomerName:  "Thandi Nkosi",
		CustomerEmail: "thandi@example.com",
		CustomerPhone: "+27821234567",
		AddressLine1:  "12 Vilakazi St",
		City:          "Johannesburg",
		Province:      shipping.Gauteng,
		PostalCode:    "2001",
	}
}

func TestSubmit_EmptyCart(t *testing.T) {
	s := testService(&memStorage{})
	_, err := s.Submit(context.Background(), testAddress(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_IncompleteConfig(t *testing.T) {
	s := testService(&memStorage{})
	cfg := uniformConfig()
	cfg.Finish = ""
	_, err := s.Submit(context.Background(), testAddress(), []Line{{Config: cfg, Crops: fakeCrops(2)}})
	assert.ErrorIs(t, err, ErrIncompleteConfig)
}

func TestSubmit_MissingPrintFiles(t *testing.T) {
	s := testService(&memStorage{})
	_, err := s.Submit(context.Background(), testAddress(), []Line{{Config: uniformConfig(), Crops: fakeCrops(3)}})
	assert.ErrorIs(t, err, ErrMissingPrintFiles)
}

func TestBuildRows_UniformLine(t *testing.T) {
	store := &memStorage{}
	s := testService(store)

	rows, numbers, err := s.buildRows(context.Background(), testAddress(),
		[]Line{{Config: uniformConfig(), Crops: fakeCrops(2)}},
		shipping.Cents(shipping.Gauteng))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, numbers, 1)

	row := rows[0]
	assert.Equal(t, numbers[0], row.OrderNumber)
	assert.Regexp(t, `^PW-20260314-[0-9a-f]{8}$`, row.OrderNumber)
	assert.Equal(t, orders.StatusPending, row.Status)
	assert.Equal(t, 2, row.WallCount)
	assert.Equal(t, "14.4", row.TotalSqm.String())

	// 14.4 m2 in the >=10 tier at R450/m2 for matte diy.
	assert.Equal(t, int64(648000), row.SubtotalCents)
	assert.Equal(t, int64(15000), row.ShippingCents)
	assert.Equal(t, int64(663000), row.TotalCents)

	// One upload per wall, keyed by order number and wall index.
	require.Equal(t, []string{
		numbers[0] + "-0.jpg",
		numbers[0] + "-1.jpg",
	}, store.keys)
	assert.Equal(t, "https://cdn.test/"+numbers[0]+"-0.jpg", row.ImageURL)

	var urls []string
	require.NoError(t, json.Unmarshal(row.ImageURLs, &urls))
	assert.Len(t, urls, 2)

	// Uniform orders carry no per-wall spec.
	assert.Nil(t, row.WallsSpec)
}

func TestBuildRows_ShippingOnFirstLineOnly(t *testing.T) {
	store := &memStorage{}
	s := testService(store)

	cart := []Line{
		{Config: uniformConfig(), Crops: fakeCrops(2)},
		{Config: uniformConfig(), Crops: fakeCrops(2)},
	}
	rows, _, err := s.buildRows(context.Background(), testAddress(), cart,
		shipping.Cents(shipping.WesternCape))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(18000), rows[0].ShippingCents)
	assert.Equal(t, rows[0].SubtotalCents+18000, rows[0].TotalCents)
	assert.Zero(t, rows[1].ShippingCents)
	assert.Equal(t, rows[1].SubtotalCents, rows[1].TotalCents)
}

func TestBuildRows_PerWallSpec(t *testing.T) {
	s := testService(&memStorage{})

	cfg := configurator.Configuration{
		WallCount: 2,
		Layout: configurator.PerWall{Walls: []configurator.WallSpec{
			{WidthM: decimal.NewFromFloat(2), HeightM: decimal.NewFromFloat(2.4), ImageRef: "a"},
			{WidthM: decimal.NewFromFloat(3), HeightM: decimal.NewFromFloat(2.4), ImageRef: "b"},
		}},
		Finish:      pricing.FinishSatin,
		Application: pricing.ApplicationInstaller,
	}
	rows, _, err := s.buildRows(context.Background(), testAddress(),
		[]Line{{Config: cfg, Crops: fakeCrops(2)}}, 15000)
	require.NoError(t, err)

	var dims []orders.WallDimensions
	require.NoError(t, json.Unmarshal(rows[0].WallsSpec, &dims))
	require.Len(t, dims, 2)
	assert.Equal(t, "2", dims[0].WidthM.String())
	assert.Equal(t, "3", dims[1].WidthM.String())
}

type failStorage struct{ memStorage }

func (f *failStorage) Put(context.Context, io.Reader, storage.PutInput) (storage.PutResult, error) {
	return storage.PutResult{}, fmt.Errorf("s3 unavailable")
}

func TestBuildRows_UploadFailureAborts(t *testing.T) {
	s := testService(&failStorage{})
	_, _, err := s.buildRows(context.Background(), testAddress(),
		[]Line{{Config: uniformConfig(), Crops: fakeCrops(2)}}, 15000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload print file")
}

func TestSuccessURL(t *testing.T) {
	s := testService(&memStorage{})
	got := s.successURL([]string{"PW-20260314-aaaa1111", "PW-20260314-bbbb2222"})
	assert.Equal(t,
		"https://paperwalls.test/checkout/success?orders=PW-20260314-aaaa1111%2CPW-20260314-bbbb2222",
		got)
}
