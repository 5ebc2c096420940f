package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_OperatorSettable(t *testing.T) {
	assert.True(t, StatusNew.OperatorSettable())
	assert.True(t, StatusInProduction.OperatorSettable())
	assert.True(t, StatusShipped.OperatorSettable())
	assert.True(t, StatusDelivered.OperatorSettable())

	// Reached only through payment confirmation / explicit cancel.
	assert.False(t, StatusPending.OperatorSettable())
	assert.False(t, StatusCancelled.OperatorSettable())
	assert.False(t, Status("archived").OperatorSettable())
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	for _, s := range []Status{StatusPending, StatusNew, StatusInProduction, StatusShipped} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestStatus_Labels(t *testing.T) {
	assert.Equal(t, "Awaiting payment", StatusPending.Label())
	assert.Equal(t, "In production", StatusInProduction.Label())
	// Unknown values fall through to the raw string rather than guessing.
	assert.Equal(t, "melted", Status("melted").Label())
}

func TestAction_Labels(t *testing.T) {
	for _, a := range []Action{
		ActionStatusChange, ActionAssigned, ActionNote, ActionCustomerEdit,
		ActionAddressEdit, ActionSpecEdit, ActionCancelled, ActionRefunded,
		ActionArchived, ActionRestored, ActionPrintFileReplaced, ActionPaymentReceived,
	} {
		assert.NotEqual(t, string(a), a.Label(), "label missing for %s", a)
	}
}

func TestPaymentActivities(t *testing.T) {
	rows := paymentActivities("order-1", "pay_abc")
	require.Len(t, rows, 2)

	assert.Equal(t, ActionStatusChange, rows[0].Action)
	assert.Equal(t, "stitch", rows[0].ActorID)
	require.NotNil(t, rows[0].OldValue)
	require.NotNil(t, rows[0].NewValue)
	assert.Equal(t, string(StatusPending), *rows[0].OldValue)
	assert.Equal(t, string(StatusNew), *rows[0].NewValue)

	assert.Equal(t, ActionPaymentReceived, rows[1].Action)
	require.NotNil(t, rows[1].NewValue)
	assert.Equal(t, "pay_abc", *rows[1].NewValue)

	// Without a payment id only the status change is logged.
	rows = paymentActivities("order-1", "")
	require.Len(t, rows, 1)
	assert.Equal(t, ActionStatusChange, rows[0].Action)
}

func TestDetailChanges_KindPriority(t *testing.T) {
	name := "Thandi"
	city := "Cape Town"
	style := "satin"

	// Address wins over customer and spec.
	updates, kind := detailChanges(DetailUpdates{CustomerName: &name, City: &city, WallpaperStyle: &style})
	assert.Equal(t, ActionAddressEdit, kind)
	assert.Len(t, updates, 3)

	updates, kind = detailChanges(DetailUpdates{CustomerName: &name, WallpaperStyle: &style})
	assert.Equal(t, ActionCustomerEdit, kind)
	assert.Len(t, updates, 2)

	_, kind = detailChanges(DetailUpdates{WallpaperStyle: &style})
	assert.Equal(t, ActionSpecEdit, kind)

	updates, _ = detailChanges(DetailUpdates{})
	assert.Empty(t, updates)
}
