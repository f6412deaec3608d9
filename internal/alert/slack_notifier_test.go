package alert

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/refacia/refacia/internal/alert/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlack struct {
	channel string
	message string
}

func (f *fakeSlack) PostMessage(_ context.Context, channel, message string) error {
	f.channel = channel
	f.message = message
	return nil
}

func TestSlackNotifier_FormatsMessage(t *testing.T) {
	provider := &fakeSlack{}
	n := NewSlackNotifier(provider, "#inventory")

	err := n.Notify(context.Background(), domain.Event{
		ID:          uuid.New(),
		ProductSKU:  "AP001",
		ProductName: "Oil Filter",
		Quantity:    2,
		Minimum:     5,
		Status:      "CRITICAL",
		Location:    "A-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "#inventory", provider.channel)
	assert.Equal(t, "[CRITICAL] Oil Filter (AP001): 2 on hand, minimum 5 at A-01", provider.message)
}

func TestSlackNotifier_OmitsEmptyLocation(t *testing.T) {
	provider := &fakeSlack{}
	n := NewSlackNotifier(provider, "#inventory")

	err := n.Notify(context.Background(), domain.Event{
		ID:          uuid.New(),
		ProductSKU:  "AP002",
		ProductName: "Brake Pad",
		Quantity:    0,
		Minimum:     3,
		Status:      "OUT_OF_STOCK",
	})
	require.NoError(t, err)
	assert.Equal(t, "[OUT_OF_STOCK] Brake Pad (AP002): 0 on hand, minimum 3", provider.message)
}
