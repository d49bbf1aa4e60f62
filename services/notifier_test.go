package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"molding-inventory/apperr"
	"molding-inventory/logger"
	"molding-inventory/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

var lowItems = []ReorderItem{
	{Kind: types.KindMaterial, ItemID: 1, Name: "PA66", CurrentStock: dec("10"), ReorderPoint: dec("100"),
		SuggestedOrder: dec("190"), Unit: "lbs", Supplier: "Resin Co", Urgency: UrgencyHigh},
}

func TestNotifierSend(t *testing.T) {
	sender := &fakeSender{}
	n := NewReorderNotifierWithSender(sender, "inventory@example.com", []string{"buyer@example.com"}, logger.NewNop())

	require.NoError(t, n.Send(context.Background(), lowItems))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"buyer@example.com"}, sender.sent[0].GetHeader("To"))

	var raw bytes.Buffer
	_, err := sender.sent[0].WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "PA66")
	assert.Contains(t, raw.String(), ".xlsx")
}

func TestNotifierSkipsEmptyList(t *testing.T) {
	sender := &fakeSender{}
	n := NewReorderNotifierWithSender(sender, "inventory@example.com", []string{"buyer@example.com"}, logger.NewNop())
	require.NoError(t, n.Send(context.Background(), nil))
	assert.Empty(t, sender.sent)
}

func TestNotifierErrors(t *testing.T) {
	n := NewReorderNotifierWithSender(&fakeSender{}, "inventory@example.com", nil, logger.NewNop())
	assert.ErrorIs(t, n.Send(context.Background(), lowItems), apperr.ErrInvalidInput)

	failing := NewReorderNotifierWithSender(&fakeSender{err: errors.New("connection refused")}, "a@example.com", []string{"b@example.com"}, logger.NewNop())
	assert.ErrorIs(t, failing.Send(context.Background(), lowItems), apperr.ErrStoreUnavailable)
}

func TestBuildMessageSubject(t *testing.T) {
	n := NewReorderNotifierWithSender(&fakeSender{}, "a@example.com", []string{"b@example.com"}, logger.NewNop())
	msg, err := n.BuildMessage(lowItems, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"Reorder list 2026-03-02"}, msg.GetHeader("Subject"))
}
