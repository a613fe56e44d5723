package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"foboh/internal/infra"
	"foboh/internal/model"
	"foboh/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfile(t *testing.T, profiles repository.ProfileRepository) model.PricingProfile {
	t.Helper()
	p := model.PricingProfile{
		ID:        uuid.New(),
		Name:      "Autumn",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []model.PriceItem{{
			ID:              uuid.New(),
			ProductID:       "2",
			AdjustmentType:  model.AdjustmentFixed,
			IncrementType:   model.IncrementIncrease,
			AdjustmentValue: decimal.RequireFromString("5"),
			Adjustment:      decimal.RequireFromString("125"),
		}},
	}
	require.NoError(t, profiles.Create(context.Background(), &p))
	return p
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestPriceSheetWorker_ArchivesAndQueuesMail(t *testing.T) {
	_, rdb := newTestRedis(t)
	profiles := repository.NewMemoryProfileRepository()
	products := repository.NewMemoryProductRepository(repository.SeedProducts())
	store := infra.NewLocalSheetStore(t.TempDir())
	p := seedProfile(t, profiles)

	w := NewPriceSheetWorker(profiles, products, store, NewDispatcher(rdb), "buyer@example.com")
	require.NoError(t, w.Process(context.Background(), payload(t, PriceSheetJobPayload{ProfileID: p.ID.String()})))

	name := infra.PriceSheetFileName(p.ID.String())
	data, err := store.Load(context.Background(), name)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	jobs := queuedJobs(t, rdb, QueueEmail)
	require.Len(t, jobs, 1)
	var mail EmailJobPayload
	require.NoError(t, json.Unmarshal(jobs[0].Payload, &mail))
	assert.Equal(t, "buyer@example.com", mail.ToEmail)
	assert.Equal(t, name, mail.SheetName)
	assert.Equal(t, "Price sheet: Autumn", mail.Subject)
}

func TestPriceSheetWorker_NoRecipientNoMail(t *testing.T) {
	_, rdb := newTestRedis(t)
	profiles := repository.NewMemoryProfileRepository()
	p := seedProfile(t, profiles)
	w := NewPriceSheetWorker(profiles, repository.NewMemoryProductRepository(nil),
		infra.NewLocalSheetStore(t.TempDir()), NewDispatcher(rdb), "")

	require.NoError(t, w.Process(context.Background(), payload(t, PriceSheetJobPayload{ProfileID: p.ID.String()})))
	assert.Empty(t, queuedJobs(t, rdb, QueueEmail))
}

func TestPriceSheetWorker_ProfileGoneIsSkipped(t *testing.T) {
	w := NewPriceSheetWorker(repository.NewMemoryProfileRepository(), repository.NewMemoryProductRepository(nil),
		infra.NewLocalSheetStore(t.TempDir()), nil, "")
	assert.NoError(t, w.Process(context.Background(), payload(t, PriceSheetJobPayload{ProfileID: uuid.NewString()})))
}

func TestPriceSheetWorker_BadPayloadIsPermanent(t *testing.T) {
	w := NewPriceSheetWorker(repository.NewMemoryProfileRepository(), repository.NewMemoryProductRepository(nil),
		infra.NewLocalSheetStore(t.TempDir()), nil, "")

	var perm *permanentError
	err := w.Process(context.Background(), json.RawMessage(`[1,2]`))
	assert.True(t, errors.As(err, &perm))

	err = w.Process(context.Background(), payload(t, PriceSheetJobPayload{ProfileID: "not-a-uuid"}))
	assert.True(t, errors.As(err, &perm))
}
