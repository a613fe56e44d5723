package worker

// price_sheet_worker.go
// Processes jobs from QueuePriceSheet: renders the profile's price sheet,
// archives it in the sheet store and, when a recipient is configured,
// enqueues the mail delivery.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foboh/internal/infra"
	"foboh/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PriceSheetJobPayload is the job envelope sent to QueuePriceSheet.
type PriceSheetJobPayload struct {
	ProfileID string `json:"profile_id"`
}

type PriceSheetWorker struct {
	profiles   repository.ProfileRepository
	products   repository.ProductRepository
	store      infra.SheetStore
	dispatcher *Dispatcher
	recipient  string
}

// NewPriceSheetWorker wires the worker. dispatcher may be nil and recipient
// empty, in which case no mail is sent.
func NewPriceSheetWorker(
	profiles repository.ProfileRepository,
	products repository.ProductRepository,
	store infra.SheetStore,
	dispatcher *Dispatcher,
	recipient string,
) *PriceSheetWorker {
	return &PriceSheetWorker{
		profiles:   profiles,
		products:   products,
		store:      store,
		dispatcher: dispatcher,
		recipient:  recipient,
	}
}

func (w *PriceSheetWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PriceSheetJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("price_sheet_worker: invalid payload: %w", err))
	}
	id, err := uuid.Parse(payload.ProfileID)
	if err != nil {
		return permanent(fmt.Errorf("price_sheet_worker: invalid profile_id %q", payload.ProfileID))
	}

	profile, err := w.profiles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted between save and processing; nothing left to print.
		log.Warn().Str("profile_id", payload.ProfileID).Msg("price_sheet_worker: profile gone, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("price_sheet_worker: load profile: %w", err)
	}

	ids := make([]string, len(profile.Items))
	for i, it := range profile.Items {
		ids[i] = it.ProductID
	}
	products, err := w.products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("price_sheet_worker: load products: %w", err)
	}

	pdf, err := infra.RenderPriceSheet(infra.NewPriceSheet(*profile, products))
	if err != nil {
		return permanent(err)
	}

	name := infra.PriceSheetFileName(payload.ProfileID)
	location, err := w.store.Save(ctx, name, pdf)
	if err != nil {
		return err
	}
	log.Info().Str("profile_id", payload.ProfileID).Str("location", location).Msg("price_sheet_worker: sheet archived")

	if w.recipient == "" || w.dispatcher == nil {
		return nil
	}
	mail := EmailJobPayload{
		ToEmail:   w.recipient,
		Subject:   fmt.Sprintf("Price sheet: %s", profile.Name),
		Body:      fmt.Sprintf("Attached is the price sheet for pricing profile %q (%d products).", profile.Name, len(profile.Items)),
		SheetName: name,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, mail); err != nil {
		return fmt.Errorf("price_sheet_worker: enqueue email: %w", err)
	}
	log.Info().Str("profile_id", payload.ProfileID).Str("to", w.recipient).Msg("price_sheet_worker: email job enqueued")
	return nil
}
