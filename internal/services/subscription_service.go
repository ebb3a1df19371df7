package services

import (
	"context"
	"fmt"
	"time"

	"lexia/internal/config"
	"lexia/internal/core"
	"lexia/internal/sheets"
)

// SubscriptionService manages recurring record templates.
type SubscriptionService struct {
	store    sheets.SubscriptionStore
	settings config.Settings
	now      func() time.Time
}

func NewSubscriptionService(store sheets.SubscriptionStore, settings config.Settings) *SubscriptionService {
	return &SubscriptionService{store: store, settings: settings, now: time.Now}
}

// prepare fills defaults and checks the account type against the configured
// vocabulary, the same way ledger records are checked.
func (s *SubscriptionService) prepare(sub core.Subscription) (core.Subscription, error) {
	if sub.Every == "" {
		sub.Every = core.Monthly
	}
	if !sub.StartDate.Valid() {
		sub.StartDate = core.DateOf(s.now())
	}
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	if len(s.settings.AccountTypes) > 0 && !s.settings.HasAccountType(sub.AccountType) {
		return core.Subscription{}, fmt.Errorf("%w: %q", core.ErrUnknownAccountType, sub.AccountType)
	}
	return sub, nil
}

func (s *SubscriptionService) Create(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	sub, err := s.prepare(sub)
	if err != nil {
		return core.Subscription{}, err
	}
	created, err := s.store.CreateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}
	return created, nil
}

func (s *SubscriptionService) Update(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	sub, err := s.prepare(sub)
	if err != nil {
		return core.Subscription{}, err
	}
	updated, err := s.store.UpdateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	return updated, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteSubscription(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *SubscriptionService) Get(ctx context.Context, id int64) (core.Subscription, error) {
	return s.store.GetSubscription(ctx, id)
}

func (s *SubscriptionService) List(ctx context.Context) ([]core.Subscription, error) {
	return s.store.ListSubscriptions(ctx)
}
