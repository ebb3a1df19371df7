package http

import (
	"fmt"
	"net/http"

	"lexia/internal/core"
)

type subscriptionView struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	AccountType   string    `json:"accountType"`
	Amount        int64     `json:"amount"`
	Counterparty  string    `json:"counterparty,omitempty"`
	ItemName      string    `json:"itemName,omitempty"`
	ItemID        *int64    `json:"itemId,omitempty"`
	Note          string    `json:"note,omitempty"`
	Every         string    `json:"every"`
	StartDate     core.Date `json:"startDate"`
	EndDate       core.Date `json:"endDate"`
	LastGenerated core.Date `json:"lastGenerated"`
}

func toSubscriptionView(s core.Subscription) subscriptionView {
	v := subscriptionView{
		ID:            s.ID,
		Name:          s.Name,
		Category:      string(s.Category),
		AccountType:   s.AccountType,
		Amount:        s.Amount.Cents,
		Counterparty:  s.Counterparty,
		ItemName:      s.ItemName,
		Note:          s.Note,
		Every:         string(s.Every),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		LastGenerated: s.LastGenerated,
	}
	if s.ItemID != nil && *s.ItemID != 0 {
		id := *s.ItemID
		v.ItemID = &id
	}
	return v
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.deps.Subscriptions.List(r.Context())
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	out := make([]subscriptionView, len(subs))
	for i, sub := range subs {
		out[i] = toSubscriptionView(sub)
	}
	NewJSONResponse().Data(map[string]any{"subscriptions": out}).Write(w)
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	sub, err := s.deps.Subscriptions.Get(r.Context(), id)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(toSubscriptionView(sub)).Write(w)
}

func (s *Server) decodeSubscription(w http.ResponseWriter, r *http.Request) (core.Subscription, bool) {
	var in SubscriptionInput
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.Subscription{}, false
	}
	sub, err := in.Subscription()
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return core.Subscription{}, false
	}
	return sub, true
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.decodeSubscription(w, r)
	if !ok {
		return
	}
	created, err := s.deps.Subscriptions.Create(r.Context(), sub)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", fmt.Sprintf("/api/subscriptions/%d", created.ID)).
		Data(toSubscriptionView(created)).
		Write(w)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	sub, ok := s.decodeSubscription(w, r)
	if !ok {
		return
	}
	sub.ID = id
	updated, err := s.deps.Subscriptions.Update(r.Context(), sub)
	if err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Data(toSubscriptionView(updated)).Write(w)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(r, err.Error()).Write(w)
		return
	}
	if err := s.deps.Subscriptions.Delete(r.Context(), id); err != nil {
		FromError(r, err).Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
