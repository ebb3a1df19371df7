// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and validating request data:
// query parameters, path ids and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lexia/internal/core"
)

const maxBodyBytes = 1 << 20

// DateRange holds optional from/to bounds parsed from a query string.
type DateRange struct {
	From core.Date
	To   core.Date
}

// ParseDateParam reads key as a date. A missing value yields the zero date;
// a malformed one is an error.
func ParseDateParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s=%q", core.ErrInvalidDate, key, v)
	}
	return d, nil
}

// ParseDateRange reads from and to. Both are optional.
func ParseDateRange(query url.Values) (DateRange, error) {
	from, err := ParseDateParam(query, "from")
	if err != nil {
		return DateRange{}, err
	}
	to, err := ParseDateParam(query, "to")
	if err != nil {
		return DateRange{}, err
	}
	if from.Valid() && to.Valid() && to.Before(from.Time) {
		return DateRange{}, fmt.Errorf("%w: to is before from", core.ErrInvalidDate)
	}
	return DateRange{From: from, To: to}, nil
}

// ParseRefDate reads key, defaulting to today when absent.
func ParseRefDate(query url.Values, key string, now time.Time) (core.Date, error) {
	d, err := ParseDateParam(query, key)
	if err != nil || d.Valid() {
		return d, err
	}
	return core.DateOf(now), nil
}

// ParseYear reads a four digit year, defaulting to now.
func ParseYear(query url.Values, now time.Time) (int, error) {
	v := strings.TrimSpace(query.Get("year"))
	if v == "" {
		return now.Year(), nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("%w: year=%q", core.ErrInvalidDate, v)
	}
	return y, nil
}

var errInvalidID = errors.New("invalid id")

// PathID reads the {id} path value.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// DecodeJSON reads a single JSON object from the body into v, rejecting
// unknown fields and trailing data.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// stringValue converts a decoded JSON scalar to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RecordInput is the body of POST and PUT /api/records. Amount accepts a
// number or a string such as "¥1,200".
type RecordInput struct {
	Category     string `json:"category"`
	AccountType  string `json:"accountType"`
	Date         string `json:"date"`
	Amount       any    `json:"amount"`
	Counterparty string `json:"counterparty"`
	ItemName     string `json:"itemName"`
	ItemID       *int64 `json:"itemId"`
	Note         string `json:"note"`
}

// Record converts the input, reporting the first invalid field.
func (in RecordInput) Record() (core.LedgerRecord, error) {
	cat, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.LedgerRecord{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.LedgerRecord{}, err
	}
	cents, err := core.ParseAmount(stringValue(in.Amount))
	if err != nil {
		return core.LedgerRecord{}, err
	}
	return core.LedgerRecord{
		Category:     cat,
		AccountType:  sanitizeInput(in.AccountType),
		Date:         date,
		Amount:       core.Money{Cents: cents},
		Counterparty: sanitizeInput(in.Counterparty),
		ItemName:     sanitizeInput(in.ItemName),
		ItemID:       in.ItemID,
		Note:         sanitizeInput(in.Note),
	}, nil
}

// BookingInput is the body of POST /api/reservations.
type BookingInput struct {
	PatientName string `json:"patientName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
}

func (in BookingInput) Booking() (core.Booking, error) {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Booking{}, err
	}
	return core.Booking{
		PatientName:     sanitizeInput(in.PatientName),
		Phone:           sanitizeInput(in.Phone),
		Email:           sanitizeInput(in.Email),
		AppointmentDate: date,
		AppointmentTime: sanitizeInput(in.Time),
		Notes:           sanitizeInput(in.Notes),
		Status:          core.BookingStatus(strings.ToLower(sanitizeInput(in.Status))),
	}, nil
}

// StatusInput is the body of PATCH /api/reservations/{id}/status.
type StatusInput struct {
	Status string `json:"status"`
}

// optionalDate parses s, treating blank input as no date.
func optionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// ItemInput is the body of POST /api/items.
type ItemInput struct {
	Name string `json:"name"`
}

// SubscriptionInput is the body of POST and PUT /api/subscriptions. Every
// defaults to monthly and startDate to today.
type SubscriptionInput struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	AccountType  string `json:"accountType"`
	Amount       any    `json:"amount"`
	Counterparty string `json:"counterparty"`
	ItemName     string `json:"itemName"`
	ItemID       *int64 `json:"itemId"`
	Note         string `json:"note"`
	Every        string `json:"every"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

func (in SubscriptionInput) Subscription() (core.Subscription, error) {
	cat, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.Subscription{}, err
	}
	cents, err := core.ParseAmount(stringValue(in.Amount))
	if err != nil {
		return core.Subscription{}, err
	}
	every, err := core.ParseFrequency(in.Every)
	if err != nil {
		return core.Subscription{}, err
	}
	start, err := optionalDate(in.StartDate)
	if err != nil {
		return core.Subscription{}, err
	}
	end, err := optionalDate(in.EndDate)
	if err != nil {
		return core.Subscription{}, err
	}
	return core.Subscription{
		Name:         sanitizeInput(in.Name),
		Category:     cat,
		AccountType:  sanitizeInput(in.AccountType),
		Amount:       core.Money{Cents: cents},
		Counterparty: sanitizeInput(in.Counterparty),
		ItemName:     sanitizeInput(in.ItemName),
		ItemID:       in.ItemID,
		Note:         sanitizeInput(in.Note),
		Every:        every,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// ProjectInput is the body of POST and PUT /api/projects. A missing unit
// price is zero.
type ProjectInput struct {
	Name      string `json:"name"`
	Client    string `json:"client"`
	Status    string `json:"status"`
	DueDate   string `json:"dueDate"`
	UnitPrice any    `json:"unitPrice"`
}

func (in ProjectInput) Project() (core.Project, error) {
	status, err := core.ParseProjectStatus(in.Status)
	if err != nil {
		return core.Project{}, err
	}
	due, err := optionalDate(in.DueDate)
	if err != nil {
		return core.Project{}, err
	}
	var cents int64
	if in.UnitPrice != nil {
		if cents, err = core.ParseAmount(stringValue(in.UnitPrice)); err != nil {
			return core.Project{}, err
		}
	}
	return core.Project{
		Name:      sanitizeInput(in.Name),
		Client:    sanitizeInput(in.Client),
		Status:    status,
		DueDate:   due,
		UnitPrice: core.Money{Cents: cents},
	}, nil
}

// MoveInput is the body of POST /api/projects/{id}/move.
type MoveInput struct {
	Direction string `json:"direction"`
}
