package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Fallbacks used when the backend omits the order's date or time.
const (
	DefaultOrderDate = "2023-01-01"
	DefaultOrderTime = "00:00"
)

type Order struct {
	ID            ID          `json:"Order Id"`
	TableNo       int         `json:"Table No"`
	CustomerID    string      `json:"Customer Id,omitempty"`
	Dishes        []OrderItem `json:"Dishes"`
	Amount        float64     `json:"Amount"`
	ServingStatus bool        `json:"Serving Status"`
	PaymentStatus bool        `json:"Payment Status"`
	Date          string      `json:"Date"`
	Time          string      `json:"Time"`
}

type OrderItem struct {
	DishID   ID  `json:"DishId"`
	Quantity int `json:"Quantity"`
}

// UnmarshalJSON also accepts the "Dish Id" spelling.
func (it *OrderItem) UnmarshalJSON(b []byte) error {
	type plain OrderItem
	aux := struct {
		*plain
		AltID ID `json:"Dish Id"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if it.DishID == "" {
		it.DishID = aux.AltID
	}
	return nil
}

// StatusPatch carries only the flag being changed.
type StatusPatch struct {
	Serving *bool `json:"Serving Status,omitempty"`
	Payment *bool `json:"Payment Status,omitempty"`
}

func ServingPatch(v bool) StatusPatch { return StatusPatch{Serving: &v} }
func PaymentPatch(v bool) StatusPatch { return StatusPatch{Payment: &v} }

func (p StatusPatch) Empty() bool { return p.Serving == nil && p.Payment == nil }

// Apply sets the patched flags on o.
func (p StatusPatch) Apply(o *Order) {
	if p.Serving != nil {
		o.ServingStatus = *p.Serving
	}
	if p.Payment != nil {
		o.PaymentStatus = *p.Payment
	}
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	if o.Dishes != nil {
		items := make([]OrderItem, len(o.Dishes))
		copy(items, o.Dishes)
		o.Dishes = items
	}
	return o
}

var placedAtLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04:05 PM",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"02-01-2006 15:04",
}

// PlacedAt parses the combined date and time strings as a calendar timestamp.
// ok is false when no known layout matches.
func (o Order) PlacedAt() (t time.Time, ok bool) {
	date := strings.TrimSpace(o.Date)
	if date == "" {
		date = DefaultOrderDate
	}
	clock := strings.TrimSpace(o.Time)
	if clock == "" {
		clock = DefaultOrderTime
	}
	if ts, err := time.Parse(time.RFC3339, date); err == nil {
		return ts, true
	}
	value := date + " " + clock
	for _, layout := range placedAtLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
