package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// layouts accepted for instants coming from the backend. Values without a
// zone are stored as UTC by the backend and are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseInstant reads a backend timestamp into a UTC instant. An empty value
// yields the zero time.
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse instant %q: unsupported format", value)
}

func parseInstantField(raw *string, dst *time.Time) error {
	if raw == nil {
		*dst = time.Time{}
		return nil
	}
	t, err := ParseInstant(*raw)
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

// UnmarshalJSON accepts zone-less timestamps for the auction start time
func (i *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item
	aux := struct {
		*itemAlias
		AuctionStartTime *string `json:"auction_start_time"`
	}{itemAlias: (*itemAlias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseInstantField(aux.AuctionStartTime, &i.AuctionStartTime)
}

// UnmarshalJSON accepts zone-less bid timestamps
func (b *Bid) UnmarshalJSON(data []byte) error {
	type bidAlias Bid
	aux := struct {
		*bidAlias
		Timestamp *string `json:"timestamp"`
	}{bidAlias: (*bidAlias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseInstantField(aux.Timestamp, &b.Timestamp)
}
