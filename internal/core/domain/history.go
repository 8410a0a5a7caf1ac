package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntryType tells what kind of balance movement a history entry shows.
type HistoryEntryType string

const (
	HistoryRecharge HistoryEntryType = "recharge"
	HistorySent     HistoryEntryType = "sent"
	HistoryReceived HistoryEntryType = "received"
)

// HistoryEntry is a read-time projection of a Recharge or a Transfer. It is
// never stored.
type HistoryEntry struct {
	Type         HistoryEntryType
	Amount       decimal.Decimal
	Provider     string        // recharge only
	ExternalRef  *string       // recharge only
	Counterparty *Counterparty // sent and received only
	OccurredAt   time.Time
}

// BuildHistory merges recharges, sent and received transfers into one
// sequence ordered by timestamp, newest first. Entries with equal timestamps
// keep the recharge, sent, received order. The result is never nil.
func BuildHistory(recharges []Recharge, sent, received []TransferWithParty) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(recharges)+len(sent)+len(received))

	for _, r := range recharges {
		entries = append(entries, HistoryEntry{
			Type:        HistoryRecharge,
			Amount:      r.Amount,
			Provider:    r.Provider,
			ExternalRef: r.ExternalRef,
			OccurredAt:  r.CreatedAt,
		})
	}
	for _, t := range sent {
		party := t.Party
		entries = append(entries, HistoryEntry{
			Type:         HistorySent,
			Amount:       t.Amount,
			Counterparty: &party,
			OccurredAt:   t.CreatedAt,
		})
	}
	for _, t := range received {
		party := t.Party
		entries = append(entries, HistoryEntry{
			Type:         HistoryReceived,
			Amount:       t.Amount,
			Counterparty: &party,
			OccurredAt:   t.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
	return entries
}
