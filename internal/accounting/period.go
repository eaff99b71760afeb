// Package accounting derives the cumulative cost views of the cost
// certificate from persisted acts. All functions are pure: the same act set
// always produces the same split, whether computed at generation time or
// re-derived later.
package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActEntry is one act of the estimate reduced to what the split needs.
type ActEntry struct {
	ActID   uuid.UUID
	ActDate time.Time
	// Seq is the creation-order tie-break for equal act dates.
	Seq   int64
	Lines []LineAmount
}

// LineAmount is the amount one act attributes to one work line.
type LineAmount struct {
	LineItemID uuid.UUID
	Amount     decimal.Decimal
}

// Split is the three cost views of one work line in one act. The invariant
// YTD = PriorPeriods + Current holds exactly.
type Split struct {
	Current      decimal.Decimal
	YTD          decimal.Decimal
	PriorPeriods decimal.Decimal
}

// SplitForAct computes per-work-line splits for the target act from all acts
// of the estimate in the same calendar year. Entries outside the target's
// calendar year are ignored, so callers may pass the full act history.
func SplitForAct(targetID uuid.UUID, entries []ActEntry) (map[uuid.UUID]Split, error) {
	target, ok := findEntry(targetID, entries)
	if !ok {
		return nil, fmt.Errorf("act %s not present in act set", targetID)
	}
	year := target.ActDate.Year()

	ordered := make([]ActEntry, 0, len(entries))
	for _, e := range entries {
		if e.ActDate.Year() == year {
			ordered = append(ordered, e)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ActDate.Equal(ordered[j].ActDate) {
			return ordered[i].ActDate.Before(ordered[j].ActDate)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	accumulated := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range ordered {
		for _, line := range e.Lines {
			accumulated[line.LineItemID] = accumulated[line.LineItemID].Add(line.Amount)
		}
		if e.ActID == targetID {
			break
		}
	}

	result := make(map[uuid.UUID]Split, len(target.Lines))
	for _, line := range target.Lines {
		ytd := accumulated[line.LineItemID]
		result[line.LineItemID] = Split{
			Current:      line.Amount,
			YTD:          ytd,
			PriorPeriods: ytd.Sub(line.Amount),
		}
	}
	return result, nil
}

// SinceProjectStart sums the amounts attributed to each work line by all acts
// strictly before the target act, across all years. The cost certificate's
// first monetary column reports this value.
func SinceProjectStart(targetID uuid.UUID, entries []ActEntry) (map[uuid.UUID]decimal.Decimal, error) {
	if _, ok := findEntry(targetID, entries); !ok {
		return nil, fmt.Errorf("act %s not present in act set", targetID)
	}

	ordered := make([]ActEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ActDate.Equal(ordered[j].ActDate) {
			return ordered[i].ActDate.Before(ordered[j].ActDate)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, e := range ordered {
		if e.ActID == targetID {
			break
		}
		for _, line := range e.Lines {
			totals[line.LineItemID] = totals[line.LineItemID].Add(line.Amount)
		}
	}
	return totals, nil
}

func findEntry(id uuid.UUID, entries []ActEntry) (ActEntry, bool) {
	for _, e := range entries {
		if e.ActID == id {
			return e, true
		}
	}
	return ActEntry{}, false
}
