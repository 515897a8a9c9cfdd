package game

import "fmt"

// History owns the canonical (original-language) record of resolved
// turns plus cached per-locale translated views of it. The canonical
// list is never translated in place; a view is valid only for the
// canonical list it was derived from, so any canonical mutation drops
// every cached view except the one being written through.
type History struct {
	canonical []HistoryItem
	views     map[string][]HistoryItem
}

func NewHistory() *History {
	return &History{views: make(map[string][]HistoryItem)}
}

// Len reports the number of resolved turns.
func (h *History) Len() int { return len(h.canonical) }

// Canonical returns the untranslated history, newest first. Callers
// must treat it as read-only; it is the context fed back into the
// generator so it must stay stable across locale changes.
func (h *History) Canonical() []HistoryItem { return h.canonical }

// View returns the cached translated history for a locale, if one is
// valid for the current canonical list.
func (h *History) View(locale string) ([]HistoryItem, bool) {
	v, ok := h.views[locale]
	return v, ok
}

// Append prepends a newly resolved turn to the canonical history and
// writes it through into the given locale's view, so the language on
// screen stays consistent without a translation round-trip. Views for
// every other locale are now stale and are dropped.
func (h *History) Append(item HistoryItem, locale string) {
	current := h.views[locale]
	h.canonical = append([]HistoryItem{item}, h.canonical...)
	h.views = map[string][]HistoryItem{
		locale: append([]HistoryItem{item}, current...),
	}
}

// ResolveCurveball records the curveball decision on the most recent
// turn, in the canonical list and mirrored into the given locale's
// view. Like Append, it is a canonical mutation: other views drop.
func (h *History) ResolveCurveball(choiceIndex int, metrics Metrics, locale string) {
	if len(h.canonical) == 0 {
		return
	}
	h.canonical[0].CurveballChoice = choiceIndex
	h.canonical[0].Metrics = metrics

	view, ok := h.views[locale]
	h.views = make(map[string][]HistoryItem)
	if ok && len(view) > 0 {
		view[0].CurveballChoice = choiceIndex
		view[0].Metrics = metrics
		h.views[locale] = view
	}
}

// StoreView materializes a translated view from a batch of translated
// turns, which must match the canonical list in length and order.
// Non-text fields (year, indices, metrics, curveball state) come from
// the canonical item.
func (h *History) StoreView(locale string, turns []TranslatedTurn) ([]HistoryItem, error) {
	if len(turns) != len(h.canonical) {
		return nil, fmt.Errorf("translated %d turns for %d canonical items", len(turns), len(h.canonical))
	}
	view := make([]HistoryItem, len(h.canonical))
	for i, item := range h.canonical {
		item.Scenarios = turns[i].Scenarios
		item.Outcome = turns[i].Outcome
		view[i] = item
	}
	h.views[locale] = view
	return view, nil
}

// PrevMetrics returns the comparison baseline for the item at position
// i in a newest-first list: the next-older item's metrics, or the
// session baseline for the oldest item.
func PrevMetrics(items []HistoryItem, i int, baseline Metrics) Metrics {
	if i+1 < len(items) {
		return items[i+1].Metrics
	}
	return baseline
}

// Reset clears the canonical history and every cached view.
func (h *History) Reset() {
	h.canonical = nil
	h.views = make(map[string][]HistoryItem)
}
