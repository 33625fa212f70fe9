package excel

import "fmt"

// Aggregator extracts several sheets and groups their rows as one domain, so
// a key found on two sheets ends up in one group.
type Aggregator struct {
	extractor *Extractor
	grouper   *Grouper
}

// NewAggregator creates an Aggregator from its two stages.
func NewAggregator(extractor *Extractor, grouper *Grouper) *Aggregator {
	if extractor == nil {
		extractor = NewExtractor(nil, true)
	}
	if grouper == nil {
		grouper = NewGrouper(nil, false)
	}
	return &Aggregator{extractor: extractor, grouper: grouper}
}

// Aggregate extracts sheets in order with default settings and groups them by key.
func Aggregate(sheets []Sheet, key KeyFunc) ([]RowGroup, GroupStats, error) {
	return NewAggregator(nil, nil).Aggregate(sheets, key)
}

// Aggregate extracts every sheet in order and groups the union of their rows.
func (a *Aggregator) Aggregate(sheets []Sheet, key KeyFunc) ([]RowGroup, GroupStats, error) {
	perSheet := make([]RowGroup, 0, len(sheets))
	for _, s := range sheets {
		g, err := a.extractor.Extract(s)
		if err != nil {
			return nil, GroupStats{}, err
		}
		perSheet = append(perSheet, g)
	}

	groups, stats, err := a.grouper.GroupGroups(perSheet, key)
	if err != nil {
		return nil, stats, fmt.Errorf("group %d sheets: %w", len(sheets), err)
	}
	return groups, stats, nil
}
