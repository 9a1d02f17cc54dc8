// ABOUTME: Data migration between hydrate storage backends.
// ABOUTME: Copies the whole preference document from source to destination.

package storage

import (
	"fmt"
	"sort"
)

// MigrateSummary describes what a migration copied.
type MigrateSummary struct {
	Keys     []string
	Replaced int
}

// Count returns the number of migrated keys.
func (s *MigrateSummary) Count() int {
	return len(s.Keys)
}

// PlanMigration reports what MigrateData would copy without writing anything.
func PlanMigration(src, dst Repository) (*MigrateSummary, error) {
	srcValues, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	dstValues, err := dst.Load()
	if err != nil {
		return nil, fmt.Errorf("load destination: %w", err)
	}

	summary := &MigrateSummary{}
	for k, v := range srcValues {
		summary.Keys = append(summary.Keys, k)
		if old, ok := dstValues[k]; ok && old != v {
			summary.Replaced++
		}
	}
	sort.Strings(summary.Keys)
	return summary, nil
}

// MigrateData copies every preference from src to dst in one change set.
// Keys present only in dst are left alone.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary, err := PlanMigration(src, dst)
	if err != nil {
		return nil, err
	}

	values, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	if len(values) == 0 {
		return summary, nil
	}

	if err := dst.Apply(Changes{Set: values}); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}
	return summary, nil
}
