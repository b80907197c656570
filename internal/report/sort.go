package report

import (
	"cmp"
	"slices"

	"github.com/migramap/migramap/internal/model"
)

// Sort orders records for export: shallower hierarchies first, then
// lexicographically by hierarchy segments, then by URL. The key uses the
// processed display hierarchy, so breadcrumb-derived and menu-derived
// pages interleave correctly. Sorting is stable and idempotent.
func Sort(records []*model.PageRecord, rootLabel string) {
	slices.SortStableFunc(records, func(a, b *model.PageRecord) int {
		ha := model.DisplayHierarchy(rootLabel, a.EffectiveHierarchy(rootLabel))
		hb := model.DisplayHierarchy(rootLabel, b.EffectiveHierarchy(rootLabel))
		if c := cmp.Compare(len(ha), len(hb)); c != 0 {
			return c
		}
		if c := slices.Compare(ha, hb); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})
}
