package reconcile

import (
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

// Paginate returns the 1-based page slice [(page-1)*size, page*size) and the
// total page count. Out-of-range pages, page < 1 and size < 1 yield an empty
// page; nothing is clamped.
func Paginate(items []award.Award, page, size int) ([]award.Award, int) {
	if size < 1 {
		return []award.Award{}, 0
	}
	totalPages := (len(items) + size - 1) / size
	if page < 1 || page > totalPages {
		return []award.Award{}, totalPages
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end:end], totalPages
}

// List returns the full reconciled list: deduplicated when requested, then
// table-sorted when ts is non-nil.
func List(hits []award.Award, dedupe bool, ts *TableSort) []award.Award {
	list := hits
	if dedupe {
		list = Dedupe(list)
	}
	return Sort(list, ts)
}

// Reconcile deduplicates, sorts and paginates a raw hit window.
func Reconcile(hits []award.Award, dedupe bool, ts *TableSort, page, size int) result.Page {
	list := List(hits, dedupe, ts)
	items, totalPages := Paginate(list, page, size)
	return result.Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: len(list),
	}
}
