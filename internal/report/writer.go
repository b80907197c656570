package report

import (
	"github.com/migramap/migramap/internal/model"
)

// Writer outputs a migration plan in some format. Implementations sort
// the records themselves, so callers hand over records in any order.
type Writer interface {
	// Write outputs all records to the configured destination.
	Write(records []*model.PageRecord) error
}
