package core

import (
	"fmt"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
)

// MissingTypeError blocks an assignment run while units remain
// unclassified. It carries the blocking units so the caller can resolve
// them; no state is mutated when it is returned.
type MissingTypeError struct {
	Units []*model.Unit
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("%d unit(s) missing a type classification", len(e.Units))
}
