package labels

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"labelscope/models"
)

// exampleLocks serializes check-then-write sequences per example. The
// admissibility check is a read followed by a write, so without the lock two
// concurrent callers could both pass the check and both persist conflicting
// annotations (two overlapping spans, two exclusive categories). An
// in-process advisory lock is sufficient because the server runs as a
// single instance in front of its database.
var exampleLocks = struct {
	mu sync.Mutex
	m  map[uint]*sync.Mutex
}{m: make(map[uint]*sync.Mutex)}

func lockExample(exampleID uint) *sync.Mutex {
	exampleLocks.mu.Lock()
	defer exampleLocks.mu.Unlock()
	lock, ok := exampleLocks.m[exampleID]
	if !ok {
		lock = &sync.Mutex{}
		exampleLocks.m[exampleID] = lock
	}
	return lock
}

// CreateAnnotation runs the admissibility check and the insert as one unit
// under the example's advisory lock, closing the check-then-act race: of two
// concurrent conflicting candidates exactly one is persisted and the other
// is rejected with models.ErrNotAdmissible.
func CreateAnnotation(db *gorm.DB, project models.Project, label models.Label) error {
	lock := lockExample(label.GetExampleID())
	lock.Lock()
	defer lock.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		admissible, err := CanAnnotate(tx, project, label)
		if err != nil {
			return err
		}
		if !admissible {
			return models.ErrNotAdmissible
		}
		return tx.Create(label).Error
	})
}

// IsRejection reports whether an error from CreateAnnotation is a normal
// admissibility rejection rather than a failure.
func IsRejection(err error) bool {
	return errors.Is(err, models.ErrNotAdmissible)
}
