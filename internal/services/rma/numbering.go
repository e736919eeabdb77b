package rma

import (
	"fmt"
	"time"

	"github.com/asseto/trackgo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FormatRMANumber renders the human-readable identifier RMA-YYYYMM-NNNN
func FormatRMANumber(period string, seq int64) string {
	return fmt.Sprintf("RMA-%s-%04d", period, seq)
}

// nextRMANumber reserves the next number for the month of creation. The
// counter row is bumped with a single INSERT .. ON CONFLICT .. RETURNING
// so concurrent creates cannot read the same value.
func nextRMANumber(db *gorm.DB, now time.Time) (string, error) {
	period := now.Format("200601")

	seq := models.RMASequence{Period: period, Counter: 1}
	err := db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "period"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"counter": gorm.Expr("rma_sequences.counter + 1"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "counter"}}},
	).Create(&seq).Error
	if err != nil {
		return "", fmt.Errorf("failed to reserve RMA number: %w", err)
	}

	return FormatRMANumber(period, seq.Counter), nil
}
