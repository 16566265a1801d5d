// Package repo implements the data persistence layer for contact submissions,
// backed by GORM. This file provides a small aggregate query used for
// conditional responses (ETag generation) on the admin listing endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
)

// ContactStats returns aggregate metadata for the contacts table: the total
// number of rows and the most recent SubmittedAt among them. When the table
// is empty, count is 0 and latest is nil.
//
// Two lightweight queries instead of MAX() keep SQLite from degrading the
// timestamp to TEXT.
func ContactStats(ctx context.Context, db *gorm.DB) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Contact{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		SubmittedAt time.Time
	}
	if err = q.Select("submitted_at").Order("submitted_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.SubmittedAt, nil
}
