package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/nanohana/tsuzuri/pkg/entity"
)

// The visibility gate is deliberately pure: no clock reads, no logging, no I/O.
// Callers pass the evaluation instant so the same decision is reproducible in
// tests and list queries. All comparisons happen in UTC; stored timestamps
// without zone information are taken as UTC.

// IsViewable reports whether the diary's visibility window still contains now.
// The window end is inclusive.
func IsViewable(d *entity.Diary, now time.Time) bool {
	return !now.UTC().After(d.ViewEndTime())
}

// CanView decides read access: the owner always may view, anyone else only
// inside the visibility window.
func CanView(d *entity.Diary, viewerID uuid.UUID, now time.Time) bool {
	if d.UserID == viewerID {
		return true
	}
	return IsViewable(d, now)
}

// ShouldCountView reports whether a read by viewerID adds to the view counter.
// Owner reads never count. The increment itself is a separate repository call,
// issued once per read by the diary service.
func ShouldCountView(d *entity.Diary, viewerID uuid.UUID) bool {
	return d.UserID != viewerID
}
