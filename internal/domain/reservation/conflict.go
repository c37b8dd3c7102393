package reservation

import "github.com/google/uuid"

// Booked is the minimal view of an existing active reservation needed for
// conflict detection.
type Booked struct {
	ID   uuid.UUID
	Slot TimeSlot
}

// FindConflicts returns the existing reservations whose windows overlap the
// candidate. excludeID skips one reservation so a modify never conflicts with
// itself; pass uuid.Nil to consider all.
func FindConflicts(existing []Booked, candidate TimeSlot, excludeID uuid.UUID) []Booked {
	var conflicts []Booked
	for _, b := range existing {
		if excludeID != uuid.Nil && b.ID == excludeID {
			continue
		}
		if candidate.Overlaps(b.Slot) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
