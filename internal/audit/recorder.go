// Package audit turns defect mutations into append-only DefectHistory
// rows. It is an explicit diff step: callers snapshot the loaded state,
// apply their changes, and ask for the resulting field transitions. No
// other component writes history rows.
package audit

import (
	"strconv"
	"time"

	"github.com/vkotelnikov/defect-tracking-api/internal/models"
)

// Marker values used for the synthetic lifecycle rows.
const (
	lifecycleField = "Defect"
	markerCreated  = "Created"
	markerExists   = "Exists"
	markerDeleted  = "Deleted"

	// NoneValue is the stringified form of an unassigned responsible.
	NoneValue = "None"
)

const timeLayout = time.RFC3339

// Change describes one field transition on a defect.
type Change struct {
	Field string
	Old   string
	New   string
}

// Snapshot holds the stringified tracked-field values of a defect at the
// moment it was loaded.
type Snapshot map[string]string

type trackedField struct {
	name string
	// initial fields get a row on creation (old value empty)
	initial bool
	read    func(d *models.Defect) string
}

// trackedFields fixes the enumeration order of diff rows: defect scalars
// first, then the owned info payload, then the update timestamp. The
// primary key and InfoID are not tracked.
var trackedFields = []trackedField{
	{name: "ProjectId", initial: true, read: func(d *models.Defect) string {
		return strconv.FormatUint(d.ProjectID, 10)
	}},
	{name: "StatusId", initial: true, read: func(d *models.Defect) string {
		return strconv.FormatUint(d.StatusID, 10)
	}},
	{name: "ResponsibleId", initial: true, read: func(d *models.Defect) string {
		if d.ResponsibleID == nil {
			return NoneValue
		}
		return strconv.FormatUint(*d.ResponsibleID, 10)
	}},
	{name: "CreatedById", initial: true, read: func(d *models.Defect) string {
		return strconv.FormatUint(d.CreatedByID, 10)
	}},
	{name: "DefectName", read: func(d *models.Defect) string {
		return d.Info.DefectName
	}},
	{name: "DefectDescription", read: func(d *models.Defect) string {
		return d.Info.DefectDescription
	}},
	{name: "Priority", read: func(d *models.Defect) string {
		return strconv.FormatInt(int64(d.Info.Priority), 10)
	}},
	{name: "DueDate", read: func(d *models.Defect) string {
		if d.Info.DueDate == nil {
			return NoneValue
		}
		return d.Info.DueDate.UTC().Format(timeLayout)
	}},
	{name: "UpdatedDate", read: func(d *models.Defect) string {
		return d.UpdatedDate.UTC().Format(timeLayout)
	}},
}

// TakeSnapshot captures the tracked fields of a loaded defect. The
// defect's Info must be populated.
func TakeSnapshot(d *models.Defect) Snapshot {
	snap := make(Snapshot, len(trackedFields))
	for _, f := range trackedFields {
		snap[f.name] = f.read(d)
	}
	return snap
}

// Diff compares a snapshot against the current state and returns one
// change per field whose string representation differs, in tracked-field
// order. Equal representations are skipped, which also guards against
// false positives from type coercion.
func Diff(before Snapshot, after *models.Defect) []Change {
	var changes []Change
	for _, f := range trackedFields {
		cur := f.read(after)
		if prev, ok := before[f.name]; ok && prev == cur {
			continue
		}
		changes = append(changes, Change{Field: f.name, Old: before[f.name], New: cur})
	}
	return changes
}

// CreationChanges returns the synthetic "Created" marker followed by one
// row per initial tracked field, each with an empty old value.
func CreationChanges(d *models.Defect) []Change {
	changes := []Change{{Field: lifecycleField, Old: "", New: markerCreated}}
	for _, f := range trackedFields {
		if !f.initial {
			continue
		}
		changes = append(changes, Change{Field: f.name, Old: "", New: f.read(d)})
	}
	return changes
}

// DeletionChange returns the synthetic "Deleted" marker row.
func DeletionChange() Change {
	return Change{Field: lifecycleField, Old: markerExists, New: markerDeleted}
}

// Rows materializes changes as history records. All rows of one commit
// share the same change date and acting user.
func Rows(defectID, actorID uint64, at time.Time, changes []Change) []models.DefectHistory {
	rows := make([]models.DefectHistory, len(changes))
	for i, c := range changes {
		rows[i] = models.DefectHistory{
			DefectID:   defectID,
			UserID:     actorID,
			FieldName:  c.Field,
			OldValue:   c.Old,
			NewValue:   c.New,
			ChangeDate: at,
		}
	}
	return rows
}
