// Package resources tracks the tools and consumables attached to one
// execution attempt: what was picked, what was used, what goes back to stock
// and what came in ad hoc.
package resources

import (
	"errors"

	"github.com/oguzdev/plant-maintenance/internal/models"
)

// ExecutionKind distinguishes how a ledger is seeded and which capabilities
// it allows.
type ExecutionKind string

const (
	// KindCorrective executions are seeded from stock reservations and allow
	// ad-hoc additions.
	KindCorrective ExecutionKind = "corrective"
	// KindPreventive executions are seeded from the plan's fixed checklist;
	// ad-hoc additions are not allowed.
	KindPreventive ExecutionKind = "preventive"
)

// adHocCeiling caps the used quantity of ad-hoc lines, which have no
// reservation to clamp against.
const adHocCeiling = 9999

var (
	ErrDuplicateTool = errors.New("tool already on the resource list")
	ErrAdHocDenied   = errors.New("ad-hoc resources are not allowed on preventive executions")
)

// Ledger holds the resource confirmations of a single execution attempt.
// It is not safe for concurrent use; one ledger belongs to one submission.
type Ledger struct {
	kind  ExecutionKind
	lines []models.ResourceConfirmation
}

// NewFromReservations seeds a corrective-style ledger from the reservation
// collaborator. Only PICKED and PENDING reservations take part; each line
// starts fully used (picked = used = reserved quantity) so the operator only
// adjusts downward what actually went back.
func NewFromReservations(reservations []models.Reservation) *Ledger {
	l := &Ledger{kind: KindCorrective}
	for _, r := range reservations {
		if r.Status != models.ReservationPicked && r.Status != models.ReservationPending {
			continue
		}
		l.lines = append(l.lines, models.ResourceConfirmation{
			ReservationID:  r.ID,
			ToolID:         r.ToolID,
			ToolName:       r.ToolName,
			ItemType:       models.NormalizeItemType(r.ItemType),
			Unit:           r.Unit,
			PickedQuantity: r.Quantity,
			UsedQuantity:   r.Quantity,
		})
	}
	return l
}

// NewFromChecklist seeds a preventive-style ledger from the plan's required
// tools. Checklist lines carry no stock binding, so the tool id stays empty.
func NewFromChecklist(tools []models.RequiredTool) *Ledger {
	l := &Ledger{kind: KindPreventive}
	for _, t := range tools {
		qty := float64(t.Quantity)
		if qty <= 0 {
			qty = 1
		}
		l.lines = append(l.lines, models.ResourceConfirmation{
			ToolName:       t.Name,
			ItemType:       models.ItemUnknown,
			PickedQuantity: qty,
			UsedQuantity:   qty,
		})
	}
	return l
}

// Kind returns how the ledger was seeded.
func (l *Ledger) Kind() ExecutionKind { return l.kind }

// Lines returns a copy of the current confirmations.
func (l *Ledger) Lines() []models.ResourceConfirmation {
	out := make([]models.ResourceConfirmation, len(l.lines))
	copy(out, l.lines)
	return out
}

// AddAdHoc appends a tool that was not part of the original reservation or
// checklist. Duplicates by tool id are rejected, and preventive ledgers do not
// accept ad-hoc lines at all (their checklists are fixed).
func (l *Ledger) AddAdHoc(tool models.Tool) error {
	if l.kind == KindPreventive {
		return ErrAdHocDenied
	}
	for _, line := range l.lines {
		if line.ToolID != "" && line.ToolID == tool.ID {
			return ErrDuplicateTool
		}
	}
	l.lines = append(l.lines, models.ResourceConfirmation{
		ToolID:       tool.ID,
		ToolName:     tool.Name,
		ItemType:     models.NormalizeItemType(tool.ItemType),
		Unit:         tool.Unit,
		UsedQuantity: 1,
		IsAdHoc:      true,
	})
	return nil
}

// SetUsedQuantity updates the used quantity of the line at index i, silently
// clamping into the valid range: [0, picked] for reserved lines, [0, 9999]
// for ad-hoc lines. Clamping instead of erroring keeps the quantity stepper
// free of invalid intermediate states.
func (l *Ledger) SetUsedQuantity(i int, value float64) {
	if i < 0 || i >= len(l.lines) {
		return
	}
	line := &l.lines[i]
	max := line.PickedQuantity
	if line.IsAdHoc {
		max = adHocCeiling
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	line.UsedQuantity = value
}

// SetReturnedDamaged flags the line at index i as returned damaged. Only
// meaningful for tool-classified lines; consumables use quantity returns.
func (l *Ledger) SetReturnedDamaged(i int, damaged bool) {
	if i < 0 || i >= len(l.lines) {
		return
	}
	l.lines[i].ReturnedDamaged = damaged
}

// Apply replays operator edits onto a freshly seeded ledger. Submitted lines
// are matched to seeded lines by reservation id, tool id or tool name; used
// quantities go through the same clamping as interactive edits. Ad-hoc
// submissions never touch seeded lines: they go through AddAdHoc only, so a
// duplicate tool id is dropped instead of clobbering the reservation.
func (l *Ledger) Apply(submitted []models.ResourceConfirmation) {
	for _, sub := range submitted {
		var idx int
		if sub.IsAdHoc {
			if err := l.AddAdHoc(models.Tool{
				ID:       sub.ToolID,
				Name:     sub.ToolName,
				ItemType: sub.ItemType,
				Unit:     sub.Unit,
			}); err != nil {
				continue
			}
			idx = len(l.lines) - 1
		} else if idx = l.indexOf(sub); idx < 0 {
			continue
		}
		l.SetUsedQuantity(idx, sub.UsedQuantity)
		l.SetReturnedDamaged(idx, sub.ReturnedDamaged)
	}
}

func (l *Ledger) indexOf(sub models.ResourceConfirmation) int {
	for i, line := range l.lines {
		if line.IsAdHoc {
			continue
		}
		switch {
		case sub.ReservationID != "" && sub.ReservationID == line.ReservationID:
			return i
		case sub.ToolID != "" && sub.ToolID == line.ToolID:
			return i
		case line.ToolID == "" && line.ReservationID == "" && sub.ToolName == line.ToolName:
			return i
		}
	}
	return -1
}

// ToReturn is the quantity going back to stock for a consumable-classified
// line. Tool-classified lines have no quantity-return semantics and always
// report zero.
func ToReturn(line models.ResourceConfirmation) float64 {
	if !line.ItemType.IsConsumable() {
		return 0
	}
	return line.PickedQuantity - line.UsedQuantity
}

// Snapshots flattens the ledger into the audit form stored on the execution
// record. The picked quantity is dropped on purpose; it is derivable from the
// reservation.
func (l *Ledger) Snapshots() []models.ResourceSnapshot {
	out := make([]models.ResourceSnapshot, 0, len(l.lines))
	for _, line := range l.lines {
		out = append(out, models.ResourceSnapshot{
			ReservationID:   line.ReservationID,
			ToolID:          line.ToolID,
			ToolName:        line.ToolName,
			ItemType:        line.ItemType,
			UsedQuantity:    line.UsedQuantity,
			ReturnedDamaged: line.ReturnedDamaged,
			IsAdHoc:         line.IsAdHoc,
		})
	}
	return out
}
