package model

import "fmt"

// ViewKind selects which task subset the dashboard polls.
type ViewKind int

const (
	ViewAll ViewKind = iota
	ViewMine
	ViewOverdue
	ViewDueSoon
)

// ViewFilter is the scope of a task fetch. Comparable, so a filter value
// captured at request time can be checked against the current one when
// the response lands.
type ViewFilter struct {
	Kind ViewKind
	Days int // due-soon threshold; meaningful only for ViewDueSoon
}

func AllTasks() ViewFilter     { return ViewFilter{Kind: ViewAll} }
func MyTasks() ViewFilter      { return ViewFilter{Kind: ViewMine} }
func OverdueTasks() ViewFilter { return ViewFilter{Kind: ViewOverdue} }
func DueSoon(days int) ViewFilter {
	return ViewFilter{Kind: ViewDueSoon, Days: days}
}

func (f ViewFilter) String() string {
	switch f.Kind {
	case ViewMine:
		return "My Tasks"
	case ViewOverdue:
		return "Overdue"
	case ViewDueSoon:
		return fmt.Sprintf("Due ≤%dd", f.Days)
	default:
		return "All Tasks"
	}
}
