// README: Bulk-search planning. A slot set expands into the cartesian
// product of origin airports, destination airports, and candidate dates;
// the task cap trims from the back so the earliest dates and primary
// airports always survive.
package search

import (
	"farelink/internal/trip"
)

// Task is one supplier probe within a search round.
type Task struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
}

// Return-date offsets tried when a round trip has flexible departure
// dates and no explicit return date.
var flexibleReturnOffsets = []int{7, 10, 14}

// Plan expands a search-ready slot set into at most maxTasks tasks.
// Date combinations are ordered earliest-first and airports in table
// preference order, so truncation drops the least useful probes.
func Plan(slots *trip.SlotSet, maxTasks int) ([]Task, error) {
	if err := slots.Validate(); err != nil {
		return nil, err
	}

	var tasks []Task
	for _, combo := range dateCombos(slots) {
		for _, origin := range slots.Origin.Codes {
			for _, destination := range slots.Destination.Codes {
				tasks = append(tasks, Task{
					Origin:        origin,
					Destination:   destination,
					DepartureDate: combo.depart,
					ReturnDate:    combo.ret,
				})
			}
		}
	}
	if maxTasks > 0 && len(tasks) > maxTasks {
		tasks = tasks[:maxTasks]
	}
	return tasks, nil
}

type dateCombo struct {
	depart string
	ret    string
}

func dateCombos(slots *trip.SlotSet) []dateCombo {
	const iso = "2006-01-02"
	var combos []dateCombo
	for _, depart := range slots.Departure.Dates {
		switch {
		case slots.TripType != trip.TripRoundTrip:
			combos = append(combos, dateCombo{depart: depart.Format(iso)})
		case slots.Return != nil && len(slots.Return.Dates) > 0:
			for _, ret := range slots.Return.Dates {
				if ret.Before(depart) {
					continue
				}
				combos = append(combos, dateCombo{depart: depart.Format(iso), ret: ret.Format(iso)})
			}
		default:
			// flexible round trip: try a spread of stay lengths
			for _, offset := range flexibleReturnOffsets {
				ret := depart.AddDate(0, 0, offset)
				combos = append(combos, dateCombo{depart: depart.Format(iso), ret: ret.Format(iso)})
			}
		}
	}
	return combos
}
