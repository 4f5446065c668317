package netex

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/netex-validator/pkg/model"
	"github.com/travigo/netex-validator/pkg/util"
	"golang.org/x/exp/slices"
)

var dayNames = map[string][]time.Weekday{
	"Monday":    {time.Monday},
	"Tuesday":   {time.Tuesday},
	"Wednesday": {time.Wednesday},
	"Thursday":  {time.Thursday},
	"Friday":    {time.Friday},
	"Saturday":  {time.Saturday},
	"Sunday":    {time.Sunday},
	"Weekdays":  {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	"Weekend":   {time.Saturday, time.Sunday},
	"Everyday":  {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
}

// Weekdays returns the days a day type runs on. A day type without properties runs every day.
func (d *DayType) Weekdays() map[time.Weekday]bool {
	days := map[time.Weekday]bool{}
	for _, property := range d.Properties {
		for _, name := range strings.Fields(property.DaysOfWeek) {
			for _, day := range dayNames[name] {
				days[day] = true
			}
		}
	}

	if len(days) == 0 {
		for _, day := range dayNames["Everyday"] {
			days[day] = true
		}
	}

	return days
}

// ActiveDates expands day types and operating days into concrete dates (YYYY-MM-DD)
func (i *Index) ActiveDates() map[string][]string {
	active := map[string]map[string]bool{}

	assignments := append([]*DayTypeAssignment(nil), i.DayTypeAssignments...)
	slices.SortStableFunc(assignments, func(a, b *DayTypeAssignment) int {
		return a.Order - b.Order
	})

	for _, assignment := range assignments {
		dayTypeID := assignment.DayTypeRef.Ref
		if dayTypeID == "" {
			continue
		}

		weekdays := dayNames["Everyday"]
		if dayType, exists := i.DayTypes[dayTypeID]; exists {
			weekdays = nil
			for day := range dayType.Weekdays() {
				weekdays = append(weekdays, day)
			}
		}

		dates := i.assignmentDates(assignment, weekdays)
		if active[dayTypeID] == nil {
			active[dayTypeID] = map[string]bool{}
		}
		for _, date := range dates {
			if assignment.Available() {
				active[dayTypeID][date] = true
			} else {
				delete(active[dayTypeID], date)
			}
		}
	}

	for id, operatingDay := range i.OperatingDays {
		date, err := model.ParseDate(operatingDay.CalendarDate)
		if err != nil {
			log.Debug().Str("file", i.FileName).Str("id", id).Err(err).Msg("Skipping operating day without calendar date")
			continue
		}
		active[id] = map[string]bool{model.FormatDate(date): true}
	}

	result := map[string][]string{}
	for id, dates := range active {
		result[id] = util.SortedStrings(mapKeys(dates))
	}

	return result
}

func (i *Index) assignmentDates(assignment *DayTypeAssignment, weekdays []time.Weekday) []string {
	if assignment.Date != "" {
		date, err := model.ParseDate(assignment.Date)
		if err != nil {
			return nil
		}
		return []string{model.FormatDate(date)}
	}

	if assignment.OperatingDayRef.Ref != "" {
		operatingDay, exists := i.OperatingDays[assignment.OperatingDayRef.Ref]
		if !exists {
			return nil
		}
		date, err := model.ParseDate(operatingDay.CalendarDate)
		if err != nil {
			return nil
		}
		return []string{model.FormatDate(date)}
	}

	if assignment.OperatingPeriodRef.Ref != "" {
		period, exists := i.OperatingPeriods[assignment.OperatingPeriodRef.Ref]
		if !exists {
			return nil
		}
		from, err := model.ParseDate(period.FromDate)
		if err != nil {
			return nil
		}
		to, err := model.ParseDate(period.ToDate)
		if err != nil {
			return nil
		}

		var dates []string
		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			if slices.Contains(weekdays, date.Weekday()) {
				dates = append(dates, model.FormatDate(date))
			}
		}
		return dates
	}

	return nil
}
