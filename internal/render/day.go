package render

import (
	"github.com/leetplan/plansync/internal/models"
)

// SessionView is one rendered session of a day
type SessionView struct {
	Name  string
	Title string
	Info  string
	Cards []*CardView
}

// DayView is the rendered plan of one day
type DayView struct {
	Day         int
	Date        models.Date
	Description string
	Statistics  models.PlanStatistics
	Sessions    []SessionView
}

var sessionHeadings = map[string][2]string{
	models.SessionMorning: {
		"🔴 Golden Hour - Tackle New & Difficult Problems",
		"⏰ 3 hours | 25-30 minutes per problem",
	},
	models.SessionAfternoon: {
		"🟡 Silver Hour - Practice & Variations",
		"⏰ 2-3 hours | Complete within 20 minutes per problem",
	},
	models.SessionEvening: {
		"🟢 Bronze Hour - Review & Feynman Technique",
		"⏰ 1-1.5 hours | Review based on Ebbinghaus forgetting curve | Whiteboard coding, explain your approach",
	},
}

// RenderDay renders a plan. Empty sessions are omitted. start may be zero
// when the start date is not known yet; the day then has no date.
func RenderDay(plan *models.DayPlan, start models.Date) *DayView {
	v := &DayView{
		Day:         plan.Day,
		Description: plan.Description(),
		Statistics:  plan.Statistics,
	}
	if !start.IsZero() {
		v.Date = DayDate(start, plan.Day)
	}

	for _, name := range models.SessionOrder {
		questions := plan.Sessions.ByName(name)
		if len(questions) == 0 {
			continue
		}
		heading := sessionHeadings[name]
		s := SessionView{Name: name, Title: heading[0], Info: heading[1]}
		for _, q := range questions {
			s.Cards = append(s.Cards, RenderCard(q))
		}
		v.Sessions = append(v.Sessions, s)
	}
	return v
}

// Cards returns every card of the day in display order
func (v *DayView) Cards() []*CardView {
	var cards []*CardView
	for _, s := range v.Sessions {
		cards = append(cards, s.Cards...)
	}
	return cards
}

// Completed reports whether the day's own counters say it is done
func (v *DayView) Completed() bool {
	return v.Statistics.DayCompleted()
}

// Clone returns a deep copy of the day view
func (v *DayView) Clone() *DayView {
	cp := *v
	cp.Sessions = make([]SessionView, len(v.Sessions))
	for i, s := range v.Sessions {
		cs := s
		cs.Cards = make([]*CardView, len(s.Cards))
		for j, c := range s.Cards {
			cs.Cards[j] = c.Clone()
		}
		cp.Sessions[i] = cs
	}
	return &cp
}
