package dashboard

import (
	"dayboard/internal/domain/dashboard"
)

// Input selects the calendar month.
type Input struct {
	Month  string `query:"month" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Calendar month as YYYY-MM, current month when empty"`
	Offset int    `query:"offset" minimum:"-1200" maximum:"1200" doc:"Months to move the calendar from month, e.g. -1 for the previous one"`
}

// Output is the dashboard for the signed-in user.
type Output struct {
	Body dashboard.Board
}
