package models

// HydrationStatus summarises today's water intake.
type HydrationStatus struct {
	Date    string `json:"date"`
	TotalMl int    `json:"totalMl"`
	GoalMl  int    `json:"goalMl"`
	DrinkMl int    `json:"drinkMl"`
	Percent int    `json:"percent"`
}
