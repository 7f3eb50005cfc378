package api

type habitInput struct {
	Title      *string `json:"title"`
	Type       *string `json:"type"`
	GoalPerDay *int    `json:"goalPerDay"`
	IsActive   *bool   `json:"isActive"`
}

type incrementInput struct {
	Delta *int `json:"delta"`
}

type doneInput struct {
	Done bool `json:"done"`
}

type moodInput struct {
	Emoji string `json:"emoji"`
	Note  string `json:"note"`
}

type reminderInput struct {
	Enabled         *bool `json:"enabled"`
	IntervalMinutes *int  `json:"intervalMinutes"`
}

type hydrationSettingsInput struct {
	GoalMl  *int `json:"goalMl"`
	DrinkMl *int `json:"drinkMl"`
}

type registerInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type switchInput struct {
	Email string `json:"email"`
}
