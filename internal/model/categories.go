package model

// CategoryOther marks a free-form category chosen by the user.
const CategoryOther = "Other"

// PredefinedCategories is offered when adding an expense.
// Any other string is accepted as a custom category.
var PredefinedCategories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Health",
	"Education",
	CategoryOther,
}
