package models

// Swipe decisions
const (
	DecisionLike = "like"
	DecisionPass = "pass"
)
