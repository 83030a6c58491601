package domain

import "time"

type UserID string
type ThreadID string
type FormID int64

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Goal is the farming goal declared in a land-profile form.
type Goal string

const (
	GoalProfit      Goal = "Profit"
	GoalClimateSafe Goal = "Climate-safe"
	GoalOrganic     Goal = "Organic"
	GoalExperiment  Goal = "Experiment"
)

type Timestamp = time.Time
