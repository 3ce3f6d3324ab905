package models

import (
	"fmt"
	"time"
)

type TaskCategory string

const (
	CategoryResearch     TaskCategory = "research"
	CategoryPaperWriting TaskCategory = "paper_writing"
	CategoryMeeting      TaskCategory = "meeting"
	CategoryAdmin        TaskCategory = "admin"
	CategoryPrep         TaskCategory = "prep"
	CategoryOther        TaskCategory = "other"
)

var TaskCategories = []TaskCategory{CategoryResearch, CategoryPaperWriting, CategoryMeeting, CategoryAdmin, CategoryPrep, CategoryOther}

func ParseTaskCategory(s string) (TaskCategory, error) {
	c := TaskCategory(normalizeEnum(s))
	for _, known := range TaskCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid task category: %q", s)
}

// TaskPriority is ordered: higher values sort first.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[TaskPriority]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

func (p TaskPriority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	n := normalizeEnum(s)
	for p, name := range priorityNames {
		if name == n {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid task priority: %q", s)
}

type Task struct {
	ID            string       `json:"id" yaml:"id"`
	Title         string       `json:"title" yaml:"title"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty"`
	Category      TaskCategory `json:"category" yaml:"category"`
	Priority      TaskPriority `json:"priority" yaml:"priority"`
	Deadline      *time.Time   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	ReminderAt    *time.Time   `json:"reminder_at,omitempty" yaml:"reminder_at,omitempty"`
	Completed     bool         `json:"completed" yaml:"completed"`
	PostponeCount int          `json:"postpone_count" yaml:"postpone_count"`
	CreatedAt     time.Time    `json:"created_at" yaml:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}
