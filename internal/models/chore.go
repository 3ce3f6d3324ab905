package models

import (
	"fmt"
	"strings"
	"time"
)

type ChoreRoom string

const (
	RoomKitchen    ChoreRoom = "kitchen"
	RoomWashroom   ChoreRoom = "washroom"
	RoomBedroom    ChoreRoom = "bedroom"
	RoomLivingRoom ChoreRoom = "living_room"
	RoomGeneral    ChoreRoom = "general"
)

var ChoreRooms = []ChoreRoom{RoomKitchen, RoomWashroom, RoomBedroom, RoomLivingRoom, RoomGeneral}

// ParseChoreRoom converts user input such as "Living Room" into a ChoreRoom.
func ParseChoreRoom(s string) (ChoreRoom, error) {
	r := ChoreRoom(normalizeEnum(s))
	for _, known := range ChoreRooms {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid room: %q", s)
}

// ChoreFrequency is the closed set of chore recurrence intervals.
type ChoreFrequency string

const (
	ChoreDaily      ChoreFrequency = "daily"
	ChoreEvery2Days ChoreFrequency = "every_2_days"
	ChoreWeekly     ChoreFrequency = "weekly"
	ChoreBiweekly   ChoreFrequency = "biweekly"
	ChoreMonthly    ChoreFrequency = "monthly"
)

var ChoreFrequencies = []ChoreFrequency{ChoreDaily, ChoreEvery2Days, ChoreWeekly, ChoreBiweekly, ChoreMonthly}

func ParseChoreFrequency(s string) (ChoreFrequency, error) {
	f := ChoreFrequency(normalizeEnum(s))
	for _, known := range ChoreFrequencies {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid chore frequency: %q", s)
}

// Chore is a household task repeated on a fixed interval.
type Chore struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Room         ChoreRoom      `json:"room" yaml:"room"`
	Frequency    ChoreFrequency `json:"frequency" yaml:"frequency"`
	ReminderHour int            `json:"reminder_hour" yaml:"reminder_hour"`
	LastDoneDate string         `json:"last_done_date,omitempty" yaml:"last_done_date,omitempty"` // YYYY-MM-DD format
	NextDueDate  string         `json:"next_due_date,omitempty" yaml:"next_due_date,omitempty"`   // YYYY-MM-DD format
	Active       bool           `json:"active" yaml:"active"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
}

// normalizeEnum lowercases s and turns spaces and dashes into underscores.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
