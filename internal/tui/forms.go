package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type HabitFormModel struct {
	Name      string
	Icon      string
	Frequency models.HabitFrequency
	Days      string
	Reminder  string
}

type GroceryFormModel struct {
	Name     string
	Quantity string
	Category string
}

type ConfirmFormModel struct {
	Prompt    string
	Confirmed bool
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	options := make([]huh.Option[models.HabitFrequency], len(models.HabitFrequencies))
	for i, f := range models.HabitFrequencies {
		options[i] = huh.NewOption(string(f), f)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(required("habit name")),
			huh.NewInput().
				Title("Icon").
				Value(&fm.Icon),
			huh.NewSelect[models.HabitFrequency]().
				Title("Frequency").
				Options(options...).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Days").
				Description("Weekdays for a custom habit, e.g. mon,wed,fri").
				Value(&fm.Days).
				Validate(func(s string) error {
					days, err := utils.ParseWeekdays(s)
					if err != nil {
						return err
					}
					if len(days) == 0 {
						return errors.New("pick at least one weekday")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Frequency != models.FrequencyCustom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder (HH:MM)").
				Value(&fm.Reminder).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(s) {
						return errors.New("use HH:MM, e.g. 07:30")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newGroceryForm(fm *GroceryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Item").
				Value(&fm.Name).
				Validate(required("item name")),
			huh.NewInput().
				Title("Quantity").
				Description("Optional, e.g. 2 kg").
				Value(&fm.Quantity),
			huh.NewInput().
				Title("Category").
				Description("Aisle or section; blank for General").
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

func newConfirmForm(fm *ConfirmFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Prompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
