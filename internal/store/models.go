package store

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	SettingWeekStart   = "week_start"   // "monday" or "sunday"
	SettingDefaultFlow = "default_flow" // light, medium or heavy
)
