package models

// Role defines the user role type
type Role string

// Roles recognized by the system
const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// dayNames maps meeting day numbers (0-6, Monday first) to display names.
var dayNames = [...]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DayName returns the display name of a meeting day (0 = Monday).
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return "Unknown"
	}
	return dayNames[day]
}
