// Package constants provides shared constants for the advent calendar application
package constants

// IsValidDay checks if a day number can ever be unlocked by a day-of-month
func IsValidDay(day int) bool {
	return day >= FirstDay && day <= LastDay
}
