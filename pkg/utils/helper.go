package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseDate parses a YYYY-MM-DD string as a calendar date in UTC
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS
func ParseTimeOfDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layout := TimeOfDayLayout
	if len(value) == len("15:04") {
		layout = "15:04"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q, expected HH:MM[:SS]", value)
	}
	return t, nil
}

// DateOf truncates t to its calendar date in loc. The result is midnight UTC so it
// compares cleanly with values scanned from DATE columns.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsEmail reports whether the contact is routed through the email channel.
func IsEmail(contact string) bool {
	return strings.Contains(contact, "@")
}

// NormalizeContact trims the contact and lower-cases email addresses.
func NormalizeContact(contact string) string {
	contact = strings.TrimSpace(contact)
	if IsEmail(contact) {
		return strings.ToLower(contact)
	}
	return contact
}
