package model

import "time"

// Team is the fixed set of teams a user picks at signup. The choice is
// permanent.
type Team string

const (
	TeamRed    Team = "RED"
	TeamBlue   Team = "BLUE"
	TeamYellow Team = "YELLOW"
)

// Teams lists every valid team.
func Teams() []Team {
	return []Team{TeamRed, TeamBlue, TeamYellow}
}

// ValidTeam reports whether s names a known team.
func ValidTeam(s string) bool {
	switch Team(s) {
	case TeamRed, TeamBlue, TeamYellow:
		return true
	}
	return false
}

// User represents a user in the database. Email is the primary lookup key.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	Team         Team
	DiscordID    string
	ConvertKitID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupForm is the parsed signup submission.
type SignupForm struct {
	FirstName string
	Team      string
}

// SignupErrors holds per-field validation errors for the signup form.
type SignupErrors struct {
	FirstName string
	Team      string
}

// Any reports whether at least one field failed validation.
func (e SignupErrors) Any() bool {
	return e.FirstName != "" || e.Team != ""
}
