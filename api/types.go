package api

import (
	"github.com/wisdomfoli/clockin-status-board/timeclock"
)

// LoginUser is the user object returned by the login endpoint. The bearer
// token travels inside it as "access".
type LoginUser struct {
	ID        timeclock.UserID `json:"id"`
	Username  string           `json:"username"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Access    string           `json:"access"`
}

type loginResponse struct {
	User LoginUser `json:"user"`
}

// DirectoryUser is one entry of the user directory.
type DirectoryUser struct {
	ID         timeclock.UserID `json:"id"`
	Username   string           `json:"username"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Email      string           `json:"email"`
	IsActive   bool             `json:"is_active"`
	IsStaff    bool             `json:"is_staff"`
	DateJoined string           `json:"date_joined"`
}

// DisplayName returns "Last First", falling back to the username when the
// first name is blank.
func (u DirectoryUser) DisplayName() string {
	if u.FirstName == "" {
		return u.Username
	}
	return u.LastName + " " + u.FirstName
}

type todayClocksResponse struct {
	Results []timeclock.RecordRow `json:"results"`
}

// clockInResponse covers both the success and the conflict shapes: the
// server may answer 200 with success=false and the existing clock_in_time.
type clockInResponse struct {
	Success     *bool  `json:"success"`
	Message     string `json:"message"`
	ClockInTime string `json:"clock_in_time"`
}

type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}
