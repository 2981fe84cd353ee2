package utils

import (
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// DisplayName returns the name a user shows in chats: first and last name,
// falling back to the username.
func DisplayName(u *gotgbot.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
