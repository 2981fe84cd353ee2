package models

import "time"

// Chat represents a Telegram chat (group, channel, or private) the bot has seen
type Chat struct {
	ID       int64     `bson:"_id" json:"chat_id"`
	ChatType string    `bson:"chat_type" json:"chat_type"`
	Title    string    `bson:"title" json:"title"`
	LastSeen time.Time `bson:"last_seen" json:"last_seen"`
}
