package domain

import (
	"errors"
	"strings"
)

const MaxRoomNameLen = 64

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
)

type RoomName string

// NormalizeRoomName trims and lower-cases a raw room identifier.
func NormalizeRoomName(raw string) (RoomName, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", ErrRoomNameEmpty
	}
	if len(name) > MaxRoomNameLen {
		return "", ErrRoomNameTooLong
	}
	return RoomName(name), nil
}

// Room is the immutable part of a room: who owns it and how to get in.
type Room struct {
	Name     RoomName
	Admin    string
	Password string
	Capacity int
}

// Question is an admin supplied task. Immutable once added.
type Question struct {
	Content string `json:"content"`
	Answer  string `json:"answer"`
}
