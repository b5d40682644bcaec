package config

import (
	"os"
	"strconv"
)

// Settings carries the behavior switches read once at startup.
type Settings struct {
	// ReplyReopens controls what a reply does to an inquiry that sits in
	// a sink status (closed/interested/not_interested). True (the
	// default) forces the status back to replied; false rejects the
	// reply instead.
	ReplyReopens bool
}

func LoadSettings() Settings {
	s := Settings{ReplyReopens: true}
	if v := os.Getenv("INQUIRY_REPLY_REOPEN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.ReplyReopens = b
		}
	}
	return s
}
