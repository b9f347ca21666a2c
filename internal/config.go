package internal

import (
	"strings"
	"time"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	UploadDir         string        `env:"UPLOAD_DIR"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	DebugPort         int           `env:"DEBUG_PORT,default=8090"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	SearchLimit       int           `env:"SEARCH_LIMIT,default=50"`
	CensoredWords     string        `env:"CENSORED_WORDS"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	Moderators        string        `env:"MODERATORS"`
}

// Censored splits the comma-separated word list, empty entries removed.
func (c Config) Censored() []string {
	return splitList(c.CensoredWords)
}

// ModeratorNames lists the accounts granted the moderator role at
// registration.
func (c Config) ModeratorNames() []string {
	return splitList(c.Moderators)
}

// Replacement returns the censor mask character.
func (c Config) Replacement() rune {
	for _, r := range c.CharReplacement {
		return r
	}
	return '*'
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if word := strings.TrimSpace(part); word != "" {
			out = append(out, word)
		}
	}
	return out
}
