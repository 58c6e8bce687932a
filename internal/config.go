package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL          string        `env:"API_BASE_URL,default=/api"`
	LogLevel            string        `env:"LOG_LEVEL,default=INFO"`
	TypingTTL           time.Duration `env:"TYPING_TTL,default=3s"`
	TypingSweepInterval time.Duration `env:"TYPING_SWEEP_INTERVAL,default=500ms"`
	MaxMessageLength    int           `env:"MAX_MESSAGE_LENGTH,default=1000"`
	CensoredWords       string        `env:"CENSORED_WORDS"`
	CharReplacement     string        `env:"CHARACTER_REPLACEMENT,default=*"`
	HeartbeatInterval   time.Duration `env:"HEARTBEAT_INTERVAL,default=5s"`
	LimitMessages       *int          `env:"LIMIT_MESSAGES"`
}

// Words splits the CENSORED_WORDS list. An empty variable disables the
// moderator entirely.
func (c Config) Words() []string {
	if strings.TrimSpace(c.CensoredWords) == "" {
		return nil
	}
	parts := strings.Split(c.CensoredWords, ",")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if word := strings.TrimSpace(part); word != "" {
			words = append(words, word)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
