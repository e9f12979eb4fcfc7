package proto

import (
	"strings"
	"unicode/utf8"

	"sparkcalc/sparkos/kernel"
)

// LogLinePayload encodes one MsgLogLine: UTF-8 without the line terminator,
// cut on a rune boundary when longer than a message.
func LogLinePayload(line string) []byte {
	line = strings.TrimRight(line, "\r\n")
	return []byte(clipUTF8(line, kernel.MaxMessageBytes))
}

func clipUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
