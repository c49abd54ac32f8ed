package log

import (
	"log"
	"strings"
)

// AllowDebug включает вывод сообщений с префиксом [DEBUG].
// Выставляется один раз при старте, до запуска горутин.
var AllowDebug = false

func Printf(format string, v ...any) {
	if suppressed(format) {
		return
	}
	log.Printf(format, v...)
}

func Fatalf(format string, v ...any) {
	if suppressed(format) {
		return
	}
	log.Fatalf(format, v...)
}

func suppressed(s string) bool {
	return !AllowDebug && strings.HasPrefix(s, "[DEBUG]")
}
