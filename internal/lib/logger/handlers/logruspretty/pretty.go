package logruspretty

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	colorRed    = 31
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
)

// PrettyHandler is a logrus formatter for local development: short timestamp,
// colored level, fields as sorted key=value pairs.
type PrettyHandler struct {
	out io.Writer
}

func NewPrettyHandler(out io.Writer) *PrettyHandler {
	return &PrettyHandler{out: out}
}

func (h *PrettyHandler) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	level := strings.ToUpper(entry.Level.String())
	fmt.Fprintf(&buf, "[%s] \x1b[%dm%s\x1b[0m: %s",
		entry.Time.Format("15:04:05.000"), levelColor(entry.Level), level, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " \x1b[%dm%s\x1b[0m=%v", colorGray, k, entry.Data[k])
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func levelColor(level logrus.Level) int {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	case logrus.WarnLevel:
		return colorYellow
	default:
		return colorBlue
	}
}
