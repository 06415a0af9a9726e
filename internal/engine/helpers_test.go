package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/dshills/editcontext/internal/engine/buffer"
	"github.com/dshills/editcontext/internal/logging"
)

func utf16Len(s string) int {
	return buffer.Length(s)
}

func newTestLogger(w io.Writer) *log.Logger {
	return logging.NewWithWriter(w, "debug")
}
