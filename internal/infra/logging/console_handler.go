package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

const (
	ansiCodeReset     = "\033[0m"
	ansiCodeRed       = "\033[31m"
	ansiCodeGreen     = "\033[32m"
	ansiCodeYellow    = "\033[33m"
	ansiCodeCyan      = "\033[36m"
	ansiCodeGray      = "\033[90m"
	ansiCodeUnderline = "\033[4m"
)

//nolint:gochecknoglobals
var ansiCodeMap = map[slog.Level]string{
	slog.LevelDebug: ansiCodeCyan,
	slog.LevelInfo:  ansiCodeGreen,
	slog.LevelWarn:  ansiCodeYellow,
	slog.LevelError: ansiCodeRed,
}

// ConsoleHandler implements slog.Handler with compact human-readable output.
// Colours are only emitted when Color is set.
type ConsoleHandler struct {
	// Output is the destination for log output
	Output io.Writer
	// Level is the minimum level for log records to be processed
	Level slog.Leveler
	// PkgLevels maps logger names to minimum log levels
	PkgLevels map[string]slog.Level
	// Color enables ANSI colour codes
	Color bool
	// Source appends the calling function and file position
	Source bool

	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	if !h.pkgEnabled(loggerName(attrs), r.Level) {
		return nil
	}

	var sb strings.Builder

	sb.WriteString(h.paint(ansiCodeGray, r.Time.Format("15:04:05.000000")))
	sb.WriteString(" " + h.paint(ansiCodeMap[r.Level], "["+r.Level.String()+"]"))
	sb.WriteString(" " + r.Message)

	var prefix string

	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	if len(attrs) > 0 {
		sb.WriteString(" " + h.paint(ansiCodeGray, "|"))
		h.renderAttrs(&sb, prefix, attrs)
	}

	if h.Source && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		fn := strings.Split(f.Function, string(os.PathSeparator))

		sb.WriteString("\n-> " + h.paint(ansiCodeGray, fn[len(fn)-1]+"()"))
		sb.WriteString(" in " + h.paint(ansiCodeUnderline, f.File+":"+strconv.Itoa(f.Line)))
	}

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}

	if _, err := fmt.Fprintln(h.Output, sb.String()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}

	return nil
}

// pkgEnabled applies PkgLevels, walking from the full logger name ("svc.regsvc.x")
// up to its parents and finally the "" catch-all. A matching entry replaces the
// handler level, so it can both raise and lower the minimum for that package.
func (h *ConsoleHandler) pkgEnabled(name string, level slog.Level) bool {
	parts := strings.Split(name, ".")

	for i := len(parts); i >= 0; i-- {
		minLevel, ok := h.PkgLevels[strings.Join(parts[:i], ".")]
		if ok {
			return level >= minLevel
		}
	}

	return level >= h.baseLevel()
}

func (h *ConsoleHandler) baseLevel() slog.Level {
	if h.Level == nil {
		return slog.LevelInfo
	}

	return h.Level.Level()
}

func loggerName(attrs []slog.Attr) string {
	for _, attr := range attrs {
		if attr.Key == "logger" {
			return attr.Value.String()
		}
	}

	return ""
}

func (h *ConsoleHandler) paint(code, s string) string {
	if !h.Color || code == "" {
		return s
	}

	return code + s + ansiCodeReset
}

func (h *ConsoleHandler) renderAttrs(sb *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			h.renderAttrs(sb, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		sb.WriteString(" " + prefix + attr.Key)
		sb.WriteString("=" + h.paint(ansiCodeGray, attr.Value.String()))
	}
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	c := h.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// WithGroup implements slog.Handler.WithGroup.
func (h *ConsoleHandler) WithGroup(name string) Handler {
	c := h.clone()
	c.groups = append(c.groups, name)

	return c
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		Output:    h.Output,
		Level:     h.Level,
		PkgLevels: h.PkgLevels,
		Color:     h.Color,
		Source:    h.Source,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
		mu:        h.mu,
	}
}

// Enabled implements slog.Handler.Enabled. It admits the lowest level any
// package filter allows; Handle then applies the per-package decision.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := h.baseLevel()

	for _, pkgLevel := range h.PkgLevels {
		minLevel = min(minLevel, pkgLevel)
	}

	return level >= minLevel
}
