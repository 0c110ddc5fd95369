package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/ngxsys/internal/core/domain"
	"go.trai.ch/ngxsys/internal/ui/output"
	"go.trai.ch/ngxsys/internal/ui/style"
)

// PrettyHandler renders records as single coloured lines for a terminal.
// A stage attribute becomes a "[stage]" prefix; other attributes follow the
// message as key=value pairs.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	stage  string
	attrs  []string
	prefix string // dotted group path, ends in "." when set
}

// NewPrettyHandler creates a PrettyHandler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as one line.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	stage := h.stage
	parts := append([]string(nil), h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		if s, ok := stageOf(h.prefix, attr); ok {
			stage = s
			return true
		}
		parts = appendAttr(parts, h.prefix, attr)
		return true
	})

	var b strings.Builder
	if icon != "" {
		b.WriteString(icon + " ")
	}
	if stage != "" {
		b.WriteString("[" + stage + "] ")
	}
	b.WriteString(r.Message)
	for _, p := range parts {
		b.WriteString(" " + p)
	}

	styled := h.out.String(b.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		if s, ok := stageOf(h.prefix, attr); ok {
			next.stage = s
			continue
		}
		next.attrs = appendAttr(next.attrs, h.prefix, attr)
	}
	return next
}

// WithGroup returns a handler nesting later attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		stage:  h.stage,
		attrs:  append([]string(nil), h.attrs...),
		prefix: h.prefix,
	}
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// stageOf reports whether attr is the top-level pipeline stage attribute.
func stageOf(prefix string, attr slog.Attr) (string, bool) {
	if prefix != "" || attr.Key != domain.SpanStageKey {
		return "", false
	}
	return attr.Value.Resolve().String(), true
}

// appendAttr flattens attr into key=value pairs. Groups become dotted keys and
// values containing whitespace are quoted.
func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	value := attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		for _, a := range value.Group() {
			parts = appendAttr(parts, inner, a)
		}
		return parts
	}

	text := value.String()
	if strings.ContainsAny(text, " \t\n\"") {
		text = strconv.Quote(text)
	}
	return append(parts, prefix+attr.Key+"="+text)
}
