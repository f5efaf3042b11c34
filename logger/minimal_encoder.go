package logger

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colors a theme assigns to each part of a log line
type palette struct {
	fg     string
	time   string
	name   string
	ident  string // package paths, owners, group names
	number string
	marker string // [bracketed] markers in messages
	warn   string
	warnBg string
	err    string
	errBg  string
	file   string
}

var palettes = map[string]palette{
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;108m",
		name:   "\x1b[38;5;208m",
		ident:  "\x1b[38;5;109m",
		number: "\x1b[38;5;175m",
		marker: "\x1b[38;5;214m",
		warn:   "\x1b[38;5;214m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;88m",
		file:   "\x1b[38;5;142m",
	},
	// Everforest Dark: forest greens
	"everforest": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;107m",
		name:   "\x1b[38;5;65m",
		ident:  "\x1b[38;5;109m",
		number: "\x1b[38;5;108m",
		marker: "\x1b[38;5;208m",
		warn:   "\x1b[38;5;179m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;52m",
		file:   "\x1b[38;5;108m",
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output; unknown names are ignored
func SetTheme(theme string) {
	if _, ok := palettes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return palettes[currentTheme]
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// colorizeMessage colors [bracketed] markers, leaving the rest in the base color
func colorizeMessage(msg string) string {
	p := colors()
	var result strings.Builder
	lastIndex := 0

	for _, match := range bracketPattern.FindAllStringIndex(msg, -1) {
		if before := msg[lastIndex:match[0]]; before != "" {
			result.WriteString(p.fg + before + colorReset)
		}
		result.WriteString(p.marker + msg[match[0]:match[1]] + colorReset)
		lastIndex = match[1]
	}
	if rest := msg[lastIndex:]; rest != "" {
		result.WriteString(p.fg + rest + colorReset)
	}
	return result.String()
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  pipeline  Generated  example.com/demo  Tester1 (3 members)  4ms"
type minimalEncoder struct {
	zapcore.Encoder
	buf *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := buffer.NewPool().Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if label := levelColorString(ent.Level); label != "" {
		final.AppendString("  ")
		final.AppendString(label)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(p.name)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns a bold, colored label for levels other than INFO and DEBUG
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.InfoLevel, zapcore.DebugLevel:
		return ""
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.errBg + p.err + "ERROR" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens dotted logger names: pipeline.watch -> p.watch
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer)))
	case zapcore.Float32Type:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(field.Integer)))
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// knownFields are rendered positionally; every other field falls through as key=value
var knownFields = map[string]bool{
	FieldPackage:    true,
	FieldOwner:      true,
	FieldSuffix:     true,
	FieldMembers:    true,
	FieldFile:       true,
	FieldCount:      true,
	FieldDurationMS: true,
	FieldError:      true,
}

// extractFieldValues renders known fields in a fixed order followed by the rest.
// Input: {"package": "example.com/demo", "owner": "Tester1", "members": 3, "duration_ms": 4}
// Output: "example.com/demo  Tester1 (3 members)  4ms"
// No field is ever dropped.
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	byKey := make(map[string]string, len(fields))
	var rest []string
	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		if knownFields[field.Key] {
			byKey[field.Key] = val
			continue
		}
		rest = append(rest, p.fg+field.Key+"="+val+colorReset)
	}

	var values []string
	if v, ok := byKey[FieldPackage]; ok {
		values = append(values, p.ident+v+colorReset)
	}
	if v, ok := byKey[FieldOwner]; ok {
		owner := p.ident + v + colorReset
		if s, ok := byKey[FieldSuffix]; ok {
			owner += p.fg + "/" + s + colorReset
		}
		if n, ok := byKey[FieldMembers]; ok {
			owner += p.fg + " (" + p.number + n + colorReset + p.fg + " members)" + colorReset
		}
		values = append(values, owner)
	} else {
		if s, ok := byKey[FieldSuffix]; ok {
			rest = append(rest, p.fg+FieldSuffix+"="+s+colorReset)
		}
		if n, ok := byKey[FieldMembers]; ok {
			rest = append(rest, p.fg+FieldMembers+"="+n+colorReset)
		}
	}
	if v, ok := byKey[FieldFile]; ok {
		values = append(values, p.file+v+colorReset)
	}
	if v, ok := byKey[FieldCount]; ok {
		values = append(values, p.number+v+colorReset)
	}
	if v, ok := byKey[FieldDurationMS]; ok {
		values = append(values, p.number+v+colorReset+"ms")
	}
	if v, ok := byKey[FieldError]; ok {
		values = append(values, p.err+v+colorReset)
	}
	values = append(values, rest...)

	return strings.Join(values, "  ")
}
