package mnist

import "fmt"

// Kind classifies a decode failure.
type Kind int

const (
	BadMagicNumber Kind = iota + 1
	CountMismatch
	BadDimensions
	Truncated
	BadLabel
)

func (k Kind) String() string {
	switch k {
	case BadMagicNumber:
		return "bad magic number"
	case CountMismatch:
		return "image and label counts do not match"
	case BadDimensions:
		return "bad image dimensions"
	case Truncated:
		return "truncated file"
	case BadLabel:
		return "label out of range"
	default:
		return fmt.Sprintf("decode error %d", int(k))
	}
}

// DecodeError reports a malformed label or image file. Any DecodeError
// aborts the whole load.
type DecodeError struct {
	Kind Kind
	File string
	Msg  string
}

// Sentinels for errors.Is. A sentinel matches every DecodeError of its Kind.
var (
	ErrBadMagicNumber = &DecodeError{Kind: BadMagicNumber}
	ErrCountMismatch  = &DecodeError{Kind: CountMismatch}
	ErrBadDimensions  = &DecodeError{Kind: BadDimensions}
	ErrTruncated      = &DecodeError{Kind: Truncated}
	ErrBadLabel       = &DecodeError{Kind: BadLabel}
)

func (e *DecodeError) Error() string {
	msg := "mnist: "
	if e.File != "" {
		msg += e.File + ": "
	}
	msg += e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.File == "" && t.Msg == ""
}

func decodeErr(kind Kind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
