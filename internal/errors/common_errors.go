package errors

// Process exit codes per error kind
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitNotFound       = 2
	ExitOutOfRange     = 3
	ExitParse          = 4
	ExitSchemaMismatch = 5
	ExitEmptyFilter    = 6
	ExitInvalidInput   = 7
)

var exitCodes = map[Kind]int{
	KindNotFound:       ExitNotFound,
	KindOutOfRange:     ExitOutOfRange,
	KindParse:          ExitParse,
	KindSchemaMismatch: ExitSchemaMismatch,
	KindEmptyFilter:    ExitEmptyFilter,
	KindInvalidInput:   ExitInvalidInput,
	KindIO:             ExitFailure,
}

// ExitCode maps err to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := exitCodes[KindOf(err)]; ok {
		return code
	}
	return ExitFailure
}

// Describe renders err as a one-line categorized message for the terminal
func Describe(err error) string {
	if err == nil {
		return ""
	}
	kind := KindOf(err)
	if kind == "" {
		kind = "error"
	}
	return "error [" + string(kind) + "]: " + err.Error()
}
