package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeList    Type = "list"
	TypeWeek    Type = "week"
	TypeMonth   Type = "month"
	TypeAdd     Type = "add"
	TypeRemove  Type = "remove"
	TypeUpdate  Type = "update"
	TypeSearch  Type = "search"
	TypePending Type = "pending"
	TypeReindex Type = "reindex"
	TypeExport  Type = "export"
	TypeHelp    Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// DateArgs carries the optional day of list, week and month. Empty means
// today.
type DateArgs struct {
	Date string
}

type AddArgs struct {
	Date        string
	Time        string
	Pomodoro    *uint8
	Description string
	// Every names a repeat rule; Count is then the number of days written.
	Every string
	Count int
}

type RemoveArgs struct {
	Date  string
	Index int
}

type UpdateField string

const (
	FieldDate        UpdateField = "date"
	FieldTime        UpdateField = "time"
	FieldDescription UpdateField = "description"
	FieldDone        UpdateField = "done"
	FieldNotDone     UpdateField = "notdone"
	FieldPomodoro    UpdateField = "pomodoro"
)

type UpdateArgs struct {
	Date  string
	Index int
	Field UpdateField
	// Value holds the new date, time or description.
	Value string
	// PomodoroOp is new, done or remove when Field is pomodoro.
	PomodoroOp string
	Count      uint8
}

type SearchArgs struct {
	Text string
}

type PendingArgs struct {
	Days int
}

type ExportArgs struct {
	Date string
	Days int
	Out  string
}

type Command struct {
	Type    Type
	Raw     string
	List    *DateArgs
	Week    *DateArgs
	Month   *DateArgs
	Add     *AddArgs
	Remove  *RemoveArgs
	Update  *UpdateArgs
	Search  *SearchArgs
	Pending *PendingArgs
	Export  *ExportArgs
}

const Usage = `commands:
  list [date]                       show one day (default today)
  week [date]                       show seven days
  month [date]                      show up to the same day next month
  add [-d date] [-t time] [-p n] [-e rule -c n] description...
  remove <date> <idx>
  update <date> <idx> date <date>
  update <date> <idx> time <time>
  update <date> <idx> description <text...>
  update <date> <idx> done|notdone
  update <date> <idx> pomodoro new <n>|done <n>|remove
  search <text...>
  pending [days]
  reindex
  export [date] [--days n] [--out file]
dates: today, tomorrow, yesterday, in N days, next monday, d-m-y
repeat rules: day, week, weekday, month-end, Nd, Nw, mon,wed,fri`

// Parse splits input on whitespace, honoring single and double quotes, and
// decodes it. A leading '/' is ignored so palette input can use it.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	fields, err := splitFields(raw)
	if err != nil {
		return Command{}, err
	}
	return parseFields(input, fields)
}

// ParseArgs decodes already split arguments, as received from the shell.
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	return parseFields(strings.Join(args, " "), args)
}

func parseFields(raw string, fields []string) (Command, error) {
	head := strings.ToLower(fields[0])
	args := fields[1:]

	switch Type(head) {
	case TypeList, TypeWeek, TypeMonth:
		return parseDateOnly(raw, Type(head), args)
	case TypeAdd:
		return parseAdd(raw, args)
	case TypeRemove, "rm":
		return parseRemove(raw, args)
	case TypeUpdate:
		return parseUpdate(raw, args)
	case TypeSearch:
		if len(args) == 0 {
			return Command{}, invalid("search requires text")
		}
		return Command{Type: TypeSearch, Raw: raw, Search: &SearchArgs{Text: strings.Join(args, " ")}}, nil
	case TypePending:
		return parsePending(raw, args)
	case TypeReindex:
		if len(args) != 0 {
			return Command{}, invalid("reindex takes no arguments")
		}
		return Command{Type: TypeReindex, Raw: raw}, nil
	case TypeExport:
		return parseExport(raw, args)
	case TypeHelp, "-h", "--help":
		return Command{Type: TypeHelp, Raw: raw}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDateOnly(raw string, typ Type, args []string) (Command, error) {
	date := &DateArgs{Date: strings.Join(args, " ")}
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeList:
		cmd.List = date
	case TypeWeek:
		cmd.Week = date
	case TypeMonth:
		cmd.Month = date
	}
	return cmd, nil
}

const maxRepeat = 366

func parseAdd(raw string, args []string) (Command, error) {
	out := &AddArgs{}
	rest, err := parseFlags(args, map[string]func(string) error{
		"date": func(v string) error { out.Date = v; return nil },
		"time": func(v string) error { out.Time = v; return nil },
		"pomodoro": func(v string) error {
			n, err := parseCount(v)
			if err != nil {
				return err
			}
			out.Pomodoro = &n
			return nil
		},
		"every": func(v string) error { out.Every = v; return nil },
		"count": func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxRepeat {
				return invalid("repeat count must be between 1 and %d: %s", maxRepeat, v)
			}
			out.Count = n
			return nil
		},
	})
	if err != nil {
		return Command{}, err
	}
	out.Description = strings.TrimSpace(strings.Join(rest, " "))
	if out.Description == "" {
		return Command{}, invalid("add requires a description")
	}
	if (out.Every == "") != (out.Count == 0) {
		return Command{}, invalid("--every and --count go together")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: out}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("remove requires a date and an index")
	}
	idx, err := parseIndex(args[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Date: args[0], Index: idx}}, nil
}

func parseUpdate(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("update requires a date, an index and a field")
	}
	idx, err := parseIndex(args[1])
	if err != nil {
		return Command{}, err
	}
	out := &UpdateArgs{Date: args[0], Index: idx}
	field := strings.ToLower(args[2])
	values := args[3:]

	switch UpdateField(field) {
	case FieldDate, FieldTime:
		if len(values) == 0 {
			return Command{}, invalid("update %s requires a value", field)
		}
		out.Field = UpdateField(field)
		out.Value = strings.Join(values, " ")
	case FieldDescription, "desc":
		out.Field = FieldDescription
		out.Value = strings.TrimSpace(strings.Join(values, " "))
		if out.Value == "" {
			return Command{}, invalid("update description requires text")
		}
	case FieldDone, FieldNotDone:
		if len(values) != 0 {
			return Command{}, invalid("update %s takes no value", field)
		}
		out.Field = UpdateField(field)
	case FieldPomodoro:
		if err := parsePomodoroUpdate(out, values); err != nil {
			return Command{}, err
		}
	default:
		return Command{}, invalid("unknown update field: %s", field)
	}
	return Command{Type: TypeUpdate, Raw: raw, Update: out}, nil
}

func parsePomodoroUpdate(out *UpdateArgs, values []string) error {
	out.Field = FieldPomodoro
	if len(values) == 0 {
		return invalid("update pomodoro requires new, done or remove")
	}
	out.PomodoroOp = strings.ToLower(values[0])
	switch out.PomodoroOp {
	case "new", "done":
		if len(values) != 2 {
			return invalid("update pomodoro %s requires a count", out.PomodoroOp)
		}
		n, err := parseCount(values[1])
		if err != nil {
			return err
		}
		out.Count = n
	case "remove":
		if len(values) != 1 {
			return invalid("update pomodoro remove takes no value")
		}
	default:
		return invalid("unknown pomodoro update: %s", out.PomodoroOp)
	}
	return nil
}

func parsePending(raw string, args []string) (Command, error) {
	out := &PendingArgs{Days: 7}
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, invalid("pending days must be a positive number: %s", args[0])
		}
		out.Days = n
	default:
		return Command{}, invalid("pending takes at most one argument")
	}
	return Command{Type: TypePending, Raw: raw, Pending: out}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	out := &ExportArgs{Days: 7}
	rest, err := parseFlags(args, map[string]func(string) error{
		"days": func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return invalid("export days must be a positive number: %s", v)
			}
			out.Days = n
			return nil
		},
		"out": func(v string) error { out.Out = v; return nil },
	})
	if err != nil {
		return Command{}, err
	}
	out.Date = strings.Join(rest, " ")
	return Command{Type: TypeExport, Raw: raw, Export: out}, nil
}

// parseFlags consumes --name value, --name=value and -n value forms for the
// given names, returning the remaining positional arguments. "--" ends flag
// parsing.
func parseFlags(args []string, setters map[string]func(string) error) ([]string, error) {
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}
		name, value, hasValue, ok := flagName(arg, setters)
		if !ok {
			if strings.HasPrefix(arg, "-") && len(arg) > 1 && !isNumber(arg) {
				return nil, invalid("unknown flag: %s", arg)
			}
			rest = append(rest, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, invalid("flag --%s requires a value", name)
			}
			i++
			value = args[i]
		}
		if err := setters[name](value); err != nil {
			return nil, err
		}
	}
	return rest, nil
}

func flagName(arg string, setters map[string]func(string) error) (name, value string, hasValue, ok bool) {
	switch {
	case strings.HasPrefix(arg, "--"):
		name = strings.TrimPrefix(arg, "--")
		if before, after, found := strings.Cut(name, "="); found {
			name, value, hasValue = before, after, true
		}
		_, ok = setters[name]
		return name, value, hasValue, ok
	case strings.HasPrefix(arg, "-") && len(arg) == 2:
		for full := range setters {
			if full[0] == arg[1] {
				return full, "", false, true
			}
		}
	}
	return "", "", false, false
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func parseIndex(v string) (int, error) {
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 1 {
		return 0, invalid("index must be a positive number: %s", v)
	}
	return idx, nil
}

func parseCount(v string) (uint8, error) {
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return 0, invalid("pomodoro count must be between 0 and 255: %s", v)
	}
	return uint8(n), nil
}

// splitFields is a minimal shell-style splitter: whitespace separates
// fields, and single or double quotes group them.
func splitFields(s string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		quote   rune
		inField bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case r == ' ' || r == '\t' || r == '\n':
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if quote != 0 {
		return nil, invalid("unterminated quote")
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields, nil
}
