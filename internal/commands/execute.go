package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	List    func(DateArgs) (Result, error)
	Week    func(DateArgs) (Result, error)
	Month   func(DateArgs) (Result, error)
	Add     func(AddArgs) (Result, error)
	Remove  func(RemoveArgs) (Result, error)
	Update  func(UpdateArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Pending func(PendingArgs) (Result, error)
	Reindex func() (Result, error)
	Export  func(ExportArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeList:
		if handlers.List == nil {
			return Result{}, missing("list")
		}
		return handlers.List(*cmd.List)
	case TypeWeek:
		if handlers.Week == nil {
			return Result{}, missing("week")
		}
		return handlers.Week(*cmd.Week)
	case TypeMonth:
		if handlers.Month == nil {
			return Result{}, missing("month")
		}
		return handlers.Month(*cmd.Month)
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("remove")
		}
		return handlers.Remove(*cmd.Remove)
	case TypeUpdate:
		if handlers.Update == nil {
			return Result{}, missing("update")
		}
		return handlers.Update(*cmd.Update)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing("search")
		}
		return handlers.Search(*cmd.Search)
	case TypePending:
		if handlers.Pending == nil {
			return Result{}, missing("pending")
		}
		return handlers.Pending(*cmd.Pending)
	case TypeReindex:
		if handlers.Reindex == nil {
			return Result{}, missing("reindex")
		}
		return handlers.Reindex()
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing("export")
		}
		return handlers.Export(*cmd.Export)
	case TypeHelp:
		return Result{Message: Usage}, nil
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
