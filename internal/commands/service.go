package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sandeepkv93/timaru/internal/datemath"
	"github.com/sandeepkv93/timaru/internal/export"
	"github.com/sandeepkv93/timaru/internal/format"
	"github.com/sandeepkv93/timaru/internal/model"
	"github.com/sandeepkv93/timaru/internal/planner"
)

// Service binds commands to a planner. Export output without --out goes to
// Out.
type Service struct {
	Planner *planner.Planner
	Dates   *datemath.Parser
	Out     io.Writer
	Ctx     context.Context
}

func NewService(ctx context.Context, p *planner.Planner, out io.Writer) *Service {
	return &Service{Planner: p, Dates: datemath.NewParser(p.Location()), Out: out, Ctx: ctx}
}

// Run parses input and executes it.
func (s *Service) Run(input string) (Result, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(cmd, s.Handlers())
}

func (s *Service) Handlers() Handlers {
	return Handlers{
		List:    s.list,
		Week:    s.week,
		Month:   s.month,
		Add:     s.add,
		Remove:  s.remove,
		Update:  s.update,
		Search:  s.search,
		Pending: s.pending,
		Reindex: s.reindex,
		Export:  s.export,
	}
}

func (s *Service) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

func (s *Service) date(text string) (time.Time, error) {
	d, err := s.Dates.Parse(text, s.Planner.Now())
	if err != nil {
		return time.Time{}, invalid("%v", err)
	}
	return d, nil
}

func (s *Service) list(args DateArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	day, err := s.Planner.Day(date)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: RenderDay(day)}, nil
}

func (s *Service) week(args DateArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	days, err := s.Planner.Week(date)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: RenderRange(days)}, nil
}

func (s *Service) month(args DateArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	days, err := s.Planner.Month(date)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: RenderRange(days)}, nil
}

func (s *Service) add(args AddArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	task := model.Task{Description: args.Description}
	if args.Time == "" {
		// The file keeps minutes only.
		task.Time = model.Precise(s.Planner.Now().Truncate(time.Minute))
	} else {
		tt, err := format.ParseTaskTime(args.Time, date)
		if err != nil {
			return Result{}, invalid("time %q: %v", args.Time, err)
		}
		task.Time = tt
	}
	if args.Pomodoro != nil {
		task.Pomodoro = &model.Pomodoro{Planned: *args.Pomodoro}
	}
	if args.Every != "" {
		return s.addRepeating(date, task, args)
	}
	idx, err := s.Planner.Add(date, task)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("added task %d on %s", idx, format.FormatDate(date))}, nil
}

func (s *Service) addRepeating(date time.Time, task model.Task, args AddArgs) (Result, error) {
	rule, err := model.ParseRecurrence(args.Every)
	if err != nil {
		return Result{}, invalid("repeat %q: %v", args.Every, err)
	}
	refs, err := s.Planner.AddRepeating(date, task, rule, args.Count)
	if err != nil {
		return Result{}, err
	}
	first, last := refs[0], refs[len(refs)-1]
	return Result{Message: fmt.Sprintf("added task on %d days from %s to %s", len(refs), format.FormatDate(first.Date), format.FormatDate(last.Date))}, nil
}

func (s *Service) remove(args RemoveArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	task, err := s.Planner.Remove(date, args.Index)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("removed task %d from %s: %s", args.Index, format.FormatDate(date), format.FormatTask(task))}, nil
}

func (s *Service) update(args UpdateArgs) (Result, error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	var change planner.Change
	switch args.Field {
	case FieldDate:
		target, err := s.date(args.Value)
		if err != nil {
			return Result{}, err
		}
		change.MoveTo = &target
	case FieldTime:
		tt, err := format.ParseTaskTime(args.Value, date)
		if err != nil {
			return Result{}, invalid("time %q: %v", args.Value, err)
		}
		change.Time = &tt
	case FieldDescription:
		desc := args.Value
		change.Description = &desc
	case FieldDone, FieldNotDone:
		done := args.Field == FieldDone
		change.Finished = &done
	case FieldPomodoro:
		change.Pomodoro = planner.PomodoroAction(args.PomodoroOp)
		change.PomodoroCount = args.Count
	default:
		return Result{}, invalid("unknown update field: %s", args.Field)
	}

	ref, err := s.Planner.Update(date, args.Index, change)
	if err != nil {
		return Result{}, err
	}
	if !ref.Date.Equal(model.DateOf(date)) {
		return Result{Message: fmt.Sprintf("moved task %d from %s to %s as task %d",
			args.Index, format.FormatDate(date), format.FormatDate(ref.Date), ref.Index)}, nil
	}
	return Result{Message: fmt.Sprintf("updated task %d on %s", ref.Index, format.FormatDate(ref.Date))}, nil
}

func (s *Service) search(args SearchArgs) (Result, error) {
	rows, err := s.Planner.Search(s.context(), args.Text)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: RenderRows(rows)}, nil
}

func (s *Service) pending(args PendingArgs) (Result, error) {
	today := s.Planner.Today()
	rows, err := s.Planner.Pending(s.context(), today, today.AddDate(0, 0, args.Days-1))
	if err != nil {
		return Result{}, err
	}
	return Result{Message: RenderRows(rows)}, nil
}

func (s *Service) reindex() (Result, error) {
	days, err := s.Planner.Reindex(s.context())
	if err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("indexed %d days", days)}, nil
}

func (s *Service) export(args ExportArgs) (res Result, err error) {
	date, err := s.date(args.Date)
	if err != nil {
		return Result{}, err
	}
	opts := export.Options{CalendarName: "timaru"}
	if args.Out == "" {
		if s.Out == nil {
			return Result{}, invalid("export needs --out here")
		}
		return Result{}, s.Planner.ExportICS(s.Out, date, args.Days, opts)
	}

	f, err := os.Create(args.Out)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := s.Planner.ExportICS(f, date, args.Days, opts); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("exported %d days from %s to %s", args.Days, format.FormatDate(date), args.Out)}, nil
}
