package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/and161185/school-portal/internal/app"
	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/listutil"
	"github.com/and161185/school-portal/internal/model"
)

var errUsage = errors.New("usage")

// listFlags are the view controls shared by every collection command.
type listFlags struct {
	school  int
	id      int
	query   string
	sortBy  string
	page    int
	size    int
	filter  string
	filters bool
	lang    string
}

func newFlagSet(name string, lf *listFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&lf.school, "school", 0, "school id (defaults to the logged-in school)")
	fs.IntVar(&lf.id, "id", 0, "single item id")
	fs.StringVar(&lf.query, "q", "", "search term")
	fs.StringVar(&lf.sortBy, "sort", "", "sort option (unknown names keep backend order)")
	fs.IntVar(&lf.page, "page", 1, "page number")
	fs.IntVar(&lf.size, "size", 0, "page size (0 prints everything)")
	fs.StringVar(&lf.filter, "filter", "", "comma separated filter values")
	fs.BoolVar(&lf.filters, "filters", false, "print available filters")
	fs.StringVar(&lf.lang, "lang", "", "content language (ru|kz)")
	return fs
}

func (lf *listFlags) language(a *app.App) model.Language {
	if lf.lang != "" {
		return model.Language(lf.lang)
	}
	return a.Lang.Current()
}

func (lf *listFlags) schoolID(ctx context.Context, a *app.App) (int, error) {
	if lf.school > 0 {
		return lf.school, nil
	}
	st, err := a.EnsureSchool(ctx)
	if err != nil {
		return 0, err
	}
	return st.SchoolID, nil
}

// allowed splits -filter; choosing the "all" preset means no filtering.
func (lf *listFlags) allowed() []string {
	if lf.filter == "" {
		return nil
	}
	vals := strings.Split(lf.filter, ",")
	if slices.Contains(vals, listutil.AllValue) {
		return nil
	}
	return vals
}

// view is the search, filter, sort, paginate pipeline applied to a fetched collection.
type view[T any] struct {
	search      []string
	filterField string
	sortOptions []listutil.SortOption
	presets     func([]T) []listutil.FilterOption
}

func (v view[T]) render(w io.Writer, items []T, lf *listFlags) error {
	if lf.filters && v.presets != nil {
		return printJSON(w, v.presets(items))
	}
	items = listutil.Search(items, lf.query, v.search...)
	if v.filterField != "" {
		items = listutil.Filter(items, v.filterField, lf.allowed())
	}
	items = listutil.Sort(items, lf.sortBy, v.sortOptions)
	if lf.size > 0 {
		return printJSON(w, listutil.Paginate(items, lf.page, lf.size))
	}
	return printJSON(w, items)
}

// run executes one subcommand against a started app.
func run(ctx context.Context, a *app.App, cmd string, args []string, out io.Writer) error {
	var lf listFlags
	fs := newFlagSet(cmd, &lf)

	switch cmd {
	case "login":
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if _, err := a.API.Login(ctx, *email, *password); err != nil {
			return err
		}
		st := a.Session.Snapshot()
		fmt.Fprintf(out, "ok (school %d)\n", st.SchoolID)
		return nil

	case "logout":
		a.Session.Logout()
		fmt.Fprintln(out, "ok")
		return nil

	case "me":
		me, err := a.API.GetMe(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, me)

	case "school":
		st, err := a.EnsureSchool(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, st.School)

	case "news":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if lf.id > 0 {
			n, err := a.API.GetNewsByID(ctx, lf.id, lf.language(a))
			if err != nil {
				return err
			}
			return printJSON(out, n)
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetNews(ctx, school, lf.language(a))
		if err != nil {
			return err
		}
		return view[model.News]{
			search:      []string{"titleRu", "titleKz", "contentRu", "contentKz"},
			sortOptions: listutil.NewsSortOptions(),
			presets:     listutil.NewsFilters,
		}.render(out, items, &lf)

	case "teachers":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if lf.id > 0 {
			t, err := a.API.GetTeacher(ctx, lf.id)
			if err != nil {
				return err
			}
			return printJSON(out, t)
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetTeachers(ctx, school)
		if err != nil {
			return err
		}
		return view[model.Teacher]{
			search:      []string{"nameRu", "nameKz", "subjectRu", "subjectKz", "email"},
			filterField: "subjectRu",
			sortOptions: listutil.TeacherSortOptions(),
			presets:     listutil.TeacherFilters,
		}.render(out, items, &lf)

	case "sections":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if lf.id > 0 {
			s, err := a.API.GetSection(ctx, lf.id)
			if err != nil {
				return err
			}
			return printJSON(out, s)
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetSections(ctx, school, lf.language(a))
		if err != nil {
			return err
		}
		return view[model.Section]{search: []string{"nameRu", "nameKz", "teacher"}}.render(out, items, &lf)

	case "canteen":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if lf.id > 0 {
			m, err := a.API.GetCanteenMenuItem(ctx, lf.id)
			if err != nil {
				return err
			}
			return printJSON(out, m)
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetCanteenMenu(ctx, school, lf.language(a))
		if err != nil {
			return err
		}
		return view[model.CanteenMenu]{search: []string{"date"}}.render(out, items, &lf)

	case "honor":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		if lf.id > 0 {
			h, err := a.API.GetHonorBoardItem(ctx, lf.id)
			if err != nil {
				return err
			}
			return printJSON(out, h)
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetHonorBoard(ctx, school, lf.language(a))
		if err != nil {
			return err
		}
		return view[model.HonorBoard]{search: []string{"studentName", "descriptionRu", "descriptionKz"}}.render(out, items, &lf)

	case "classes":
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetClasses(ctx, school)
		if err != nil {
			return err
		}
		return view[model.Class]{
			search:      []string{"grade", "letter"},
			filterField: "grade",
			sortOptions: listutil.ClassSortOptions(),
			presets:     listutil.ClassFilters,
		}.render(out, items, &lf)

	case "schedule":
		teacher := fs.Int("teacher", 0, "teacher id")
		if err := fs.Parse(args); err != nil {
			return errUsage
		}
		school, err := lf.schoolID(ctx, a)
		if err != nil {
			return err
		}
		items, err := a.API.GetSchedule(ctx, school, *teacher)
		if err != nil {
			return err
		}
		return view[model.Schedule]{
			search:      []string{"subjectRu", "subjectKz", "roomRu", "roomKz"},
			filterField: "subjectRu",
			sortOptions: listutil.ScheduleSortOptions(),
			presets:     listutil.ScheduleFilters,
		}.render(out, items, &lf)

	case "rm":
		kind := fs.String("kind", "", "resource kind")
		email := fs.String("email", "", "admin email")
		password := fs.String("password", "", "admin password")
		if err := fs.Parse(args); err != nil || lf.id <= 0 {
			return errUsage
		}
		if err := a.Admin.Enter(ctx, *email, *password); err != nil {
			return err
		}
		defer a.Admin.Exit()
		if err := a.Admin.Require(); err != nil {
			return err
		}
		if err := remove(ctx, a, *kind, lf.id); err != nil {
			return err
		}
		fmt.Fprintln(out, "ok")
		return nil

	case "lang":
		if len(args) == 0 {
			fmt.Fprintln(out, a.Lang.Current())
			return nil
		}
		if args[0] == "toggle" {
			l, err := a.Lang.Toggle(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, l)
			return nil
		}
		l := model.Language(args[0])
		if !l.Valid() {
			return fmt.Errorf("%w: language %q", errs.ErrValidation, args[0])
		}
		if err := a.Lang.Set(ctx, l); err != nil {
			return err
		}
		fmt.Fprintln(out, l)
		return nil
	}
	return errUsage
}

func remove(ctx context.Context, a *app.App, kind string, id int) error {
	switch kind {
	case "news":
		return a.API.DeleteNews(ctx, id)
	case "teacher":
		return a.API.DeleteTeacher(ctx, id)
	case "section":
		return a.API.DeleteSection(ctx, id)
	case "canteen":
		return a.API.DeleteCanteenMenu(ctx, id)
	case "honor":
		return a.API.DeleteHonorBoard(ctx, id)
	}
	return fmt.Errorf("%w: kind %q", errs.ErrValidation, kind)
}
