package listutil

import (
	"github.com/and161185/school-portal/internal/model"
)

// NewsSortOptions orders news by date or title.
func NewsSortOptions() []SortOption {
	return []SortOption{
		{Label: "По дате (новые)", Value: "createdAt", Direction: Desc},
		{Label: "По дате (старые)", Value: "createdAt", Direction: Asc},
		{Label: "По заголовку", Value: "titleRu", Direction: Asc},
	}
}

// TeacherSortOptions orders teachers by name, subject or birthday.
func TeacherSortOptions() []SortOption {
	return []SortOption{
		{Label: "По имени", Value: "nameRu", Direction: Asc},
		{Label: "По предмету", Value: "subjectRu", Direction: Asc},
		{Label: "По дате рождения", Value: "birthday", Direction: Asc},
	}
}

// ClassSortOptions orders classes by grade or letter.
func ClassSortOptions() []SortOption {
	return []SortOption{
		{Label: "По номеру класса", Value: "grade", Direction: Asc},
		{Label: "По букве", Value: "letter", Direction: Asc},
	}
}

// ScheduleSortOptions orders lessons by date, start time or subject.
func ScheduleSortOptions() []SortOption {
	return []SortOption{
		{Label: "По дате", Value: "date", Direction: Asc},
		{Label: "По времени", Value: "startTime", Direction: Asc},
		{Label: "По предмету", Value: "subjectRu", Direction: Asc},
	}
}

// NewsFilters offers only the "all" choice.
func NewsFilters([]model.News) []FilterOption {
	return []FilterOption{{Label: "Все новости", Value: AllValue}}
}

// TeacherFilters offers one filter per subject.
func TeacherFilters(teachers []model.Teacher) []FilterOption {
	return append([]FilterOption{{Label: "Все учителя", Value: AllValue}}, GenerateFilters(teachers, "subjectRu", "")...)
}

// ClassFilters offers one filter per grade.
func ClassFilters(classes []model.Class) []FilterOption {
	out := []FilterOption{{Label: "Все классы", Value: AllValue}}
	for _, f := range GenerateFilters(classes, "grade", "") {
		f.Label += " класс"
		out = append(out, f)
	}
	return out
}

// ScheduleFilters offers subject filters followed by class filters.
func ScheduleFilters(lessons []model.Schedule) []FilterOption {
	out := []FilterOption{{Label: "Все занятия", Value: AllValue}}
	out = append(out, GenerateFilters(lessons, "subjectRu", "")...)
	for _, f := range GenerateFilters(lessons, "classId", "") {
		f.Label = "Класс " + f.Label
		out = append(out, f)
	}
	return out
}
