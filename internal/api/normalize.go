package api

import (
	"github.com/and161185/school-portal/internal/model"
)

// The backend answers bilingual resources in one of two shapes: split
// (`titleRu`/`titleKz`) or collapsed (`title`, one language only). Each *Shape
// type below decodes both variants at once; presence of any split key selects
// the split variant, otherwise the collapsed value fills both languages.

type shape[T any] interface {
	canonical() T
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func anySet(ps ...*string) bool {
	for _, p := range ps {
		if p != nil {
			return true
		}
	}
	return false
}

type newsShape struct {
	ID        int     `json:"id"`
	SchoolID  int     `json:"schoolId"`
	TitleRu   *string `json:"titleRu"`
	TitleKz   *string `json:"titleKz"`
	ContentRu *string `json:"contentRu"`
	ContentKz *string `json:"contentKz"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	CreatedAt string  `json:"createdAt"`
}

func (w newsShape) canonical() model.News {
	n := model.News{ID: w.ID, SchoolID: w.SchoolID, ImageURL: str(w.ImageURL), CreatedAt: w.CreatedAt}
	if anySet(w.TitleRu, w.TitleKz, w.ContentRu, w.ContentKz) {
		n.TitleRu, n.TitleKz = str(w.TitleRu), str(w.TitleKz)
		n.ContentRu, n.ContentKz = str(w.ContentRu), str(w.ContentKz)
		return n
	}
	n.TitleRu, n.TitleKz = str(w.Title), str(w.Title)
	n.ContentRu, n.ContentKz = str(w.Content), str(w.Content)
	return n
}

type sectionShape struct {
	ID         int     `json:"id"`
	SchoolID   int     `json:"schoolId"`
	NameRu     *string `json:"nameRu"`
	NameKz     *string `json:"nameKz"`
	ScheduleRu *string `json:"scheduleRu"`
	ScheduleKz *string `json:"scheduleKz"`
	Name       *string `json:"name"`
	Schedule   *string `json:"schedule"`
	Teacher    string  `json:"teacher"`
	TeacherID  int     `json:"teacherId"`
	ImageURL   *string `json:"imageUrl"`
}

func (w sectionShape) canonical() model.Section {
	s := model.Section{ID: w.ID, SchoolID: w.SchoolID, Teacher: w.Teacher, TeacherID: w.TeacherID, ImageURL: str(w.ImageURL)}
	if anySet(w.NameRu, w.NameKz, w.ScheduleRu, w.ScheduleKz) {
		s.NameRu, s.NameKz = str(w.NameRu), str(w.NameKz)
		s.ScheduleRu, s.ScheduleKz = str(w.ScheduleRu), str(w.ScheduleKz)
		return s
	}
	s.NameRu, s.NameKz = str(w.Name), str(w.Name)
	s.ScheduleRu, s.ScheduleKz = str(w.Schedule), str(w.Schedule)
	return s
}

type canteenShape struct {
	ID       int           `json:"id"`
	SchoolID int           `json:"schoolId"`
	Date     string        `json:"date"`
	DishesRu *model.Dishes `json:"dishesRu"`
	DishesKz *model.Dishes `json:"dishesKz"`
	Dishes   *model.Dishes `json:"dishes"`
	ImageURL *string       `json:"imageUrl"`
}

func (w canteenShape) canonical() model.CanteenMenu {
	m := model.CanteenMenu{ID: w.ID, SchoolID: w.SchoolID, Date: w.Date, ImageURL: str(w.ImageURL)}
	if w.DishesRu != nil || w.DishesKz != nil {
		if w.DishesRu != nil {
			m.DishesRu = *w.DishesRu
		}
		if w.DishesKz != nil {
			m.DishesKz = *w.DishesKz
		}
		return m
	}
	if w.Dishes != nil {
		m.DishesRu, m.DishesKz = *w.Dishes, *w.Dishes
	}
	return m
}

type honorShape struct {
	ID            int     `json:"id"`
	SchoolID      int     `json:"schoolId"`
	StudentName   string  `json:"studentName"`
	DescriptionRu *string `json:"descriptionRu"`
	DescriptionKz *string `json:"descriptionKz"`
	Description   *string `json:"description"`
	ImageURL      *string `json:"imageUrl"`
}

func (w honorShape) canonical() model.HonorBoard {
	h := model.HonorBoard{ID: w.ID, SchoolID: w.SchoolID, StudentName: w.StudentName, ImageURL: str(w.ImageURL)}
	if anySet(w.DescriptionRu, w.DescriptionKz) {
		h.DescriptionRu, h.DescriptionKz = str(w.DescriptionRu), str(w.DescriptionKz)
		return h
	}
	h.DescriptionRu, h.DescriptionKz = str(w.Description), str(w.Description)
	return h
}

func canonicalList[W shape[T], T any](ws []W) []T {
	out := make([]T, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.canonical())
	}
	return out
}
