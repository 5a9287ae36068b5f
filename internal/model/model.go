// Package model defines the canonical client-side shapes of backend resources.
package model

// Language is a UI/content language tag understood by the backend.
type Language string

// Supported languages.
const (
	LangRU Language = "ru"
	LangKZ Language = "kz"
)

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool { return l == LangRU || l == LangKZ }

// School is a tenant of the platform.
type School struct {
	ID            int    `json:"id"`
	NameRu        string `json:"nameRu"`
	NameKz        string `json:"nameKz"`
	Email         string `json:"email"`
	AddressRu     string `json:"addressRu,omitempty"`
	AddressKz     string `json:"addressKz,omitempty"`
	DescriptionRu string `json:"descriptionRu,omitempty"`
	DescriptionKz string `json:"descriptionKz,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
}

// CreateSchoolRequest registers a new school account.
type CreateSchoolRequest struct {
	NameRu        string `json:"nameRu" validate:"required"`
	NameKz        string `json:"nameKz" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	AddressRu     string `json:"addressRu,omitempty"`
	AddressKz     string `json:"addressKz,omitempty"`
	DescriptionRu string `json:"descriptionRu,omitempty"`
	DescriptionKz string `json:"descriptionKz,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
}

// UpdateSchoolRequest is a partial school update; nil fields are not sent.
type UpdateSchoolRequest struct {
	NameRu        *string `json:"nameRu,omitempty"`
	NameKz        *string `json:"nameKz,omitempty"`
	Email         *string `json:"email,omitempty"`
	AddressRu     *string `json:"addressRu,omitempty"`
	AddressKz     *string `json:"addressKz,omitempty"`
	DescriptionRu *string `json:"descriptionRu,omitempty"`
	DescriptionKz *string `json:"descriptionKz,omitempty"`
	LogoURL       *string `json:"logoUrl,omitempty"`
}

// LoginRequest carries credentials for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the raw /auth/login reply.
type LoginResponse struct {
	Token string `json:"token"`
}

// Identity is the /auth/me record of the logged-in account.
type Identity struct {
	ID       int    `json:"id"`
	SchoolID int    `json:"schoolId,omitempty"`
	Email    string `json:"email,omitempty"`
}

// School returns the school id this identity belongs to.
// School accounts are their own identity, so ID is used when SchoolID is absent.
func (i Identity) School() int {
	if i.SchoolID > 0 {
		return i.SchoolID
	}
	return i.ID
}

// News is a bilingual news post. A zero ID is left out so create bodies carry no id.
type News struct {
	ID        int    `json:"id,omitempty"`
	SchoolID  int    `json:"schoolId"`
	TitleRu   string `json:"titleRu"`
	TitleKz   string `json:"titleKz"`
	ContentRu string `json:"contentRu"`
	ContentKz string `json:"contentKz"`
	ImageURL  string `json:"imageUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Teacher is a staff member.
type Teacher struct {
	ID        int    `json:"id,omitempty"`
	SchoolID  int    `json:"schoolId"`
	NameRu    string `json:"nameRu"`
	NameKz    string `json:"nameKz"`
	SubjectRu string `json:"subjectRu"`
	SubjectKz string `json:"subjectKz"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Birthday  string `json:"birthday"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Section is an extracurricular club.
type Section struct {
	ID         int    `json:"id,omitempty"`
	SchoolID   int    `json:"schoolId"`
	NameRu     string `json:"nameRu"`
	NameKz     string `json:"nameKz"`
	ScheduleRu string `json:"scheduleRu"`
	ScheduleKz string `json:"scheduleKz"`
	Teacher    string `json:"teacher"`
	TeacherID  int    `json:"teacherId,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// Dishes is one day of canteen meals in a single language.
type Dishes struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// CanteenMenu is the bilingual menu of one day.
type CanteenMenu struct {
	ID       int    `json:"id,omitempty"`
	SchoolID int    `json:"schoolId"`
	Date     string `json:"date"`
	DishesRu Dishes `json:"dishesRu"`
	DishesKz Dishes `json:"dishesKz"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// HonorBoard is an entry of the school's honor board.
type HonorBoard struct {
	ID            int    `json:"id,omitempty"`
	SchoolID      int    `json:"schoolId"`
	StudentName   string `json:"studentName"`
	DescriptionRu string `json:"descriptionRu"`
	DescriptionKz string `json:"descriptionKz"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// Class is a grade/letter pair with a homeroom teacher.
type Class struct {
	ID        int    `json:"id"`
	SchoolID  int    `json:"schoolId"`
	Grade     int    `json:"grade"`
	Letter    string `json:"letter"`
	TeacherID int    `json:"teacherId"`
}

// Schedule is a single lesson slot.
type Schedule struct {
	ID        int    `json:"id"`
	SchoolID  int    `json:"schoolId"`
	TeacherID int    `json:"teacherId"`
	ClassID   int    `json:"classId"`
	SubjectRu string `json:"subjectRu"`
	SubjectKz string `json:"subjectKz"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	RoomRu    string `json:"roomRu"`
	RoomKz    string `json:"roomKz"`
}

// Patch is a partial update body; only the present keys are changed by the backend.
type Patch map[string]any
