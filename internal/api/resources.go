package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/and161185/school-portal/internal/errs"
	"github.com/and161185/school-portal/internal/model"
	"github.com/and161185/school-portal/internal/validate"
)

func requireSchool(schoolID int) error {
	if schoolID <= 0 {
		return fmt.Errorf("%w: school id is required", errs.ErrMissingParameter)
	}
	return nil
}

// langSuffix maps "" to an unscoped path and ru/kz to "/lang/<l>".
func langSuffix(lang model.Language) (string, error) {
	if lang == "" {
		return "", nil
	}
	if !lang.Valid() {
		return "", fmt.Errorf("%w: unsupported language %q", errs.ErrValidation, lang)
	}
	return "/lang/" + string(lang), nil
}

func byID(resource string, id int) string { return resource + "/" + strconv.Itoa(id) }

func bySchool(resource string, schoolID int) string {
	return resource + "/school/" + strconv.Itoa(schoolID)
}

func getShaped[W shape[T], T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var w W
	if err := c.get(ctx, endpoint, &w); err != nil {
		var zero T
		return zero, err
	}
	return w.canonical(), nil
}

func getShapedList[W shape[T], T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var ws []W
	if err := c.get(ctx, endpoint, &ws); err != nil {
		return nil, err
	}
	return canonicalList[W, T](ws), nil
}

func sendShaped[W shape[T], T any](ctx context.Context, c *Client, method, endpoint string, body any) (T, error) {
	var w W
	if err := c.send(ctx, method, endpoint, body, &w); err != nil {
		var zero T
		return zero, err
	}
	return w.canonical(), nil
}

// Authenticate checks credentials and returns the issued token without touching the session.
func (c *Client) Authenticate(ctx context.Context, email, password string) (model.LoginResponse, error) {
	req := model.LoginRequest{Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return model.LoginResponse{}, err
	}
	var out model.LoginResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return model.LoginResponse{}, err
	}
	if out.Token == "" {
		return model.LoginResponse{}, fmt.Errorf("%w: login response has no token", errs.ErrRequestFailed)
	}
	return out, nil
}

// Login authenticates and hands the token to the session, which loads school data.
func (c *Client) Login(ctx context.Context, email, password string) (model.LoginResponse, error) {
	out, err := c.Authenticate(ctx, email, password)
	if err != nil {
		return model.LoginResponse{}, err
	}
	if err := c.sess.Login(ctx, out.Token); err != nil {
		return model.LoginResponse{}, fmt.Errorf("store session: %w", err)
	}
	return out, nil
}

// GetMe returns the identity behind the current token.
func (c *Client) GetMe(ctx context.Context) (model.Identity, error) {
	var id model.Identity
	err := c.get(ctx, "/auth/me", &id)
	return id, err
}

func (c *Client) CreateSchool(ctx context.Context, in model.CreateSchoolRequest) (model.School, error) {
	if err := validate.Struct(in); err != nil {
		return model.School{}, err
	}
	var out model.School
	err := c.send(ctx, http.MethodPost, "/school", in, &out)
	return out, err
}

func (c *Client) GetSchools(ctx context.Context) ([]model.School, error) {
	var out []model.School
	err := c.get(ctx, "/school", &out)
	return out, err
}

func (c *Client) GetSchool(ctx context.Context, id int) (model.School, error) {
	var out model.School
	err := c.get(ctx, byID("/school", id), &out)
	return out, err
}

func (c *Client) UpdateSchool(ctx context.Context, id int, patch model.UpdateSchoolRequest) (model.School, error) {
	var out model.School
	err := c.send(ctx, http.MethodPatch, byID("/school", id), patch, &out)
	return out, err
}

func (c *Client) DeleteSchool(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/school", id), nil, nil)
}

// GetNews lists a school's news, optionally in a single language.
func (c *Client) GetNews(ctx context.Context, schoolID int, lang model.Language) ([]model.News, error) {
	if err := requireSchool(schoolID); err != nil {
		return nil, err
	}
	suffix, err := langSuffix(lang)
	if err != nil {
		return nil, err
	}
	return getShapedList[newsShape, model.News](ctx, c, bySchool("/news", schoolID)+suffix)
}

func (c *Client) GetNewsByID(ctx context.Context, id int, lang model.Language) (model.News, error) {
	suffix, err := langSuffix(lang)
	if err != nil {
		return model.News{}, err
	}
	return getShaped[newsShape, model.News](ctx, c, byID("/news", id)+suffix)
}

func (c *Client) CreateNews(ctx context.Context, in model.News) (model.News, error) {
	return sendShaped[newsShape, model.News](ctx, c, http.MethodPost, "/news", in)
}

func (c *Client) UpdateNews(ctx context.Context, id int, patch model.Patch) (model.News, error) {
	return sendShaped[newsShape, model.News](ctx, c, http.MethodPatch, byID("/news", id), patch)
}

func (c *Client) DeleteNews(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/news", id), nil, nil)
}

func (c *Client) GetTeachers(ctx context.Context, schoolID int) ([]model.Teacher, error) {
	if err := requireSchool(schoolID); err != nil {
		return nil, err
	}
	var out []model.Teacher
	err := c.get(ctx, bySchool("/teachers", schoolID), &out)
	return out, err
}

func (c *Client) GetTeacher(ctx context.Context, id int) (model.Teacher, error) {
	var out model.Teacher
	err := c.get(ctx, byID("/teachers", id), &out)
	return out, err
}

func (c *Client) CreateTeacher(ctx context.Context, in model.Teacher) (model.Teacher, error) {
	var out model.Teacher
	err := c.send(ctx, http.MethodPost, "/teachers", in, &out)
	return out, err
}

func (c *Client) UpdateTeacher(ctx context.Context, id int, patch model.Patch) (model.Teacher, error) {
	var out model.Teacher
	err := c.send(ctx, http.MethodPatch, byID("/teachers", id), patch, &out)
	return out, err
}

func (c *Client) DeleteTeacher(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/teachers", id), nil, nil)
}

func (c *Client) GetSections(ctx context.Context, schoolID int, lang model.Language) ([]model.Section, error) {
	if err := requireSchool(schoolID); err != nil {
		return nil, err
	}
	suffix, err := langSuffix(lang)
	if err != nil {
		return nil, err
	}
	return getShapedList[sectionShape, model.Section](ctx, c, bySchool("/section", schoolID)+suffix)
}

func (c *Client) GetSection(ctx context.Context, id int) (model.Section, error) {
	return getShaped[sectionShape, model.Section](ctx, c, byID("/section", id))
}

func (c *Client) CreateSection(ctx context.Context, in model.Section) (model.Section, error) {
	return sendShaped[sectionShape, model.Section](ctx, c, http.MethodPost, "/section", in)
}

func (c *Client) UpdateSection(ctx context.Context, id int, patch model.Patch) (model.Section, error) {
	return sendShaped[sectionShape, model.Section](ctx, c, http.MethodPatch, byID("/section", id), patch)
}

func (c *Client) DeleteSection(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/section", id), nil, nil)
}

func (c *Client) GetCanteenMenu(ctx context.Context, schoolID int, lang model.Language) ([]model.CanteenMenu, error) {
	if err := requireSchool(schoolID); err != nil {
		return nil, err
	}
	suffix, err := langSuffix(lang)
	if err != nil {
		return nil, err
	}
	return getShapedList[canteenShape, model.CanteenMenu](ctx, c, bySchool("/canteen-menu", schoolID)+suffix)
}

func (c *Client) GetCanteenMenuItem(ctx context.Context, id int) (model.CanteenMenu, error) {
	return getShaped[canteenShape, model.CanteenMenu](ctx, c, byID("/canteen-menu", id))
}

func (c *Client) CreateCanteenMenu(ctx context.Context, in model.CanteenMenu) (model.CanteenMenu, error) {
	return sendShaped[canteenShape, model.CanteenMenu](ctx, c, http.MethodPost, "/canteen-menu", in)
}

func (c *Client) UpdateCanteenMenu(ctx context.Context, id int, patch model.Patch) (model.CanteenMenu, error) {
	return sendShaped[canteenShape, model.CanteenMenu](ctx, c, http.MethodPatch, byID("/canteen-menu", id), patch)
}

func (c *Client) DeleteCanteenMenu(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/canteen-menu", id), nil, nil)
}

func (c *Client) GetHonorBoard(ctx context.Context, schoolID int, lang model.Language) ([]model.HonorBoard, error) {
	if err := requireSchool(schoolID); err != nil {
		return nil, err
	}
	suffix, err := langSuffix(lang)
	if err != nil {
		return nil, err
	}
	return getShapedList[honorShape, model.HonorBoard](ctx, c, bySchool("/honor-board", schoolID)+suffix)
}

func (c *Client) GetHonorBoardItem(ctx context.Context, id int) (model.HonorBoard, error) {
	return getShaped[honorShape, model.HonorBoard](ctx, c, byID("/honor-board", id))
}

func (c *Client) CreateHonorBoard(ctx context.Context, in model.HonorBoard) (model.HonorBoard, error) {
	return sendShaped[honorShape, model.HonorBoard](ctx, c, http.MethodPost, "/honor-board", in)
}

func (c *Client) UpdateHonorBoard(ctx context.Context, id int, patch model.Patch) (model.HonorBoard, error) {
	return sendShaped[honorShape, model.HonorBoard](ctx, c, http.MethodPatch, byID("/honor-board", id), patch)
}

func (c *Client) DeleteHonorBoard(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, byID("/honor-board", id), nil, nil)
}

// GetClasses lists classes; schoolID <= 0 lists across schools.
func (c *Client) GetClasses(ctx context.Context, schoolID int) ([]model.Class, error) {
	ep := "/classes"
	if schoolID > 0 {
		ep = bySchool(ep, schoolID)
	}
	var out []model.Class
	err := c.get(ctx, ep, &out)
	return out, err
}

// GetSchedule lists lessons, narrowed by school and/or teacher when positive.
func (c *Client) GetSchedule(ctx context.Context, schoolID, teacherID int) ([]model.Schedule, error) {
	ep := "/schedule"
	if schoolID > 0 {
		ep = bySchool(ep, schoolID)
	}
	if teacherID > 0 {
		ep += "/teacher/" + strconv.Itoa(teacherID)
	}
	var out []model.Schedule
	err := c.get(ctx, ep, &out)
	return out, err
}
