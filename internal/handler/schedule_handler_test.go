package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

type generatorStub struct {
	captured dto.GenerateScheduleRequest
	err      error
}

func (s *generatorStub) Generate(_ context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	s.captured = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GenerateScheduleResponse{
		StudentID:          req.StudentID,
		Program:            req.Program,
		OccurrencesCreated: 48,
		DurationYears:      1,
		WeeksPerYear:       24,
		ActiveWeek:         dto.CurrentWeek{AcademicYear: 1, WeekNumber: 1},
	}, nil
}

func (s *generatorStub) Regenerate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	return s.Generate(ctx, req)
}

type bookingStub struct {
	occurrence *models.ClassOccurrence
	err        error
}

func (s *bookingStub) BookMakeup(context.Context, dto.BookMakeupRequest) (*models.ClassOccurrence, error) {
	return s.occurrence, s.err
}

func (s *bookingStub) Reschedule(context.Context, string, dto.RescheduleRequest) (*models.ClassOccurrence, error) {
	return s.occurrence, s.err
}

func (s *bookingStub) Complete(context.Context, string) (*models.ClassOccurrence, error) {
	return s.occurrence, s.err
}

type listerStub struct {
	filter models.OccurrenceFilter
}

func (s *listerStub) ListByStudent(_ context.Context, _ string, filter models.OccurrenceFilter) ([]models.ClassOccurrence, error) {
	s.filter = filter
	return []models.ClassOccurrence{{ID: "occ-1"}}, nil
}

func validGeneratePayload() []byte {
	return []byte(`{"studentId":"student-1","program":"tajweed","mainDayOfWeek":"monday","mainClassTime":"18:00","shortDayOfWeek":"thursday","shortClassTime":"19:30"}`)
}

func TestScheduleHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &generatorStub{}
	handler := NewScheduleHandler(stub, &bookingStub{}, &listerStub{})

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(validGeneratePayload()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tajweed", stub.captured.Program)

	var envelope struct {
		Data dto.GenerateScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 48, envelope.Data.OccurrencesCreated)
}

func TestScheduleHandlerGenerateDuplicateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &generatorStub{err: appErrors.ErrDuplicateSchedule}
	handler := NewScheduleHandler(stub, &bookingStub{}, &listerStub{})

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(validGeneratePayload()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestScheduleHandlerGenerateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{}, &listerStub{})

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader([]byte(`{"studentId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerListForStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lister := &listerStub{}
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{}, lister)

	router := gin.New()
	router.GET("/students/:id/schedules", handler.ListForStudent)

	req, _ := http.NewRequest(http.MethodGet, "/students/student-1/schedules?program=tajweed&day=monday", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tajweed", lister.filter.Program)
	assert.Equal(t, "Monday", lister.filter.DayOfWeek)
}

func TestScheduleHandlerListFiltersByClassType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lister := &listerStub{}
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{}, lister)

	router := gin.New()
	router.GET("/students/:id/schedules", handler.ListForStudent)

	req, _ := http.NewRequest(http.MethodGet, "/students/student-1/schedules?classType=main", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ClassTypeMain, lister.filter.ClassType)
}

func TestScheduleHandlerListRejectsBadClassType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{}, &listerStub{})

	router := gin.New()
	router.GET("/students/:id/schedules", handler.ListForStudent)

	req, _ := http.NewRequest(http.MethodGet, "/students/student-1/schedules?classType=weekly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerReschedulePatchRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	booking := &bookingStub{occurrence: &models.ClassOccurrence{ID: "occ-1", DayOfWeek: "Wednesday", ClassTime: "10:00"}}
	handler := NewScheduleHandler(&generatorStub{}, booking, &listerStub{})

	router := gin.New()
	router.PATCH("/schedules/:id/reschedule", handler.Reschedule)

	payload := []byte(`{"dayOfWeek":"wednesday","classTime":"10:00"}`)
	req, _ := http.NewRequest(http.MethodPatch, "/schedules/occ-1/reschedule", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerListRejectsBadDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{}, &listerStub{})

	router := gin.New()
	router.GET("/students/:id/schedules", handler.ListForStudent)

	req, _ := http.NewRequest(http.MethodGet, "/students/student-1/schedules?day=someday", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerBookMakeupConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&generatorStub{}, &bookingStub{err: appErrors.ErrNoFreeCapacity}, &listerStub{})

	payload := []byte(`{"studentId":"student-1","program":"tajweed","academicYear":1,"weekNumber":3,"dayOfWeek":"friday","slot":"Evening"}`)
	req, _ := http.NewRequest(http.MethodPost, "/schedules/makeup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.BookMakeup(c)

	require.Equal(t, http.StatusConflict, w.Code)
}
