//go:build integration_test || all_tests

package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fitlog/internal/fitlog/routines"
	"github.com/2beens/fitlog/internal/fitlog/summaries"
)

const testUser = "serj"

type logResponse struct {
	Success        bool                    `json:"success"`
	NewTDEE        int                     `json:"new_tdee"`
	BurnedCalories int                     `json:"burned_calories"`
	Summary        *summaries.DailySummary `json:"summary"`
	EventID        string                  `json:"eventId"`
	Error          string                  `json:"error"`
}

type removeResponse struct {
	Success        bool                    `json:"success"`
	NewTDEE        *int                    `json:"new_tdee"`
	BurnedCalories int                     `json:"burned_calories"`
	Summary        *summaries.DailySummary `json:"summary"`
	Error          string                  `json:"error"`
}

type eventsResponse struct {
	Events []struct {
		ID      string `json:"id"`
		RawText string `json:"rawText"`
		Type    string `json:"type"`
		Date    string `json:"date"`
	} `json:"events"`
	Total int `json:"total"`
}

func (s *IntegrationTestSuite) doRequest(method, path string, body any) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) putProfile() {
	status, body := s.doRequest(http.MethodPut, "/profiles/"+testUser, map[string]any{
		"heightCm":  179,
		"birthDate": "1988-03-10",
		"sex":       "male",
		"goalSteps": 10000,
	})
	s.Require().Equal(http.StatusOK, status, string(body))
}

func (s *IntegrationTestSuite) logText(text, source string) (int, logResponse) {
	status, body := s.doRequest(http.MethodPost, "/log", map[string]string{
		"userId": testUser,
		"text":   text,
		"source": source,
	})
	var resp logResponse
	s.Require().NoError(json.Unmarshal(body, &resp), string(body))
	return status, resp
}

func (s *IntegrationTestSuite) countRows(table string) int {
	var count int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *IntegrationTestSuite) TestProfile() {
	status, _ := s.doRequest(http.MethodGet, "/profiles/"+testUser, nil)
	s.Equal(http.StatusNotFound, status)

	s.putProfile()

	status, body := s.doRequest(http.MethodGet, "/profiles/"+testUser, nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(body), `"heightCm":179`)
	s.Contains(string(body), `"birthDate":"1988-03-10"`)

	status, body = s.doRequest(http.MethodPut, "/profiles/"+testUser, map[string]any{
		"birthDate": "1988-03-10",
		"sex":       "male",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "heightCm")
}

func (s *IntegrationTestSuite) TestLogAndRemove() {
	s.putProfile()

	s.llm.reply("desayuno avena y huevos", `{"calories": 500, "protein": 30, "carbs": 60, "fat": 15, "nutrition_mode": "add"}`)
	s.llm.reply("corrí 30 minutos, 300 kcal", `Claro: {"burned_calories": 300, "training": "Running", "training_mode": "add"}`)
	s.llm.reply("peso 82.5 y 8000 pasos", `{"weight": 82.5, "steps": 8000, "steps_mode": "set"}`)

	status, breakfast := s.logText("desayuno avena y huevos", "text")
	s.Require().Equal(http.StatusOK, status, breakfast.Error)
	s.True(breakfast.Success)
	s.Require().NotNil(breakfast.Summary)
	s.Equal(500, breakfast.Summary.Calories)
	s.Equal(30, breakfast.Summary.Protein)
	s.Contains(breakfast.Summary.Notes, "[ExKcal: 0]")

	status, run := s.logText("corrí 30 minutos, 300 kcal", "voice")
	s.Require().Equal(http.StatusOK, status, run.Error)
	s.Equal(300, run.BurnedCalories)
	s.Equal("Running", run.Summary.Training)
	s.Equal(500, run.Summary.Calories)
	s.Contains(run.Summary.Notes, "[VOZ] corrí 30 minutos, 300 kcal")
	s.Contains(run.Summary.Notes, "[ExKcal: 300]")
	s.Equal(1, strings.Count(run.Summary.Notes, "[ExKcal:"))
	s.Greater(run.NewTDEE, breakfast.NewTDEE)

	status, weigh := s.logText("peso 82.5 y 8000 pasos", "text")
	s.Require().Equal(http.StatusOK, status, weigh.Error)
	s.Require().NotNil(weigh.Summary.Weight)
	s.Equal(82.5, *weigh.Summary.Weight)
	s.Equal(8000, weigh.Summary.Steps)
	s.Contains(weigh.Summary.Notes, "[CORRECCIÓN] peso 82.5 y 8000 pasos")

	s.Equal(1, s.countRows("daily_summaries"))
	s.Equal(3, s.countRows("log_events"))

	day := weigh.Summary.Day()
	status, body := s.doRequest(http.MethodGet, fmt.Sprintf("/events/%s/date/%s", testUser, day), nil)
	s.Require().Equal(http.StatusOK, status)
	var evs eventsResponse
	s.Require().NoError(json.Unmarshal(body, &evs))
	s.Equal(3, evs.Total)

	status, body = s.doRequest(http.MethodGet, fmt.Sprintf("/summaries/%s/date/%s", testUser, day), nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(body), `"exerciseKcal":300`)

	// removing the run reverses its burned kcal and drops the training label
	status, body = s.doRequest(http.MethodDelete, fmt.Sprintf("/events/%s?userId=%s", run.EventID, testUser), nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var removed removeResponse
	s.Require().NoError(json.Unmarshal(body, &removed))
	s.True(removed.Success)
	s.Equal(300, removed.BurnedCalories)
	s.Require().NotNil(removed.Summary)
	s.Empty(removed.Summary.Training)
	s.NotContains(removed.Summary.Notes, "[ExKcal:")
	s.NotContains(removed.Summary.Notes, "corrí 30 minutos")
	s.Equal(500, removed.Summary.Calories)
	s.Require().NotNil(removed.NewTDEE)
	s.Equal(weigh.NewTDEE-300, *removed.NewTDEE)

	s.Equal(2, s.countRows("log_events"))

	status, _ = s.doRequest(http.MethodDelete, fmt.Sprintf("/events/%s?userId=%s", run.EventID, testUser), nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestLogWorkout() {
	calls := s.llm.callCount()

	status, body := s.doRequest(http.MethodPost, "/log/workout", map[string]any{
		"userId":         testUser,
		"routine":        "Pierna",
		"durationMin":    45,
		"burnedCalories": 250,
	})
	s.Require().Equal(http.StatusOK, status, string(body))

	var resp logResponse
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.Equal(250, resp.BurnedCalories)
	s.Equal("Pierna", resp.Summary.Training)
	s.Contains(resp.Summary.Notes, "[ExKcal: 250]")
	s.Equal(calls, s.llm.callCount())

	var eventType string
	err := s.DB.QueryRow("SELECT type FROM log_events WHERE user_id = $1", testUser).Scan(&eventType)
	s.Require().NoError(err)
	s.Equal("workout", eventType)
}

func (s *IntegrationTestSuite) TestLogExtractionFailure() {
	calls := s.llm.callCount()

	status, resp := s.logText("hola que tal", "text")
	s.Equal(http.StatusBadGateway, status)
	s.False(resp.Success)
	s.NotEmpty(resp.Error)
	s.Equal(calls+1, s.llm.callCount())

	s.Zero(s.countRows("daily_summaries"))
	s.Zero(s.countRows("log_events"))

	status, resp = s.logText("  ", "text")
	s.Equal(http.StatusBadRequest, status)
	s.Contains(resp.Error, "text")
	s.Equal(calls+1, s.llm.callCount())
}

func (s *IntegrationTestSuite) TestRoutines() {
	status, body := s.doRequest(http.MethodPost, "/routines/"+testUser, routines.CreateRequest{
		Name: "Pierna",
		Exercises: []routines.Exercise{
			{Name: "Sentadilla", Sets: 4, Reps: 8},
			{Name: "Prensa", Sets: 3, Reps: 12},
		},
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	var created routines.WorkoutRoutine
	s.Require().NoError(json.Unmarshal(body, &created))
	s.NotZero(created.ID)
	s.Len(created.Exercises, 2)

	status, body = s.doRequest(http.MethodGet, "/routines/"+testUser, nil)
	s.Require().Equal(http.StatusOK, status)
	var list []routines.WorkoutRoutine
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list, 1)
	s.Equal("Pierna", list[0].Name)

	status, _ = s.doRequest(http.MethodDelete, fmt.Sprintf("/routines/%s/%d", testUser, created.ID), nil)
	s.Equal(http.StatusOK, status)
	status, _ = s.doRequest(http.MethodDelete, fmt.Sprintf("/routines/%s/%d", testUser, created.ID), nil)
	s.Equal(http.StatusNotFound, status)
}
