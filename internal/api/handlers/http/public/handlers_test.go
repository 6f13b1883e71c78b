package public_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"

	"roadwatch/internal/api/handlers/http/public"
	mock_public "roadwatch/internal/api/handlers/http/public/mocks"
	"roadwatch/internal/domain"
	"roadwatch/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newHandler(ctrl *gomock.Controller) (*public.Handler, *mock_public.MockIncidents, *mock_public.MockStats, *mock_public.MockWeather) {
	incidents := mock_public.NewMockIncidents(ctrl)
	stats := mock_public.NewMockStats(ctrl)
	weather := mock_public.NewMockWeather(ctrl)
	return public.NewHandler(newTestLogger(), incidents, stats, weather), incidents, stats, weather
}

func TestIncidentList_OK_DefaultWindow(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	want := []*domain.Incident{{ID: 1, Title: "kolona kod tunela", Status: domain.StatusActive}}

	incidents.EXPECT().
		List(gomock.Any(), domain.ListIncidentsRequest{Hours: 0}).
		Return(want, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	rr := httptest.NewRecorder()

	h.IncidentList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[[]*domain.Incident](t, rr)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestIncidentList_CustomWindow(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	incidents.EXPECT().
		List(gomock.Any(), domain.ListIncidentsRequest{Hours: 24}).
		Return([]*domain.Incident{}, nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents?hours=24", nil)
	rr := httptest.NewRecorder()

	h.IncidentList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestIncidentList_NegativeWindow_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents?hours=-3", nil)
	rr := httptest.NewRecorder()

	h.IncidentList(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestIncidentList_ServiceError_500(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	incidents.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom")).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents", nil)
	rr := httptest.NewRecorder()

	h.IncidentList(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d got %d body=%s", http.StatusInternalServerError, rr.Code, rr.Body.String())
	}
}

func TestIncidentGet_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	want := &domain.Incident{ID: 5, Title: "udes na obilaznici"}

	incidents.EXPECT().Get(gomock.Any(), int64(5)).Return(want, nil).Times(1)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/incidents/5", nil), "id", "5")
	rr := httptest.NewRecorder()

	h.IncidentGet(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.Incident](t, rr)
	if got.ID != 5 || got.Title != want.Title {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestIncidentGet_InvalidID_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newHandler(ctrl)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/incidents/abc", nil), "id", "abc")
	rr := httptest.NewRecorder()

	h.IncidentGet(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestIncidentGet_NotFound_404(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	incidents.EXPECT().Get(gomock.Any(), int64(404)).Return(nil, e.ErrNotFound).Times(1)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/incidents/404", nil), "id", "404")
	rr := httptest.NewRecorder()

	h.IncidentGet(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d got %d body=%s", http.StatusNotFound, rr.Code, rr.Body.String())
	}
}

func TestIncidentCreate_OK_201(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	incidents.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.CreateIncidentRequest) (*domain.Incident, error) {
			if req.Title != "kolona kod tunela" {
				t.Fatalf("unexpected title: %q", req.Title)
			}
			if req.Lat == nil || *req.Lat != 42.44 {
				t.Fatalf("latitude not decoded: %+v", req.Lat)
			}
			return &domain.Incident{ID: 9, Title: req.Title, Status: domain.StatusActive}, nil
		}).
		Times(1)

	body := `{"title":"kolona kod tunela","latitude":42.44,"longitude":19.26,"category":"traffic_jam"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.IncidentCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.Incident](t, rr)
	if got.ID != 9 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestIncidentCreate_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newHandler(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", bytes.NewBufferString("{bad json"))
	rr := httptest.NewRecorder()

	h.IncidentCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
}

func TestIncidentCreate_Unauthenticated_401(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, incidents, _, _ := newHandler(ctrl)

	incidents.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, e.ErrUnauthenticated).
		Times(1)

	body := `{"title":"pothole","latitude":42.44,"longitude":19.26}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	h.IncidentCreate(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d body=%s", http.StatusUnauthorized, rr.Code, rr.Body.String())
	}
}

func TestStatsRollup_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, stats, _ := newHandler(ctrl)

	want := &domain.StatsRollup{
		Day:   domain.CategoryCount{domain.CategoryAccident: 2},
		Total: domain.CategoryCount{domain.CategoryAccident: 41},
	}

	stats.EXPECT().Rollup(gomock.Any()).Return(want, nil).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rr := httptest.NewRecorder()

	h.StatsRollup(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.StatsRollup](t, rr)
	if !reflect.DeepEqual(got.Day, want.Day) || !reflect.DeepEqual(got.Total, want.Total) {
		t.Fatalf("unexpected rollup: got=%+v want=%+v", got, want)
	}
}

func TestStatsOverview_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, stats, _ := newHandler(ctrl)

	want := &domain.OverviewStats{TotalIncidents: 100, ActiveIncidents: 8, TodayIncidents: 2, TotalUsers: 30}

	stats.EXPECT().Overview(gomock.Any()).Return(want, nil).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/overview", nil)
	rr := httptest.NewRecorder()

	h.StatsOverview(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[domain.OverviewStats](t, rr)
	if !reflect.DeepEqual(got, *want) {
		t.Fatalf("unexpected overview: got=%+v want=%+v", got, *want)
	}
}

func TestTopUsers_DefaultLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, stats, _ := newHandler(ctrl)

	want := []domain.LeaderboardEntry{{UserID: 1, FullName: "Marko", IncidentCount: 12}}

	stats.EXPECT().Leaderboard(gomock.Any(), 10).Return(want, nil).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/top-users", nil)
	rr := httptest.NewRecorder()

	h.TopUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[[]domain.LeaderboardEntry](t, rr)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries: got=%+v want=%+v", got, want)
	}
}

func TestTopUsers_ExplicitLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, stats, _ := newHandler(ctrl)

	stats.EXPECT().Leaderboard(gomock.Any(), 3).Return([]domain.LeaderboardEntry{}, nil).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/top-users?limit=3", nil)
	rr := httptest.NewRecorder()

	h.TopUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestWeatherAll_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, weather := newHandler(ctrl)

	snapshots := map[string]*domain.WeatherSnapshot{
		"Podgorica": {Temp: 31.5, Conditions: "Sunny"},
	}

	weather.EXPECT().RefreshAll(gomock.Any()).Return(snapshots, map[string]error{}).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	rr := httptest.NewRecorder()

	h.WeatherAll(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[map[string]*domain.WeatherSnapshot](t, rr)
	if got["Podgorica"] == nil || got["Podgorica"].Temp != 31.5 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestWeatherAll_PartialFailureStillServes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, weather := newHandler(ctrl)

	snapshots := map[string]*domain.WeatherSnapshot{
		"Podgorica": {Temp: 31.5},
	}
	failed := map[string]error{"Budva": errors.New("timeout")}

	weather.EXPECT().RefreshAll(gomock.Any()).Return(snapshots, failed).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	rr := httptest.NewRecorder()

	h.WeatherAll(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestWeatherAll_TotalFailure_502(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, weather := newHandler(ctrl)

	failed := map[string]error{"Podgorica": e.ErrUpstream}

	weather.EXPECT().RefreshAll(gomock.Any()).Return(map[string]*domain.WeatherSnapshot{}, failed).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	rr := httptest.NewRecorder()

	h.WeatherAll(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected %d got %d body=%s", http.StatusBadGateway, rr.Code, rr.Body.String())
	}
}
