package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"tutor-scheduling-api/internal/auth"
	"tutor-scheduling-api/internal/directory"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/scheduling"
	"tutor-scheduling-api/internal/store"
	"tutor-scheduling-api/internal/web"
)

const secret = "test-secret"

type fixedStatus struct{}

func (fixedStatus) LatestStatus(typ model.SyncType) model.SyncStatus {
	return model.SyncStatus{LastRun: time.Date(2025, 1, 1, 3, 0, 0, 0, time.Local), Status: model.SyncSuccess, Details: string(typ) + " ok"}
}

func setup(t *testing.T) (http.Handler, *scheduling.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	quiet := log.New(io.Discard, "", 0)

	st := store.NewMemory()
	ctx := context.Background()
	for _, u := range []model.User{
		{ID: "t1", Name: "Ada", Role: model.RoleTutor},
		{ID: "t2", Name: "Grace", Role: model.RoleTutor},
	} {
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	users := directory.New(st)
	eng := scheduling.New(st, users, scheduling.WithLogger(quiet))

	srv := &web.Server{
		Engine: eng,
		Users:  users,
		Secret: secret,
		Bridge: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Bridge", r.URL.Path)
		}),
		Sync: fixedStatus{},
		Log:  quiet,
	}
	return srv.Router(), eng
}

func get(h http.Handler, path, uid, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if uid != "" {
		tok, _ := auth.MakeToken(uid, role, secret)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := setup(t)
	rec := get(h, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("body %v", body)
	}
}

func TestBridgeRoute(t *testing.T) {
	h, _ := setup(t)
	for _, method := range []string{http.MethodPost, http.MethodOptions} {
		req := httptest.NewRequest(method, "/scheduling.v1.SchedulingService/Login", bytes.NewReader(nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Bridge"); got != "/scheduling.v1.SchedulingService/Login" {
			t.Errorf("%s not routed to bridge (%q)", method, got)
		}
	}
}

func TestMinutesWorkbook(t *testing.T) {
	h, eng := setup(t)
	ctx := context.Background()
	a, err := eng.CreateAppointment(ctx, "t1", "Calc", "2030-01-01 09:00:00", "2030-01-01 10:00:00", "H1", 2)
	if err != nil {
		t.Fatal(err)
	}
	path := "/appointments/" + a.ID + "/minutes.xlsx"

	if rec := get(h, path, "t1", model.RoleTutor); rec.Code != http.StatusNotFound {
		t.Errorf("no minutes yet: code %d", rec.Code)
	}
	if _, err := eng.SaveMinutes(ctx, a.ID, "t1", "Covered limits", []model.StudentResult{{StudentID: "s1", Score: "8"}}, ""); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		uid, role string
		code      int
	}{
		{"no token", path, "", "", http.StatusUnauthorized},
		{"other tutor", path, "t2", model.RoleTutor, http.StatusForbidden},
		{"unknown appointment", "/appointments/missing/minutes.xlsx", "t1", model.RoleTutor, http.StatusNotFound},
		{"admin", path, "root", model.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(h, tt.path, tt.uid, tt.role); rec.Code != tt.code {
				t.Errorf("code %d, want %d", rec.Code, tt.code)
			}
		})
	}

	rec := get(h, path, "t1", model.RoleTutor)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Session", "B2"); v != "Ada" {
		t.Errorf("tutor cell %q", v)
	}
}

func TestSyncStatus(t *testing.T) {
	h, _ := setup(t)

	if rec := get(h, "/sync/status/personal", "t1", model.RoleTutor); rec.Code != http.StatusForbidden {
		t.Errorf("tutor got %d", rec.Code)
	}
	if rec := get(h, "/sync/status/bogus", "root", model.RoleAdmin); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus type got %d", rec.Code)
	}

	rec := get(h, "/sync/status/role", "root", model.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "SUCCESS" || body["details"] != "ROLE ok" || body["last_run"] != "2025-01-01 03:00:00" {
		t.Errorf("body %v", body)
	}
}
