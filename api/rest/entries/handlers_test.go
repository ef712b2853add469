package entries

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key") //nolint:errcheck // test fixture
	os.Exit(m.Run())
}

type fakeEntryStore struct {
	entries map[string]entries.Entry
	nextID  int64
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]entries.Entry), nextID: 1}
}

func (f *fakeEntryStore) put(userID int64, input entries.EntryInput) int64 {
	id := f.nextID
	if existing, ok := f.entries[input.Date]; ok {
		id = existing.ID
	} else {
		f.nextID++
	}
	f.entries[input.Date] = entries.Entry{
		ID:             id,
		UserID:         userID,
		Date:           input.Date,
		GlucoseMorning: input.GlucoseMorning,
		Symptoms:       input.Symptoms,
		Comment:        input.Comment,
	}
	return id
}

func (f *fakeEntryStore) Create(ctx context.Context, userID int64, input entries.EntryInput) (int64, error) {
	return f.put(userID, input), nil
}

func (f *fakeEntryStore) Upsert(ctx context.Context, userID int64, input entries.EntryInput) (int64, error) {
	return f.put(userID, input), nil
}

func (f *fakeEntryStore) Delete(ctx context.Context, userID int64, date string) (int64, error) {
	if _, ok := f.entries[date]; !ok {
		return 0, nil
	}
	delete(f.entries, date)
	return 1, nil
}

func (f *fakeEntryStore) ListMonth(ctx context.Context, userID int64, year, month int) ([]entries.Entry, error) {
	var list []entries.Entry
	for _, e := range f.entries {
		list = append(list, e)
	}
	return list, nil
}

func (f *fakeEntryStore) Exists(ctx context.Context, userID int64, date string) (bool, error) {
	_, ok := f.entries[date]
	return ok, nil
}

type fakeHRVStore struct {
	byDate map[string]hrv.Measurement
}

func newFakeHRVStore() *fakeHRVStore {
	return &fakeHRVStore{byDate: make(map[string]hrv.Measurement)}
}

func (f *fakeHRVStore) Upsert(ctx context.Context, userID int64, input hrv.MeasurementInput) (int64, error) {
	f.byDate[input.Date] = hrv.Measurement{UserID: userID, Date: input.Date, Readiness: input.Readiness}
	return 1, nil
}

func (f *fakeHRVStore) FindByDate(ctx context.Context, userID int64, date string) (*hrv.Measurement, error) {
	m, ok := f.byDate[date]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeHRVStore) ListMonth(ctx context.Context, userID int64, year, month int) ([]hrv.Measurement, error) {
	var list []hrv.Measurement
	for _, m := range f.byDate {
		list = append(list, m)
	}
	return list, nil
}

func setupRouter(entryStore entries.Store, hrvStore hrv.Store) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	RegisterRoutes(api, entryStore, hrvStore)
	return router
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(7, 0, time.Hour)
	require.NoError(t, err)
	return token
}

func do(router *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body) //nolint:errcheck // test fixture
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateEntry(t *testing.T) {
	store := newFakeEntryStore()
	router := setupRouter(store, newFakeHRVStore())
	bearer := bearerToken(t)

	w := do(router, http.MethodPost, "/api/v1/entries", EntryRequest{
		Date:           "2025-03-01",
		GlucoseMorning: floatPtr(5.6),
		Symptoms:       "Päänsärkyä",
	}, bearer)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Merkintä luotu onnistuneesti", resp.Message)
	assert.Equal(t, int64(1), resp.ID)
}

func TestCreateEntryDuplicateDate(t *testing.T) {
	store := newFakeEntryStore()
	router := setupRouter(store, newFakeHRVStore())
	bearer := bearerToken(t)

	body := EntryRequest{Date: "2025-03-01"}
	first := do(router, http.MethodPost, "/api/v1/entries", body, bearer)
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(router, http.MethodPost, "/api/v1/entries", body, bearer)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Merkintä tälle päivälle on jo olemassa")
}

func TestCreateEntryBadDate(t *testing.T) {
	router := setupRouter(newFakeEntryStore(), newFakeHRVStore())
	bearer := bearerToken(t)

	tests := []string{"01.03.2025", "2025-3-1x", "not-a-date", ""}

	for _, date := range tests {
		w := do(router, http.MethodPost, "/api/v1/entries", EntryRequest{Date: date}, bearer)
		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q", date)
	}
}

func TestUpdateEntryUpserts(t *testing.T) {
	store := newFakeEntryStore()
	router := setupRouter(store, newFakeHRVStore())
	bearer := bearerToken(t)

	// no prior entry for the date; the update creates it
	w := do(router, http.MethodPut, "/api/v1/entries", EntryRequest{
		Date:           "2025-03-02",
		GlucoseMorning: floatPtr(6.1),
	}, bearer)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.entries, 1)

	w = do(router, http.MethodPut, "/api/v1/entries", EntryRequest{
		Date:           "2025-03-02",
		GlucoseMorning: floatPtr(7.2),
	}, bearer)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.entries, 1, "the second update replaces, never duplicates")
	assert.Equal(t, 7.2, *store.entries["2025-03-02"].GlucoseMorning)
}

func TestDeleteEntry(t *testing.T) {
	store := newFakeEntryStore()
	router := setupRouter(store, newFakeHRVStore())
	bearer := bearerToken(t)

	do(router, http.MethodPost, "/api/v1/entries", EntryRequest{Date: "2025-03-01"}, bearer)

	w := do(router, http.MethodDelete, "/api/v1/entries/2025-03-01", nil, bearer)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.entries)

	w = do(router, http.MethodDelete, "/api/v1/entries/2025-03-01", nil, bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Merkintää ei löytynyt")
}

func TestListMonthRequiresParams(t *testing.T) {
	router := setupRouter(newFakeEntryStore(), newFakeHRVStore())
	bearer := bearerToken(t)

	tests := []string{
		"/api/v1/entries",
		"/api/v1/entries?year=2025",
		"/api/v1/entries?month=3",
		"/api/v1/entries?year=2025&month=13",
	}

	for _, path := range tests {
		w := do(router, http.MethodGet, path, nil, bearer)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
		assert.Contains(t, w.Body.String(), "Vuosi (year) ja kuukausi (month) parametrit vaaditaan")
	}
}

func TestListMonthMergesHRV(t *testing.T) {
	entryStore := newFakeEntryStore()
	hrvStore := newFakeHRVStore()
	router := setupRouter(entryStore, hrvStore)
	bearer := bearerToken(t)

	do(router, http.MethodPost, "/api/v1/entries", EntryRequest{Date: "2025-03-01"}, bearer)
	do(router, http.MethodPost, "/api/v1/entries", EntryRequest{Date: "2025-03-02"}, bearer)

	readiness := 62.5
	_, err := hrvStore.Upsert(context.Background(), 7, hrv.MeasurementInput{
		Date:      "2025-03-01",
		Readiness: &readiness,
	})
	require.NoError(t, err)

	w := do(router, http.MethodGet, "/api/v1/entries?year=2025&month=3", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	var days []DayEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	require.Len(t, days, 2)

	byDate := make(map[string]DayEntry)
	for _, d := range days {
		byDate[d.Date] = d
	}

	require.NotNil(t, byDate["2025-03-01"].HRV, "the measured day carries its HRV summary")
	assert.Equal(t, 62.5, *byDate["2025-03-01"].HRV.Readiness)
	assert.Nil(t, byDate["2025-03-02"].HRV, "a day without a measurement has a null summary")
}

func TestEntriesRequireAuth(t *testing.T) {
	router := setupRouter(newFakeEntryStore(), newFakeHRVStore())

	w := do(router, http.MethodGet, "/api/v1/entries?year=2025&month=3", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
