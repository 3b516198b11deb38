package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/mock/gomock"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/compare"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

func testScenario() *domain.ScenarioInput {
	return &domain.ScenarioInput{
		Vehicle: domain.VehicleInput{
			VehicleType:          domain.VehicleICE,
			PurchasePriceInclGST: 50000,
		},
		Finance: domain.FinanceInput{
			TermMonths:               36,
			AnnualInterestRatePct:    domain.Float(8.5),
			PaymentsPerYear:          domain.Int(12),
			EstablishmentFee:         500,
			MonthlyAccountKeepingFee: 15,
		},
		RunningCosts: domain.RunningCostsInput{
			AnnualRegistration: 900,
			AnnualInsurance:    1400,
		},
		Salary: domain.SalaryInput{
			GrossAnnualSalary: 120000,
			PayFrequency:      domain.PayFortnightly,
		},
		FilingProfile: domain.FilingProfile{ResidentForTaxPurposes: true},
		TaxOptions: domain.TaxOptionsInput{
			IncomeTaxYear:       "FY2025-26",
			IncludeMedicareLevy: true,
		},
		Packaging: domain.PackagingInput{
			UseECM:                       true,
			IncludeRunningCostsInPackage: true,
		},
	}
}

func newTestServer(t *testing.T, cache ResultCache, cfg Config) *Server {
	t.Helper()
	tables, err := config.DefaultTables()
	require.NoError(t, err)
	s, err := New(calculation.NewEngine(tables, tables.Assumptions), cache, cfg)
	require.NoError(t, err)
	return s
}

func scenarioBody(t *testing.T, in *domain.ScenarioInput) []byte {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	return data
}

func do(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New(nil, nil, DefaultConfig())
	assert.Error(t, err)
	_, err = New(&calculation.Engine{}, nil, DefaultConfig())
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	rec := do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCalculate(t *testing.T) {
	cache := NewMemoryCache()
	h := newTestServer(t, cache, Config{CacheTTL: time.Minute}).Handler()
	body := scenarioBody(t, testScenario())

	rec := do(h, http.MethodPost, "/v1/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get(cacheHeader))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out domain.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.OK)
	require.NotNil(t, out.Lease)
	assert.Equal(t, "50500", out.Lease.FinancedAmount.String())
	assert.Equal(t, 1, cache.Len())

	again := do(h, http.MethodPost, "/v1/calculate", body)
	assert.Equal(t, "HIT", again.Header().Get(cacheHeader))
	assert.Equal(t, rec.Body.String(), again.Body.String())
}

func TestCalculate_InvalidScenarioIsData(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()
	in := testScenario()
	in.Finance.TermMonths = 30

	rec := do(h, http.MethodPost, "/v1/calculate", scenarioBody(t, in))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), domain.CodeInvalidTerm)
	assert.Empty(t, rec.Header().Get(cacheHeader))
}

func TestCalculate_WithTransforms(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	rec := do(h, http.MethodPost, "/v1/calculate?transform=set_price:price=60000", scenarioBody(t, testScenario()))
	require.Equal(t, http.StatusOK, rec.Code)
	var out domain.Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.Lease)
	assert.Equal(t, "60500", out.Lease.FinancedAmount.String())

	rec = do(h, http.MethodPost, "/v1/calculate?transform=bogus", scenarioBody(t, testScenario()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown transform")

	rec = do(h, http.MethodPost, "/v1/calculate?transform=set_term:months=30", scenarioBody(t, testScenario()))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCalculate_BadRequests(t *testing.T) {
	h := newTestServer(t, nil, Config{MaxBodyBytes: 64}).Handler()

	rec := do(h, http.MethodPost, "/v1/calculate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/v1/calculate", []byte(`{"vehicle":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusBadRequest, errResp.Status)
	assert.NotEmpty(t, errResp.RequestID)

	rec = do(h, http.MethodPost, "/v1/calculate", scenarioBody(t, testScenario()))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(h, http.MethodGet, "/v1/calculate", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCalculate_UsesCachedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := NewMockResultCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(`{"ok":true,"cached":true}`), true, nil)

	h := newTestServer(t, cache, Config{}).Handler()
	rec := do(h, http.MethodPost, "/v1/calculate", scenarioBody(t, testScenario()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true,"cached":true}`, rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get(cacheHeader))
}

func TestCalculate_CacheFailuresAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := NewMockResultCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("connection refused"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), 5*time.Minute).Return(errors.New("connection refused"))

	h := newTestServer(t, cache, Config{CacheTTL: 5 * time.Minute}).Handler()
	rec := do(h, http.MethodPost, "/v1/calculate", scenarioBody(t, testScenario()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestCompare(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()
	body, err := json.Marshal(CompareRequest{
		Name:     "mine",
		Scenario: testScenario(),
		With:     []string{"term_48"},
		Variants: []VariantRequest{{Transforms: []string{"set_rate:rate=6"}}},
	})
	require.NoError(t, err)

	rec := do(h, http.MethodPost, "/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var compSet compare.ComparisonSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &compSet))
	assert.Equal(t, "mine", compSet.BaseScenarioName)
	require.Len(t, compSet.AlternativeResults, 2)
	assert.Equal(t, "mine_term_48", compSet.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "mine_variant_1", compSet.AlternativeResults[1].ScenarioName)
	assert.Equal(t, "set_rate:rate=6", compSet.AlternativeResults[1].Description)
}

func TestCompare_BadRequests(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"scenario":`, http.StatusBadRequest},
		{"no scenario", `{"with":["term_48"]}`, http.StatusBadRequest},
		{"no variants", `{"scenario":{}}`, http.StatusBadRequest},
		{"bad transform", `{"scenario":{},"variants":[{"transforms":["nope"]}]}`, http.StatusBadRequest},
		{"unknown template", `{"scenario":{},"with":["nope"]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/v1/compare", []byte(tt.body))
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestSimpleInterestEndpoint(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	rec := do(h, http.MethodPost, "/v1/simple-interest", []byte(`{"principal":10000,"annualRatePct":5,"termYears":3}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "1500", result["interest"])
	assert.Equal(t, "11500", result["totalAmount"])

	rec = do(h, http.MethodPost, "/v1/simple-interest", []byte(`{"principal":-1,"annualRatePct":5,"termYears":3}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var failure SimpleInterestErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	require.Len(t, failure.Issues, 1)
	assert.Equal(t, "principal", failure.Issues[0].Field)
	assert.Equal(t, domain.CodeNegativeValue, failure.Issues[0].Code)

	rec = do(h, http.MethodPost, "/v1/simple-interest", []byte(`{"principal":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTablesAndTemplates(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	rec := do(h, http.MethodGet, "/v1/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"FY2025-26"`)

	rec = do(h, http.MethodGet, "/v1/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"term_48"`)
	assert.Contains(t, rec.Body.String(), `"quote_mode"`)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, nil, Config{RateLimit: 0.001, Burst: 1}).Handler()

	first := do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil, Config{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/calculate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)
}

func TestFastHTTPHandler(t *testing.T) {
	handler := newTestServer(t, nil, Config{}).FastHTTPHandler()

	var req fasthttp.Request
	req.SetRequestURI("/healthz")
	req.Header.SetMethod(fasthttp.MethodGet)
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)

	handler(&ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"status":"ok"`)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, nil, Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", []byte("x"), 0))

	val, hit, _ := cache.Get(ctx, "k")
	assert.True(t, hit)
	assert.Equal(t, "v", string(val))

	now = now.Add(2 * time.Minute)
	_, hit, _ = cache.Get(ctx, "k")
	assert.False(t, hit)
	assert.Equal(t, 1, cache.Len())

	_, hit, _ = cache.Get(ctx, "forever")
	assert.True(t, hit)
}

func TestMemoryCache_DropsExpiredEntriesOnSet(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Nanosecond))
	}
	assert.Equal(t, 10000, cache.Len())

	now = now.Add(time.Second)
	require.NoError(t, cache.Set(ctx, "fresh", []byte("v"), time.Minute))
	assert.Equal(t, 1, cache.Len())

	val, hit, err := cache.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", string(val))
}

func TestMemoryCache_EvictsOldestAtCapacity(t *testing.T) {
	cache := NewBoundedMemoryCache(3)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c", "d"} {
		require.NoError(t, cache.Set(ctx, key, []byte(key), 0))
	}
	assert.Equal(t, 3, cache.Len())

	_, hit, _ := cache.Get(ctx, "a")
	assert.False(t, hit, "oldest entry is evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, hit, _ := cache.Get(ctx, key)
		assert.True(t, hit, key)
	}

	// overwriting a key refreshes its position
	require.NoError(t, cache.Set(ctx, "b", []byte("b2"), 0))
	require.NoError(t, cache.Set(ctx, "e", []byte("e"), 0))
	assert.Equal(t, 3, cache.Len())
	_, hit, _ = cache.Get(ctx, "c")
	assert.False(t, hit)
	val, hit, _ := cache.Get(ctx, "b")
	assert.True(t, hit)
	assert.Equal(t, "b2", string(val))
}

func TestCacheKey(t *testing.T) {
	a, err := CacheKey("calculate", 1, testScenario())
	require.NoError(t, err)
	b, err := CacheKey("calculate", 1, testScenario())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "calculate:"))

	changed := testScenario()
	changed.Salary.GrossAnnualSalary = 130000
	c, _ := CacheKey("calculate", 1, changed)
	assert.NotEqual(t, a, c)

	d, _ := CacheKey("calculate", 2, testScenario())
	assert.NotEqual(t, a, d)
}

func TestRedisCache_Unreachable(t *testing.T) {
	cache := NewRedisCache(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer cache.Close()

	ctx := context.Background()
	_, hit, err := cache.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, cache.Ping(ctx))
}
