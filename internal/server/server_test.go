package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/rootfinder/internal/config"
	"github.com/copyleftdev/rootfinder/internal/engine"
	apperrors "github.com/copyleftdev/rootfinder/internal/errors"
	"github.com/copyleftdev/rootfinder/internal/logging"
	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// testConfig creates a test configuration with default values
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
	}

	// Set up HTTP config
	cfg.HTTP.Port = 8080
	cfg.HTTP.ReadTimeout = 30 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.HTTP.IdleTimeout = 120 * time.Second
	cfg.HTTP.ShutdownTimeout = 30 * time.Second
	cfg.HTTP.MaxBodyBytes = 1 << 16
	cfg.HTTP.RequestTimeout = 5 * time.Second

	// Set up logging
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	cfg.Logging.Output = "stdout"

	// Set up solver
	cfg.Solver.Tolerance = 1e-6
	cfg.Solver.MaxIterations = 50
	cfg.Solver.Delta = 1e-3
	cfg.Solver.IterationLimit = 10000
	cfg.Solver.MaxExpressionLength = 1024

	cfg.History.Size = 8

	return cfg
}

type testServer struct {
	srv     *Server
	handler http.Handler
	reg     *prometheus.Registry
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	logger := logging.NewNop()
	reg := prometheus.NewRegistry()
	eng := engine.New(cfg.EngineConfig(), logger, engine.NewMetrics(reg))
	srv := NewServer(cfg, logger, eng)
	t.Cleanup(func() { _ = srv.Close() })
	return &testServer{srv: srv, handler: srv.Handler(logger, reg), reg: reg}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Iteration int               `json:"iteration"`
		Log       []json.RawMessage `json:"log"`
	} `json:"error"`
}

type solveBody struct {
	ID     string          `json:"id"`
	Result rootfind.Result `json:"result"`
}

// rootfind.Result.Log holds interfaces; decode only what the tests read.
func (b *solveBody) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string `json:"id"`
		Result struct {
			Method     rootfind.Method   `json:"method"`
			Root       float64           `json:"root"`
			Error      float64           `json:"error"`
			Iterations int               `json:"iterations"`
			Converged  bool              `json:"converged"`
			Log        []json.RawMessage `json:"log"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	b.Result = rootfind.Result{
		Method:     raw.Result.Method,
		Root:       raw.Result.Root,
		Error:      raw.Result.Error,
		Iterations: raw.Result.Iterations,
		Converged:  raw.Result.Converged,
		Log:        make(rootfind.Log, len(raw.Result.Log)),
	}
	return nil
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg, logging.NewNop(), engine.New(cfg.EngineConfig(), nil, nil))
	assert.NotNil(t, srv, "Server should be created")
	assert.Equal(t, 8, srv.history.size)
}

func TestRegisterRoutes(t *testing.T) {
	cfg := testConfig(t)
	srv := NewServer(cfg, logging.NewNop(), engine.New(cfg.EngineConfig(), nil, nil))
	r := chi.NewRouter()
	srv.RegisterRoutes(r)

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/solve"},
		{"GET", "/api/v1/solves/{id}"},
		{"GET", "/api/v1/methods"},
		{"POST", "/rpc"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			assert.True(t, r.Match(rctx, tt.method, strings.Replace(tt.path, "{id}", uuid.NewString(), 1)),
				"Route %s %s should be registered", tt.method, tt.path)
		})
	}
}

func TestSolveEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	tests := []struct {
		name   string
		body   string
		method rootfind.Method
		root   float64
	}{
		{"bisection", `{"method":"bisection","expression":"x**2 - 2","a":1,"b":2}`, rootfind.Bisection, 1.41421356},
		{"regula falsi", `{"method":"regula_falsi","expression":"x**3 - x - 2","a":1,"b":2}`, rootfind.RegulaFalsi, 1.52137971},
		{"secant", `{"method":"secant","expression":"x**2 - 2","x0":1,"x1":2}`, rootfind.Secant, 1.41421356},
		{"newton analytic", `{"method":"newton","expression":"cos(x) - x","derivative":"-sin(x) - 1","x0":1}`, rootfind.Newton, 0.73908513},
		{"newton auto", `{"method":"newton","expression":"cos(x) - x","x0":1}`, rootfind.Newton, 0.73908513},
		{"fixed point", `{"method":"fixed_point","expression":"cos(x)","x0":1,"tolerance":1e-8,"max_iterations":200}`, rootfind.FixedPoint, 0.73908513},
		{"modified secant", `{"method":"modified_secant","expression":"x**2 - 2","x0":1,"delta":0.01}`, rootfind.ModifiedSecant, 1.41421356},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodPost, "/api/v1/solve", tt.body)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var got solveBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			_, err := uuid.Parse(got.ID)
			assert.NoError(t, err)
			assert.Equal(t, tt.method, got.Result.Method)
			assert.True(t, got.Result.Converged)
			assert.InDelta(t, tt.root, got.Result.Root, 1e-5)
			assert.Len(t, got.Result.Log, got.Result.Iterations)
		})
	}
}

func TestSolveThenGet(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	rr := ts.do(t, http.MethodPost, "/api/v1/solve", `{"method":"secant","expression":"x**2 - 2","x0":1,"x1":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var solved solveBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &solved))

	rr = ts.do(t, http.MethodGet, "/api/v1/solves/"+solved.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var rec struct {
		ID      string          `json:"id"`
		Request SolveRequest    `json:"request"`
		Result  json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, solved.ID, rec.ID)
	assert.Equal(t, "secant", rec.Request.Method)
	require.NotNil(t, rec.Request.X1)
	assert.Equal(t, 2.0, *rec.Request.X1)
	assert.Contains(t, string(rec.Result), `"converged":true`)
}

func TestGetSolveErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	tests := []struct {
		name   string
		id     string
		status int
		code   string
	}{
		{"malformed id", "not-a-uuid", http.StatusBadRequest, "bad_request"},
		{"unknown id", uuid.NewString(), http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodGet, "/api/v1/solves/"+tt.id, "")
			assert.Equal(t, tt.status, rr.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestSolveEndpointErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	tests := []struct {
		name      string
		body      string
		status    int
		code      string
		message   string
		iteration int
		logLen    int
	}{
		{
			name:    "malformed json",
			body:    `{"method":`,
			status:  http.StatusBadRequest,
			code:    "bad_request",
			message: "invalid request body",
		},
		{
			name:    "unknown field",
			body:    `{"method":"secant","expression":"x","x0":1,"x1":2,"guess":3}`,
			status:  http.StatusBadRequest,
			code:    "bad_request",
			message: "guess",
		},
		{
			name:    "missing method",
			body:    `{"expression":"x"}`,
			status:  http.StatusBadRequest,
			code:    "invalid_parameters",
			message: "method is required",
		},
		{
			name:    "unknown method",
			body:    `{"method":"brent","expression":"x"}`,
			status:  http.StatusBadRequest,
			code:    "invalid_parameters",
			message: `unknown method "brent"`,
		},
		{
			name:    "missing seeds",
			body:    `{"method":"bisection","expression":"x**2 - 2","a":1}`,
			status:  http.StatusBadRequest,
			code:    "invalid_parameters",
			message: "b is required for bisection",
		},
		{
			name:    "non-positive tolerance",
			body:    `{"method":"secant","expression":"x","x0":1,"x1":2,"tolerance":0}`,
			status:  http.StatusBadRequest,
			code:    "invalid_parameters",
			message: "tolerance must be greater than 0",
		},
		{
			name:    "zero delta",
			body:    `{"method":"modified_secant","expression":"x","x0":1,"delta":0}`,
			status:  http.StatusBadRequest,
			code:    "invalid_parameters",
			message: "delta must not be 0",
		},
		{
			name:    "bad expression",
			body:    `{"method":"secant","expression":"x +* 2","x0":1,"x1":2}`,
			status:  http.StatusBadRequest,
			code:    "invalid_expression",
		},
		{
			name:    "no sign change",
			body:    `{"method":"bisection","expression":"x**2 + 1","a":-1,"b":1}`,
			status:  http.StatusBadRequest,
			code:    "invalid_bracket",
		},
		{
			name:      "zero derivative mid-run",
			body:      `{"method":"newton","expression":"x**2/2 - 2*x + 4","derivative":"x - 2","x0":0}`,
			status:    http.StatusUnprocessableEntity,
			code:      "zero_derivative",
			iteration: 2,
			logLen:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodPost, "/api/v1/solve", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			var body errorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Contains(t, body.Error.Message, tt.message)
			assert.Equal(t, tt.iteration, body.Error.Iteration)
			assert.Len(t, body.Error.Log, tt.logLen)
		})
	}

	assert.Zero(t, ts.srv.history.len(), "failed solves are not stored")
}

func TestSolveBodyLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.MaxBodyBytes = 32
	ts := newTestServer(t, cfg)

	body := fmt.Sprintf(`{"method":"secant","expression":%q,"x0":1,"x1":2}`, strings.Repeat("x+", 64)+"x")
	rr := ts.do(t, http.MethodPost, "/api/v1/solve", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryEviction(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Size = 2
	ts := newTestServer(t, cfg)

	ids := make([]string, 3)
	for i := range ids {
		rr := ts.do(t, http.MethodPost, "/api/v1/solve",
			fmt.Sprintf(`{"method":"secant","expression":"x**2 - %d","x0":1,"x1":3}`, i+2))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got solveBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		ids[i] = got.ID
	}

	assert.Equal(t, 2, ts.srv.history.len())
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/solves/"+ids[0], "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/solves/"+ids[1], "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/v1/solves/"+ids[2], "").Code)
}

func TestMethodsEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	rr := ts.do(t, http.MethodGet, "/api/v1/methods", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Methods []struct {
			Name       string   `json:"name"`
			Bracketing bool     `json:"bracketing"`
			Seeds      []string `json:"seeds"`
		} `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Methods, len(rootfind.Methods()))
	assert.Equal(t, "bisection", body.Methods[0].Name)
	assert.True(t, body.Methods[0].Bracketing)
	assert.Equal(t, []string{"a", "b"}, body.Methods[0].Seeds)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	rr := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/solve",
		`{"method":"bisection","expression":"x**2 - 2","a":1,"b":2}`).Code)

	rr = ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `rootfind_solves_total{method="bisection",outcome="converged"} 1`)
}

type rpcBody struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

func (ts *testServer) rpc(t *testing.T, body string) rpcBody {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/rpc", body)
	require.Equal(t, http.StatusOK, rr.Code)
	var got rpcBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "2.0", got.JSONRPC)
	return got
}

func TestJSONRPCSolveAndGet(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	for _, params := range []string{
		`{"method":"newton","expression":"x**2 - 2","x0":1}`,
		`[{"method":"newton","expression":"x**2 - 2","x0":1}]`,
	} {
		got := ts.rpc(t, `{"jsonrpc":"2.0","id":7,"method":"rootfind.solve","params":`+params+`}`)
		require.Nil(t, got.Error)
		assert.Equal(t, float64(7), got.ID)

		var solved solveBody
		require.NoError(t, json.Unmarshal(got.Result, &solved))
		assert.InDelta(t, 1.41421356, solved.Result.Root, 1e-6)

		got = ts.rpc(t, `{"jsonrpc":"2.0","id":"g","method":"rootfind.get","params":{"id":"`+solved.ID+`"}}`)
		require.Nil(t, got.Error)
		assert.Contains(t, string(got.Result), solved.ID)
	}
}

func TestJSONRPCMethods(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	got := ts.rpc(t, `{"jsonrpc":"2.0","id":1,"method":"rootfind.methods"}`)
	require.Nil(t, got.Error)

	var infos []map[string]interface{}
	require.NoError(t, json.Unmarshal(got.Result, &infos))
	assert.Len(t, infos, len(rootfind.Methods()))
}

func TestJSONRPCErrors(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	tests := []struct {
		name string
		body string
		code int
		data string
	}{
		{"parse error", `{"jsonrpc":`, -32700, ""},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"rootfind.methods"}`, -32600, ""},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"rootfind.optimize"}`, -32601, ""},
		{"missing params", `{"jsonrpc":"2.0","id":1,"method":"rootfind.solve"}`, -32602, ""},
		{"two element array", `{"jsonrpc":"2.0","id":1,"method":"rootfind.solve","params":[{},{}]}`, -32602, ""},
		{"missing seeds", `{"jsonrpc":"2.0","id":1,"method":"rootfind.solve","params":{"method":"secant","expression":"x"}}`, -32602, ""},
		{"malformed id", `{"jsonrpc":"2.0","id":1,"method":"rootfind.get","params":{"id":"nope"}}`, -32602, ""},
		{"unknown id", `{"jsonrpc":"2.0","id":1,"method":"rootfind.get","params":{"id":"` + uuid.NewString() + `"}}`, -32000, "not_found"},
		{
			"solve failure",
			`{"jsonrpc":"2.0","id":1,"method":"rootfind.solve","params":{"method":"bisection","expression":"x**2 + 1","a":-1,"b":1}}`,
			-32000,
			"invalid_bracket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ts.rpc(t, tt.body)
			require.NotNil(t, got.Error)
			assert.Equal(t, tt.code, got.Error.Code)
			assert.Nil(t, got.Result)
			if tt.data != "" {
				assert.Contains(t, string(got.Error.Data), tt.data)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		req     SolveRequest
		wantErr []string
	}{
		{"valid bisection", SolveRequest{Method: "bisection", Expression: "x", A: f(0), B: f(1)}, nil},
		{"zero seed is set", SolveRequest{Method: "newton", Expression: "x", X0: f(0)}, nil},
		{"modified secant needs only x0", SolveRequest{Method: "modified_secant", Expression: "x", X0: f(1)}, nil},
		{"alias accepted", SolveRequest{Method: "Regula-Falsi", Expression: "x", A: f(0), B: f(1)}, nil},
		{"empty", SolveRequest{}, []string{"method is required", "expression is required"}},
		{"secant seeds", SolveRequest{Method: "secant", Expression: "x"}, []string{"x0 is required for secant", "x1 is required for secant"}},
		{"zero iterations", SolveRequest{Method: "newton", Expression: "x", X0: f(1), MaxIterations: func() *int { n := 0; return &n }()}, []string{"max_iterations must be at least 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, rootfind.ErrInvalidParameters)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestEngineRequest(t *testing.T) {
	x0, delta := 0.0, 0.5
	req := SolveRequest{Method: "modified_secant", Expression: "x - 1", X0: &x0, Delta: &delta}

	got := req.EngineRequest()
	assert.Equal(t, rootfind.Method("modified_secant"), got.Method)
	assert.Equal(t, 0.5, got.Delta)
	assert.Zero(t, got.Tolerance)
	assert.Zero(t, got.MaxIterations)
}

func TestHistory(t *testing.T) {
	h := newHistory(0)
	assert.Equal(t, 1, h.size)

	a := h.add(SolveRequest{Method: "secant"}, &rootfind.Result{})
	b := h.add(SolveRequest{Method: "newton"}, &rootfind.Result{})
	assert.NotEqual(t, a.ID, b.ID)

	_, ok := h.get(a.ID)
	assert.False(t, ok)
	got, ok := h.get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "newton", got.Request.Method)

	h.clear()
	assert.Zero(t, h.len())
}

func TestSolveCanceled(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve",
		strings.NewReader(`{"method":"fixed_point","expression":"x + 1","x0":1,"max_iterations":10000}`)).WithContext(ctx)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(rr.Body.Bytes()), &body))
	assert.Equal(t, "timeout", body.Error.Code)
	assert.Equal(t, "solve timed out", body.Error.Message)
}

func TestSolveExtremeMagnitudes(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	rr := ts.do(t, http.MethodPost, "/api/v1/solve", `{"method":"bisection","expression":"x","a":-1.7e308,"b":1.7e308}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, rr.Body.Bytes())

	var got solveBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.Result.Converged)
	assert.Equal(t, 0.0, got.Result.Root)
	assert.Equal(t, 1.7e308, got.Result.Error)

	rr = ts.do(t, http.MethodPost, "/api/v1/solve", `{"method":"fixed_point","expression":"-x","x0":1e308}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "evaluation_error", body.Error.Code)
	assert.Equal(t, 1, body.Error.Iteration)
	assert.Contains(t, body.Error.Message, "error bound")
	assert.Equal(t, 1, ts.srv.history.len())
}

func TestRespondJSONUnencodable(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil)
	rr := httptest.NewRecorder()
	ts.srv.respondJSON(rr, req, http.StatusOK, map[string]float64{"root": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Error.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Error.Message)
}

func TestErrorContext(t *testing.T) {
	ts := newTestServer(t, testConfig(t))

	tests := []struct {
		name      string
		err       func() error
		operation string
	}{
		{"malformed id", func() error { _, err := ts.srv.lookup("not-a-uuid"); return err }, "lookup solve"},
		{"unknown id", func() error { _, err := ts.srv.lookup(uuid.NewString()); return err }, "lookup solve"},
		{"bad body", func() error {
			var req SolveRequest
			r := httptest.NewRequest(http.MethodPost, "/api/v1/solve", strings.NewReader("{"))
			return ts.srv.decode(httptest.NewRecorder(), r, &req)
		}, "decode request"},
		{"trailing data", func() error {
			var req SolveRequest
			r := httptest.NewRequest(http.MethodPost, "/api/v1/solve", strings.NewReader(`{"method":"newton"} {}`))
			return ts.srv.decode(httptest.NewRecorder(), r, &req)
		}, "decode request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *apperrors.Error
			require.True(t, errors.As(tt.err(), &e))
			assert.Equal(t, tt.operation, e.Operation)
			assert.Equal(t, "server", e.Component)
			assert.NotContains(t, e.Payload().Message, "operation=")
		})
	}
}
