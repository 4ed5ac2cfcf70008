package comparerouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/xuri/excelize/v2"

	"github.com/procurekit/go-compare/compare"
)

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func newCompareHandler() *Handler {
	return NewHandler(Config{
		Service: compare.NewService(compare.ServiceConfig{}),
	})
}

func TestHandle_CompareUpload(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{
		"old": "Item number,Delay (days)\n1,0\n",
		"new": "Item number,Delay (days)\n1,0\n2,4\n",
	})

	ctx := newTestHTTPContext(http.MethodPost, "/compare", body.Bytes(), map[string]string{
		"Content-Type": contentType,
	})
	if err := newCompareHandler().Handle(ctx); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if ctx.recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.recorder.Code, ctx.recorder.Body.String())
	}
	if got := ctx.recorder.Header().Get("Content-Type"); got != compare.ContentTypeXLSX {
		t.Fatalf("expected xlsx content type, got %q", got)
	}
	if got := ctx.recorder.Header().Get("Content-Disposition"); got != `attachment; filename="Inkoop_vergelijking.xlsx"` {
		t.Fatalf("unexpected content disposition %q", got)
	}
	if got := ctx.recorder.Header().Get("X-Added-Rows"); got != "1" {
		t.Fatalf("expected 1 added row reported, got %q", got)
	}

	file, err := excelize.OpenReader(bytes.NewReader(ctx.recorder.Body.Bytes()))
	if err != nil {
		t.Fatalf("open response workbook: %v", err)
	}
	defer file.Close()
	rows, err := file.GetRows(compare.SheetAdded)
	if err != nil {
		t.Fatalf("read added sheet: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "2" {
		t.Fatalf("unexpected added sheet content: %v", rows)
	}
}

func TestHandle_MissingUpload(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{
		"old": "Item number,Delay (days)\n1,0\n",
	})

	ctx := newTestHTTPContext(http.MethodPost, "/compare", body.Bytes(), map[string]string{
		"Content-Type": contentType,
	})
	if err := newCompareHandler().Handle(ctx); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if ctx.recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.recorder.Code)
	}
	payload := decodeError(t, ctx.recorder)
	if payload["code"] != "input" {
		t.Fatalf("expected input code, got %v", payload["code"])
	}
}

func TestHandle_SchemaErrorListsColumns(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{
		"old": "Artikel,Delay (days)\n1,0\n",
		"new": "Item number,Delay (days)\n1,0\n",
	})

	ctx := newTestHTTPContext(http.MethodPost, "/compare", body.Bytes(), map[string]string{
		"Content-Type": contentType,
	})
	if err := newCompareHandler().Handle(ctx); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if ctx.recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.recorder.Code)
	}
	payload := decodeError(t, ctx.recorder)
	if payload["code"] != "schema" {
		t.Fatalf("expected schema code, got %v", payload["code"])
	}
	if _, ok := payload["old_columns"]; !ok {
		t.Fatalf("expected old_columns in payload: %v", payload)
	}
	if _, ok := payload["new_columns"]; !ok {
		t.Fatalf("expected new_columns in payload: %v", payload)
	}
}

func TestHandle_RequiresHTTPTransport(t *testing.T) {
	ctx := newTestContext(http.MethodPost, "/compare", nil, nil)
	if err := newCompareHandler().Handle(ctx); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ctx.recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ctx.recorder.Code)
	}
}

func TestHandle_RequiresService(t *testing.T) {
	ctx := newTestHTTPContext(http.MethodPost, "/compare", nil, nil)
	if err := NewHandler(Config{}).Handle(ctx); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ctx.recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ctx.recorder.Code)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error == nil {
		t.Fatalf("expected error payload, got %s", rec.Body.String())
	}
	return payload.Error
}

type testContext struct {
	method        string
	path          string
	body          []byte
	query         map[string]string
	headers       map[string]string
	params        map[string]string
	locals        map[any]any
	ctx           context.Context
	recorder      *httptest.ResponseRecorder
	statusWritten bool
	status        int
	sendCalled    bool
}

func newTestContext(method, path string, body []byte, headers map[string]string) *testContext {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &testContext{
		method:   method,
		path:     path,
		body:     body,
		query:    make(map[string]string),
		headers:  headers,
		params:   make(map[string]string),
		locals:   make(map[any]any),
		ctx:      context.Background(),
		recorder: httptest.NewRecorder(),
	}
}

func (c *testContext) Bind(v any) error {
	if len(c.body) == 0 {
		return nil
	}
	return json.Unmarshal(c.body, v)
}

func (c *testContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *testContext) SetContext(ctx context.Context) {
	c.ctx = ctx
}

func (c *testContext) Next() error { return nil }

func (c *testContext) RouteName() string { return "" }

func (c *testContext) RouteParams() map[string]string { return c.params }

func (c *testContext) Method() string { return c.method }

func (c *testContext) Path() string { return c.path }

func (c *testContext) Param(name string, defaultValue ...string) string {
	if val, ok := c.params[name]; ok {
		return val
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *testContext) ParamsInt(key string, defaultValue int) int {
	val := c.Param(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (c *testContext) Query(name string, defaultValue ...string) string {
	if val, ok := c.query[name]; ok {
		return val
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *testContext) QueryValues(name string) []string {
	if val, ok := c.query[name]; ok {
		return []string{val}
	}
	return nil
}

func (c *testContext) QueryInt(name string, defaultValue int) int {
	val := c.Query(name)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (c *testContext) Queries() map[string]string { return c.query }

func (c *testContext) Body() []byte { return c.body }

func (c *testContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		c.locals[key] = value[0]
		return value[0]
	}
	return c.locals[key]
}

func (c *testContext) LocalsMerge(key any, value map[string]any) map[string]any {
	merged, _ := c.locals[key].(map[string]any)
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range value {
		merged[k] = v
	}
	c.locals[key] = merged
	return merged
}

func (c *testContext) Render(name string, bind any, layouts ...string) error {
	return nil
}

func (c *testContext) Cookie(cookie *router.Cookie) {}

func (c *testContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *testContext) CookieParser(out any) error { return nil }

func (c *testContext) Redirect(location string, status ...int) error {
	code := http.StatusFound
	if len(status) > 0 {
		code = status[0]
	}
	c.SetHeader("Location", location)
	c.writeHeader(code)
	return nil
}

func (c *testContext) RedirectToRoute(routeName string, params router.ViewContext, status ...int) error {
	return nil
}

func (c *testContext) RedirectBack(fallback string, status ...int) error {
	return nil
}

func (c *testContext) Header(name string) string {
	return c.headers[name]
}

func (c *testContext) Referer() string { return "" }

func (c *testContext) OriginalURL() string { return c.path }

func (c *testContext) FormFile(key string) (*multipart.FileHeader, error) {
	return nil, nil
}

func (c *testContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *testContext) IP() string { return "127.0.0.1" }

func (c *testContext) Status(code int) router.Context {
	c.writeHeader(code)
	return c
}

func (c *testContext) Send(body []byte) error {
	c.sendCalled = true
	if !c.statusWritten {
		c.writeHeader(http.StatusOK)
	}
	_, err := c.recorder.Write(body)
	return err
}

func (c *testContext) SendString(body string) error {
	return c.Send([]byte(body))
}

func (c *testContext) SendStatus(code int) error {
	c.writeHeader(code)
	return nil
}

func (c *testContext) JSON(code int, v any) error {
	c.recorder.Header().Set("Content-Type", "application/json")
	c.writeHeader(code)
	return json.NewEncoder(c.recorder).Encode(v)
}

func (c *testContext) SendStream(r io.Reader) error {
	if !c.statusWritten {
		c.writeHeader(http.StatusOK)
	}
	_, err := io.Copy(c.recorder, r)
	return err
}

func (c *testContext) NoContent(code int) error {
	c.writeHeader(code)
	return nil
}

func (c *testContext) SetHeader(key, val string) router.Context {
	c.recorder.Header().Set(key, val)
	return c
}

func (c *testContext) Set(key string, value any) {
	c.locals[key] = value
}

func (c *testContext) Get(key string, def any) any {
	if val, ok := c.locals[key]; ok {
		return val
	}
	return def
}

func (c *testContext) GetString(key string, def string) string {
	if val, ok := c.locals[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return def
}

func (c *testContext) GetInt(key string, def int) int {
	if val, ok := c.locals[key]; ok {
		if num, ok := val.(int); ok {
			return num
		}
	}
	return def
}

func (c *testContext) GetBool(key string, def bool) bool {
	if val, ok := c.locals[key]; ok {
		if flag, ok := val.(bool); ok {
			return flag
		}
	}
	return def
}

func (c *testContext) writeHeader(code int) {
	if c.statusWritten {
		c.status = code
		return
	}
	c.statusWritten = true
	c.status = code
	c.recorder.WriteHeader(code)
}

type testHTTPContext struct {
	*testContext
	req *http.Request
}

func newTestHTTPContext(method, path string, body []byte, headers map[string]string) *testHTTPContext {
	base := newTestContext(method, path, body, headers)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	base.ctx = req.Context()
	return &testHTTPContext{testContext: base, req: req}
}

func (c *testHTTPContext) Request() *http.Request { return c.req }

func (c *testHTTPContext) Response() http.ResponseWriter { return c.recorder }

var _ router.Context = (*testContext)(nil)
var _ router.Context = (*testHTTPContext)(nil)
var _ router.HTTPContext = (*testHTTPContext)(nil)
