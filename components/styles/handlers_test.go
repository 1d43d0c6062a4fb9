// components/styles/handlers_test.go
//
// Handler tests for the admin component.
//
// Context
// -------
// fakeOps is a scripted Ops implementation, so each test drives one chi
// route through httptest and asserts on status code and the JSON
// envelope.  The authorization and anti-forgery gates live outside the
// component and are tested with the middleware packages.
//
// Run: go test ./components/styles -v

package styles

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yanizio/cascade/internal/manager"
	"github.com/yanizio/cascade/internal/stylesheet"
)

type fakeOps struct {
	createErr error
	deleteErr error
	statusErr error

	lastActive   *bool
	lastPriority *int
	lastLocation string
	lastExtra    string
	lastTargets  string
	lastPostType string

	uploadCalled bool
}

func (f *fakeOps) Create(_ context.Context, name string) (*stylesheet.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &stylesheet.Record{ID: 1, FileName: name}, nil
}

func (f *fakeOps) Upload(_ context.Context, name string, _ []byte) (*stylesheet.Record, error) {
	f.uploadCalled = true
	return &stylesheet.Record{ID: 2, FileName: name}, nil
}

func (f *fakeOps) Delete(_ context.Context, _ string) error { return f.deleteErr }

func (f *fakeOps) SetActive(_ context.Context, _ string, active bool) error {
	f.lastActive = &active
	return nil
}

func (f *fakeOps) SetPriority(_ context.Context, _ string, p int) error {
	f.lastPriority = &p
	return nil
}

func (f *fakeOps) SetLocation(_ context.Context, _ uint64, loc, extra string) error {
	f.lastLocation, f.lastExtra = loc, extra
	return nil
}

func (f *fakeOps) SetTargets(_ context.Context, _ uint64, targets string) error {
	f.lastTargets = targets
	return nil
}

func (f *fakeOps) SetPostType(_ context.Context, _ uint64, postType string) error {
	f.lastPostType = postType
	return nil
}

func (f *fakeOps) ReadContent(_ context.Context, _ string) ([]byte, error) {
	return []byte("body{}"), nil
}

func (f *fakeOps) SaveContent(_ context.Context, _ string, _ []byte) error { return nil }

func (f *fakeOps) Status(_ context.Context, _ string) (bool, error) {
	if f.statusErr != nil {
		return false, f.statusErr
	}
	return true, nil
}

func (f *fakeOps) List(_ context.Context) ([]manager.Entry, error) {
	return []manager.Entry{{FileName: "site.css", Registered: true}}, nil
}

var _ Ops = (*fakeOps)(nil)

func postForm(t *testing.T, c *Component, path string, vals url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	c.Routes().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v\n%s", err, rr.Body.String())
	}
	return env
}

func TestCreate_Success(t *testing.T) {
	c := New(&fakeOps{}, nil)
	rr := postForm(t, c, "/", url.Values{"file": {"site.css"}})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if env := decode(t, rr); !env.Success {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	c := New(&fakeOps{createErr: &manager.Error{
		Kind: manager.KindConflict, Op: "create", Msg: "file already exists",
	}}, nil)
	rr := postForm(t, c, "/", url.Values{"file": {"site.css"}})

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if env := decode(t, rr); env.Success {
		t.Fatal("success = true on conflict")
	}
}

func TestActivate_ParsesBoolean(t *testing.T) {
	ops := &fakeOps{}
	c := New(ops, nil)

	rr := postForm(t, c, "/activate", url.Values{"file": {"a.css"}, "active": {"true"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ops.lastActive == nil || !*ops.lastActive {
		t.Fatal("SetActive not called with true")
	}

	rr = postForm(t, c, "/activate", url.Values{"file": {"a.css"}, "active": {"maybe"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestLocation_PassesExtraValue(t *testing.T) {
	ops := &fakeOps{}
	c := New(ops, nil)

	rr := postForm(t, c, "/location", url.Values{
		"id": {"3"}, "location": {"specific"}, "value": {"5,7,9"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ops.lastLocation != "specific" || ops.lastExtra != "5,7,9" {
		t.Fatalf("SetLocation got %q %q", ops.lastLocation, ops.lastExtra)
	}

	rr = postForm(t, c, "/location", url.Values{"id": {"x"}, "location": {"pages"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestStatus_NotFoundMapsTo404(t *testing.T) {
	c := New(&fakeOps{statusErr: &manager.Error{
		Kind: manager.KindNotFound, Op: "status", Msg: "file not found",
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/status?file=nope.css", nil)
	rr := httptest.NewRecorder()
	c.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestUpload_Multipart(t *testing.T) {
	c := New(&fakeOps{}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("css_file", "hero.css")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(".hero { color: red }")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	c.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rr.Code, rr.Body.String())
	}
	if env := decode(t, rr); !env.Success {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestUpload_OversizedIsRejectedWhole(t *testing.T) {
	ops := &fakeOps{}
	c := New(ops, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("css_file", "huge.css")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("a"), maxUploadBytes+1)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	c.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if ops.uploadCalled {
		t.Fatal("oversized upload must never reach storage")
	}
	if env := decode(t, rr); env.Success {
		t.Fatal("success = true on oversized upload")
	}
}

func TestTargetsAndPostType_Routes(t *testing.T) {
	ops := &fakeOps{}
	c := New(ops, nil)

	rr := postForm(t, c, "/targets", url.Values{"id": {"3"}, "value": {"5,7,9"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("targets status = %d", rr.Code)
	}
	if ops.lastTargets != "5,7,9" {
		t.Fatalf("SetTargets got %q", ops.lastTargets)
	}

	rr = postForm(t, c, "/post-type", url.Values{"id": {"3"}, "value": {"event"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("post-type status = %d", rr.Code)
	}
	if ops.lastPostType != "event" {
		t.Fatalf("SetPostType got %q", ops.lastPostType)
	}

	rr = postForm(t, c, "/targets", url.Values{"id": {"x"}, "value": {"5"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rr.Code)
	}
}

func TestList_IncludesToken(t *testing.T) {
	c := New(&fakeOps{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Files []manager.Entry `json:"files"`
			Token string          `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Files) != 1 || env.Data.Token == "" {
		t.Fatalf("payload = %+v", env.Data)
	}
}
