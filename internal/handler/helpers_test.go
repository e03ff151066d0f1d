// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/shopadmin/internal/cache"
	"github.com/olegiv/shopadmin/internal/imaging"
	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/render"
	"github.com/olegiv/shopadmin/internal/service"
	"github.com/olegiv/shopadmin/internal/store"
	"github.com/olegiv/shopadmin/web"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "correct-horse-battery"
)

var testAuthKey = []byte("0123456789abcdef0123456789abcdef")

// testApp is a running router backed by a migrated temp-file database.
type testApp struct {
	t          *testing.T
	db         *sql.DB
	queries    *store.Queries
	sm         *scs.SessionManager
	menus      *service.MenuService
	server     *httptest.Server
	client     *http.Client
	uploadsDir string
	storeID    int64
}

// testDB opens a migrated SQLite database in a temp dir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler-test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithProtection(t, middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()))
}

func newTestAppWithProtection(t *testing.T, lp *middleware.LoginProtection) *testApp {
	t.Helper()

	db := testDB(t)

	sm := scs.New()
	sm.Store = memstore.New()

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	uploadsDir := t.TempDir()
	trees := cache.NewTreeCache(cache.NewMemoryCache(cache.MemoryCacheOptions{}))
	menus := service.NewMenuService(db, imaging.NewProcessor(uploadsDir), trees)

	static, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		t.Fatalf("static: %v", err)
	}

	router := NewRouter(RouterConfig{
		DB:              db,
		Sessions:        sm,
		Renderer:        renderer,
		Menus:           menus,
		LoginProtection: lp,
		CSRF:            middleware.DefaultCSRFConfig(testAuthKey, false, ""),
		Security:        middleware.DefaultSecurityHeadersConfig(true),
		Static:          static,
		UploadsDir:      uploadsDir,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	queries := store.New(db)
	def, err := queries.GetDefaultStorefront(context.Background())
	if err != nil {
		t.Fatalf("default storefront: %v", err)
	}

	return &testApp{
		t:          t,
		db:         db,
		queries:    queries,
		sm:         sm,
		menus:      menus,
		server:     srv,
		client:     client,
		uploadsDir: uploadsDir,
		storeID:    def.ID,
	}
}

// login creates the admin account and signs in with the shared cookie jar.
func (a *testApp) login() {
	a.t.Helper()
	if _, err := store.CreateAdmin(context.Background(), a.queries, testEmail, testPassword, "Admin"); err != nil {
		a.t.Fatalf("CreateAdmin: %v", err)
	}
	resp := a.postForm("/login", url.Values{"email": {testEmail}, "password": {testPassword}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != redirectAdmin {
		a.t.Fatalf("login: status=%d location=%q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func (a *testApp) get(path string) *http.Response {
	a.t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		a.t.Fatalf("GET %s: %v", path, err)
	}
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *testApp) do(req *http.Request) *http.Response {
	a.t.Helper()
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *testApp) postForm(path string, values url.Values) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(values.Encode()))
	if err != nil {
		a.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) postJSON(path, body string) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(body))
	if err != nil {
		a.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(HeaderContentType, "application/json")
	return a.do(req)
}

// postMultipart sends fields plus files keyed by form field name.
func (a *testApp) postMultipart(path string, fields map[string]string, files map[string][]byte) *http.Response {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			a.t.Fatalf("WriteField: %v", err)
		}
	}
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		if err != nil {
			a.t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			a.t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		a.t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &buf)
	if err != nil {
		a.t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(HeaderContentType, mw.FormDataContentType())
	return a.do(req)
}

// flash follows up with a page load and returns its body, which carries
// the pending flash message.
func (a *testApp) flash(path string) string {
	a.t.Helper()
	return readBody(a.t, a.get(path))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// createMenu inserts a menu directly through the service.
func (a *testApp) createMenu(name string) store.Menu {
	a.t.Helper()
	m, err := a.menus.CreateMenu(context.Background(), a.storeID, name)
	if err != nil {
		a.t.Fatalf("CreateMenu: %v", err)
	}
	return m
}

func (a *testApp) addItem(menuID, parentID int64, label string) store.MenuItem {
	a.t.Helper()
	item, err := a.menus.AddItem(context.Background(), a.storeID, menuID, service.ItemInput{
		Label:    label,
		URL:      "/" + strings.ToLower(label),
		ParentID: parentID,
	})
	if err != nil {
		a.t.Fatalf("AddItem: %v", err)
	}
	return item
}

func (a *testApp) items(menuID int64) []store.MenuItem {
	a.t.Helper()
	items, err := a.queries.ListMenuItems(context.Background(), menuID)
	if err != nil {
		a.t.Fatalf("ListMenuItems: %v", err)
	}
	return items
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
