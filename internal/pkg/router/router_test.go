package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/database/dbtest"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/session"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

type testApp struct {
	t     *testing.T
	app   *fiber.App
	repos *repository.Factory
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repos := repository.NewFactory(dbtest.Open(t))
	app := fiber.New()
	InstallRouter(app, Dependencies{
		Repos:    repos,
		Engine:   workflow.NewEngine(repos),
		Accounts: account.NewService(repos),
		Sessions: session.NewMemoryStore(),
	})
	return &testApp{t: t, app: app, repos: repos}
}

// call sends a JSON request and decodes the JSON response into a map.
func (ta *testApp) call(method, path, cookie string, body any) (int, map[string]any, *http.Response) {
	ta.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ta.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", "session_id="+cookie)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(ta.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(ta.t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out, resp
}

func (ta *testApp) register(username string, role models.Role) uint {
	ta.t.Helper()
	status, body, _ := ta.call(http.MethodPost, "/app/accounts/registration", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(ta.t, fiber.StatusCreated, status, body)
	return uint(body["id"].(float64))
}

func (ta *testApp) login(username string) string {
	ta.t.Helper()
	status, body, resp := ta.call(http.MethodPost, "/app/accounts/login", "", fiber.Map{
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(ta.t, fiber.StatusOK, status, body)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c.Value
		}
	}
	ta.t.Fatalf("login for %s returned no session cookie", username)
	return ""
}

func TestReviewFlow(t *testing.T) {
	ta := newTestApp(t)
	ta.register("owner", models.RoleOwner)
	inspID := ta.register("inspector", models.RoleInspector)
	ownerCookie := ta.login("owner")
	inspCookie := ta.login("inspector")

	status, body, _ := ta.call(http.MethodGet, "/app/inspectors", ownerCookie, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["inspectors"], 1)

	status, body, _ = ta.call(http.MethodPost, "/app/userHome/add", ownerCookie, fiber.Map{
		"name":          "Q3 figures",
		"description":   "draft",
		"inspector_ids": []uint{inspID},
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	reportID := uint(body["id"].(float64))
	assert.Equal(t, "Pending", body["status"])

	status, body, _ = ta.call(http.MethodGet, "/app/inspHome?name=q3", inspCookie, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["reports"], 1)

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/decline/%d", reportID), inspCookie, fiber.Map{"reason": " "})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation_failed", body["error"])

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/decline/%d", reportID), inspCookie, fiber.Map{"reason": "numbers missing"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Declined", body["status"])

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/accept/%d", reportID), inspCookie, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "conflict", body["error"])

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/userHome/update/%d", reportID), ownerCookie, fiber.Map{"name": "late edit"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body, _ = ta.call(http.MethodGet, fmt.Sprintf("/app/userHome/archive/%d", reportID), ownerCookie, nil)
	require.Equal(t, fiber.StatusOK, status)
	last := body["last"].(map[string]any)
	assert.Equal(t, "Declined", last["status"])
	assert.Equal(t, "numbers missing", last["decline_reason"])
	assert.Len(t, body["history"], 1)

	status, body, _ = ta.call(http.MethodGet, fmt.Sprintf("/app/inspHome/archive/%d", reportID), inspCookie, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Declined", body["last"].(map[string]any)["status"])

	status, _, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/userHome/delete/%d", reportID), ownerCookie, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body, _ = ta.call(http.MethodGet, fmt.Sprintf("/app/userHome/archive/%d", reportID), ownerCookie, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])
}

func TestRoleGates(t *testing.T) {
	ta := newTestApp(t)
	ta.register("owner", models.RoleOwner)
	inspID := ta.register("inspector", models.RoleInspector)
	other := ta.register("other", models.RoleInspector)
	ownerCookie := ta.login("owner")
	inspCookie := ta.login("inspector")
	otherCookie := ta.login("other")

	status, _, _ := ta.call(http.MethodGet, "/app/userHome", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = ta.call(http.MethodGet, "/app/userHome", inspCookie, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = ta.call(http.MethodGet, "/app/inspHome", ownerCookie, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = ta.call(http.MethodGet, "/app/admin/users", ownerCookie, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	_, body, _ := ta.call(http.MethodPost, "/app/userHome/add", ownerCookie, fiber.Map{
		"name":          "assigned",
		"inspector_ids": []uint{inspID},
	})
	reportID := uint(body["id"].(float64))

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/accept/%d", reportID), otherCookie, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["error"])

	status, _, _ = ta.call(http.MethodPost, "/app/inspHome/accept/abc", inspCookie, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _, _ = ta.call(http.MethodPost, "/app/inspHome/accept/9999", inspCookie, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/userHome/change/%d", reportID), ownerCookie, fiber.Map{
		"inspector_ids": []uint{other},
	})
	require.Equal(t, fiber.StatusOK, status, body)

	status, _, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/accept/%d", reportID), inspCookie, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/inspHome/accept/%d", reportID), otherCookie, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginFailuresAndLogout(t *testing.T) {
	ta := newTestApp(t)
	ta.register("owner", models.RoleOwner)

	status, body, _ := ta.call(http.MethodPost, "/app/accounts/login", "", fiber.Map{
		"email":    "owner@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", body["error"])

	status, _, _ = ta.call(http.MethodPost, "/app/accounts/registration", "", fiber.Map{
		"username": "owner",
		"email":    "owner2@example.com",
		"password": "secret123",
		"role":     models.RoleOwner,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	cookie := ta.login("owner")
	status, _, _ = ta.call(http.MethodGet, "/app/userHome", cookie, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _, _ = ta.call(http.MethodPost, "/app/accounts/logout", cookie, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _, _ = ta.call(http.MethodGet, "/app/userHome", cookie, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminDeletesUser(t *testing.T) {
	ta := newTestApp(t)
	admin, err := models.CreateUser("admin", "admin@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, ta.repos.GetUserRepository().Create(admin))

	victim := ta.register("victim", models.RoleOwner)
	victimCookie := ta.login("victim")
	adminCookie := ta.login("admin")

	status, body, _ := ta.call(http.MethodGet, "/app/admin/users", adminCookie, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["users"], 2)

	status, _, _ = ta.call(http.MethodPost, fmt.Sprintf("/app/admin/users/%d/delete", victim), adminCookie, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	// the existing session of a deleted user no longer authenticates
	status, _, _ = ta.call(http.MethodGet, "/app/userHome", victimCookie, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = ta.call(http.MethodPost, "/app/accounts/login", "", fiber.Map{
		"email":    "victim@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPing(t *testing.T) {
	ta := newTestApp(t)
	status, body, _ := ta.call(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pong", body["ping"])
}
