package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresOnlyUserID(t *testing.T) {
	store := NewMemoryStore()
	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		return Login(store, c, 42)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		return c.SendString(strconv.Itoa(int(UserID(store, c))) + " " + strings.Join(sess.Keys(), ","))
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		return Logout(store, c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	whoami := func() string {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Cookie", "session_id="+cookie)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		buf := new(strings.Builder)
		_, err = io.Copy(buf, resp.Body)
		require.NoError(t, err)
		return buf.String()
	}
	assert.Equal(t, "42 "+KeyUserID, whoami())

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Cookie", "session_id="+cookie)
	_, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "0 ", whoami())
}
