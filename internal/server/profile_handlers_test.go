package server

import (
	"net/http"
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	author := env.user("author")
	reader := env.user("reader")
	travel := env.category("travel", true)
	hidden := env.category("hidden", false)

	public := env.post(author, travel, testStart.Add(-time.Hour), true)
	draft := env.post(author, travel, testStart.Add(-2*time.Hour), false)
	scheduled := env.post(author, travel, testStart.Add(time.Hour), true)
	inHidden := env.post(author, hidden, testStart.Add(-3*time.Hour), true)
	env.post(reader, travel, testStart.Add(-time.Hour), true)

	t.Run("owner sees every post", func(t *testing.T) {
		resp, body := env.do(http.MethodGet, "/profile/author/", author, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []uint{scheduled.ID, public.ID, draft.ID, inHidden.ID}, feedIDs(t, body))
		assert.Equal(t, "author", body["profile"].(map[string]any)["username"])
	})

	t.Run("others see the public subset", func(t *testing.T) {
		_, body := env.do(http.MethodGet, "/profile/author/", reader, nil)
		assert.Equal(t, []uint{public.ID}, feedIDs(t, body))

		_, body = env.do(http.MethodGet, "/profile/author/", nil, nil)
		assert.Equal(t, []uint{public.ID}, feedIDs(t, body))
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, _ := env.do(http.MethodGet, "/profile/nobody/", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestEditProfile(t *testing.T) {
	env := newTestEnv(t)
	me := env.user("me")
	env.user("taken")

	t.Run("anonymous", func(t *testing.T) {
		resp, _ := env.do(http.MethodGet, "/profile/edit_profile", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("form is prefilled", func(t *testing.T) {
		resp, body := env.do(http.MethodGet, "/profile/edit_profile", me, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "me@example.com", body["form"].(map[string]any)["email"])
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp, body := env.do(http.MethodPost, "/profile/edit_profile", me, map[string]any{
			"username": "taken",
			"email":    "me@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["fields"], "username")
	})

	t.Run("rename redirects to the new profile", func(t *testing.T) {
		resp, _ := env.do(http.MethodPost, "/profile/edit_profile", me, map[string]any{
			"username":   "renamed",
			"email":      "renamed@example.com",
			"first_name": "Ada",
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/profile/renamed/", resp.Header.Get("Location"))

		var stored models.User
		require.NoError(t, env.db.First(&stored, me.ID).Error)
		assert.Equal(t, "renamed", stored.Username)
		assert.Equal(t, "Ada", stored.FirstName)

		resp, _ = env.do(http.MethodGet, "/profile/me/", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
