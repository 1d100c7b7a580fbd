package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

func TestSchedules_PublicListAdminWrites(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.login(t, "sensei", models.RoleAdmin)
	_, member := env.login(t, "kohai", models.RoleUser)

	payload := map[string]any{
		"type":       "group",
		"title":      "Kids judo",
		"time_start": "17:00",
		"time_end":   "18:30",
		"days":       "Mon, Wed",
		"age_group":  "6-10",
	}

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/schedules", payload, withCookie(member))
	requireError(t, rec, http.StatusForbidden, "forbidden")

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/schedules", payload)
	requireError(t, rec, http.StatusUnauthorized, "no_session")

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/schedules", payload, withCookie(admin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/schedules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["schedules"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Kids judo", list[0].(map[string]any)["title"])

	rec = env.doJSONRequest(http.MethodPatch, "/api/v1/schedules/"+id, map[string]any{
		"title":     "Kids judo (beginners)",
		"age_group": nil,
	}, withCookie(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sched := decode(t, rec)["schedule"].(map[string]any)
	assert.Equal(t, "Kids judo (beginners)", sched["title"])
	assert.Nil(t, sched["age_group"])
	assert.Equal(t, "17:00", sched["time_start"])

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/schedules/"+id, nil, withCookie(member))
	requireError(t, rec, http.StatusForbidden, "forbidden")

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/schedules/"+id, nil, withCookie(admin))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/schedules/"+id, nil, withCookie(admin))
	requireError(t, rec, http.StatusNotFound, "not_found")
}

func TestSchedules_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, admin := env.login(t, "sensei", models.RoleAdmin)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/schedules", map[string]any{
		"type":  "seminar",
		"title": "Open mat",
		"days":  "Sat",
	}, withCookie(admin))
	requireError(t, rec, http.StatusBadRequest, "validation_error")

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/schedules", map[string]any{
		"type":       "private",
		"title":      "Open mat",
		"days":       "Sat",
		"time_start": "25:00",
	}, withCookie(admin))
	requireError(t, rec, http.StatusBadRequest, "validation_error")
}
