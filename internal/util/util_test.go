package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnpulse_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{LearnerID: "s1", Name: "小明", Role: model.Student}

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestCanAccessLearner(t *testing.T) {
	student := &Claims{UserID: "s1", Role: model.Student}
	teacher := &Claims{UserID: "t1", Role: model.Teacher}

	assert.True(t, student.CanAccessLearner("s1"))
	assert.False(t, student.CanAccessLearner("s2"))
	assert.True(t, teacher.CanAccessLearner("s2"))

	var none *Claims
	assert.False(t, none.CanAccessLearner("s1"))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, ParseLimit("", 10, 100))
	assert.Equal(t, 10, ParseLimit("abc", 10, 100))
	assert.Equal(t, 10, ParseLimit("-3", 10, 100))
	assert.Equal(t, 25, ParseLimit("25", 10, 100))
	assert.Equal(t, 100, ParseLimit("500", 10, 100))
}

func TestResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequest(c, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":400,"message":"bad input"}`, w.Body.String())
}
