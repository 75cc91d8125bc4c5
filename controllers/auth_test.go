package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payhub-backend/models"

	"github.com/gin-gonic/gin"
)

func authContext(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupInvoiceTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	w, c := authContext(t, `{"email":"new@test.dev","name":"New User","password":"longenough"}`)
	Register(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var registered map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if registered["token"] == nil {
		t.Fatal("expected a token in register response")
	}

	var user models.User
	if err := db.First(&user, "email = ?", "new@test.dev").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Password == "longenough" {
		t.Fatal("password must be hashed")
	}

	// Duplicate email is rejected.
	w, c = authContext(t, `{"email":"new@test.dev","name":"Dup","password":"longenough"}`)
	Register(c)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409 got %d", w.Code)
	}

	// Wrong password.
	w, c = authContext(t, `{"email":"new@test.dev","password":"wrongpassword"}`)
	Login(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401 got %d", w.Code)
	}

	// Correct password.
	w, c = authContext(t, `{"email":"new@test.dev","password":"longenough"}`)
	Login(c)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var loggedIn map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loggedIn["token"] == nil {
		t.Fatal("expected a token in login response")
	}
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	setupInvoiceTestDB(t)

	w, c := authContext(t, `{"email":"phone@test.dev","name":"P","password":"longenough","phone":"not-a-phone"}`)
	Register(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid phone, got %d", w.Code)
	}
}
