package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sthmu/Student-Manager/config"
	"github.com/sthmu/Student-Manager/middlewares"
	"github.com/sthmu/Student-Manager/models"
	"github.com/sthmu/Student-Manager/repository"
)

const tokenTTL = 24 * time.Hour

// UserStore is what the auth handlers need from the users table.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	UsernameExists(username string) (bool, error)
	Create(u *models.User) error
}

var (
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
)

type AuthHandler struct {
	Users     UserStore
	JWTSecret string
	AdminCode string
}

func NewAuthHandler(users UserStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: cfg.JWTSecret, AdminCode: cfg.AdminCode}
}

func (h *AuthHandler) signToken(u *models.User) (string, error) {
	now := time.Now()
	claims := middlewares.Claims{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Email and password are required"})
	}

	u, err := h.Users.FindByEmail(email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during login", "error": err.Error()})
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
	}

	token, err := h.signToken(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during login", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    u.Public(),
	})
}

// POST /api/auth/register
//
// Registration is gated on a shared administrative code; this is an
// internal tool, not open signup.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Username is required"})
	}
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Email is required"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Password is required"})
	}
	if h.AdminCode == "" || req.AdminCode != h.AdminCode {
		return c.JSON(http.StatusForbidden, map[string]any{"message": "Invalid admin registration code"})
	}
	if !emailRe.MatchString(email) {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid email format"})
	}
	if !usernameRe.MatchString(username) {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Username must be 3-50 characters (letters, numbers, underscore)"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Password must be at least 6 characters"})
	}

	if taken, err := h.Users.UsernameExists(username); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during registration", "error": err.Error()})
	} else if taken {
		return c.JSON(http.StatusConflict, map[string]any{"message": "Username already taken"})
	}
	if taken, err := h.Users.EmailExists(email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during registration", "error": err.Error()})
	} else if taken {
		return c.JSON(http.StatusConflict, map[string]any{"message": "Email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during registration", "error": err.Error()})
	}

	u := models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := h.Users.Create(&u); err != nil {
		// The unique index is authoritative; a concurrent register that
		// slipped past the pre-checks surfaces here.
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, map[string]any{"message": "Username already taken"})
		case errors.Is(err, repository.ErrEmailTaken):
			return c.JSON(http.StatusConflict, map[string]any{"message": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during registration", "error": err.Error()})
	}

	token, err := h.signToken(&u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error during registration", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    u.Public(),
	})
}

// POST /api/auth/logout
//
// Tokens are stateless; logout is a no-op on the server and the client
// discards its stored credential.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"message": "Logout successful"})
}
