package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/auth"
)

// SignUpRequest is the body of POST /auth/signup
type SignUpRequest struct {
	Name     string `json:"name" example:"Sam Lee"`
	Email    string `json:"email" example:"sam@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// LogInRequest is the body of POST /auth/login
type LogInRequest struct {
	Email    string `json:"email" example:"sam@example.com"`
	Password string `json:"password" example:"hunter2"`
}

// SignUp creates an account and signs it in
// @Summary Create an account
// @Description Creates a user with a default avatar and starts a session. The returned token is bound to that session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Account details"
// @Success 201 {object} types.AuthResponse
// @Failure 400 {object} types.ErrorResponse "Missing field"
// @Failure 409 {object} types.ErrorResponse "Email already exists"
// @Router /api/v1/auth/signup [post]
func SignUp(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignUpRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		user, err := deps.Board.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		respondWithToken(c, deps, http.StatusCreated, user, warning)
	}
}

// LogIn signs in with email and password
// @Summary Sign in
// @Description Email and password must match exactly. Any recording in progress is discarded.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogInRequest true "Credentials"
// @Success 200 {object} types.AuthResponse
// @Failure 401 {object} types.ErrorResponse "Invalid credentials"
// @Router /api/v1/auth/login [post]
func LogIn(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogInRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		user, err := deps.Board.LogIn(c.Request.Context(), req.Email, req.Password)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		respondWithToken(c, deps, http.StatusOK, user, warning)
	}
}

// LogOut ends the current session
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.MessageResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/auth/logout [post]
func LogOut(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		warning, err := types.SplitWarning(deps.Board.LogOut(c.Request.Context()))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.MessageResponse{
			Status:  types.StatusOK,
			Message: "Signed out",
			Warning: warning,
		})
	}
}

// Me returns the signed-in user
// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} types.UserResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/me [get]
func Me(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := deps.Board.CurrentUser()
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.UserResponse{User: user})
	}
}

// UpdateMe edits the signed-in user's profile
// @Summary Update profile
// @Description Changes name and avatar. The owner shown on the user's clips follows; existing comments keep the old name.
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UserPatch true "Fields to change"
// @Success 200 {object} types.UserResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/me [put]
func UpdateMe(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.UserPatch
		if !types.BindJSONOrError(c, &patch) {
			return
		}

		user, err := deps.Board.UpdateProfile(c.Request.Context(), c.GetString(types.ContextUserID), patch)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.UserResponse{User: user, Warning: warning})
	}
}

// RequireSession accepts only tokens issued for the instance's current session
func RequireSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			types.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		claims, err := deps.Tokens.ValidateToken(raw)
		if err != nil {
			types.SendUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		sess := deps.Board.Session()
		user, ok := sess.Current()
		if !ok || user.ID != claims.Subject || sess.SessionID() != claims.SessionID {
			types.SendUnauthorized(c, "Session is no longer active")
			c.Abort()
			return
		}

		c.Set(types.ContextClaims, claims)
		c.Set(types.ContextUserID, claims.Subject)
		c.Next()
	}
}

func respondWithToken(c *gin.Context, deps *types.Dependencies, status int, user models.User, warning string) {
	token, err := deps.Tokens.Issue(user.ID, deps.Board.Session().SessionID())
	if err != nil {
		types.SendError(c, err)
		return
	}
	c.JSON(status, types.AuthResponse{Token: token, User: user, Warning: warning})
}
