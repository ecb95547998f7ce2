package handler

import (
	"fmt"
	"net/http"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"
	"auction-console/services/console/helpers"
	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// LandingHandler handles GET /
func (h *ConsoleHandler) LandingHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusOK, "landing.html", gin.H{"Title": "Welcome"})
}

// LoginPageHandler handles GET /login
func (h *ConsoleHandler) LoginPageHandler(c *gin.Context) {
	if st := sessionState(c); st != nil && st.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	data := gin.H{"Title": "Log in"}
	if c.Query("registered") != "" {
		data["Notice"] = "Registration successful! Please log in."
	}
	utils.HTMLPage(c, http.StatusOK, "login.html", data)
}

// LoginHandler handles POST /login
func (h *ConsoleHandler) LoginHandler(c *gin.Context) {
	var form helpers.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		helpers.LogBindError("LoginHandler", err)
		utils.HTMLPage(c, http.StatusBadRequest, "login.html", gin.H{"Title": "Log in", "Email": form.Email, "Error": helpers.BindErrorMessage})
		return
	}

	resp, err := h.backend.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("LoginHandler: login rejected", map[string]any{"email": form.Email, "error": err.Error()})
		utils.HTMLPage(c, status, "login.html", gin.H{"Title": "Log in", "Email": form.Email, "Error": message})
		return
	}

	st := sessionState(c)
	if st == nil {
		utils.HTMLPage(c, http.StatusInternalServerError, "error.html", gin.H{"Error": auctionerrors.GenericDetail})
		return
	}
	cred := models.Credential{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		Username:    resp.Username,
		IssuedAt:    h.now().UTC(),
	}
	if err := st.Authenticate(c.Request.Context(), cred); err != nil {
		utils.Error("LoginHandler: failed to persist credential", map[string]any{"error": err.Error()})
		utils.HTMLPage(c, http.StatusInternalServerError, "login.html", gin.H{"Title": "Log in", "Email": form.Email, "Error": auctionerrors.GenericDetail})
		return
	}

	c.Redirect(http.StatusSeeOther, "/home")
	helpers.LogSuccess("LoginHandler", "user logged in", map[string]any{"username": resp.Username, "session_id": st.SessionID()})
}

// RegisterPageHandler handles GET /register
func (h *ConsoleHandler) RegisterPageHandler(c *gin.Context) {
	utils.HTMLPage(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": helpers.RegisterForm{}})
}

// RegisterHandler handles POST /register
func (h *ConsoleHandler) RegisterHandler(c *gin.Context) {
	var form helpers.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		helpers.LogBindError("RegisterHandler", err)
		utils.HTMLPage(c, http.StatusBadRequest, "register.html", gin.H{"Title": "Register", "Form": form, "Error": helpers.BindErrorMessage})
		return
	}

	reg := models.Registration{Username: form.Username, Email: form.Email, Password: form.Password}
	if err := h.backend.Register(c.Request.Context(), reg); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.Warn("RegisterHandler: registration rejected", map[string]any{"username": form.Username, "error": err.Error()})
		form.Password = ""
		utils.HTMLPage(c, status, "register.html", gin.H{"Title": "Register", "Form": form, "Error": message})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?registered=1")
	helpers.LogSuccess("RegisterHandler", "user registered", map[string]any{"username": form.Username})
}

// LogoutHandler handles POST /logout
func (h *ConsoleHandler) LogoutHandler(c *gin.Context) {
	if st := sessionState(c); st != nil {
		if err := st.Logout(c.Request.Context()); err != nil {
			utils.Error("LogoutHandler: failed to clear credential", map[string]any{"error": fmt.Sprint(err)})
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}
