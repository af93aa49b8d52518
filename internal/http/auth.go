package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialhub/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("name, email and password are required"))
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, h.opts.TokenTTL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	h.logger.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    h.accountToResponse(c.Request.Context(), user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Debug("login body rejected")
		h.writeError(c, service.ErrInvalidCredentials)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("login rejected")
		}
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, h.opts.TokenTTL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// logout only drops the cookie; the token stays valid until it expires.
func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), identity(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.accountToResponse(c.Request.Context(), user))
}

func (h *Handler) updateCurrentUser(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("invalid request body"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), identity(c).ID, service.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    h.accountToResponse(c.Request.Context(), user),
	})
}

func (h *Handler) deleteCurrentUser(c *gin.Context) {
	ctx := c.Request.Context()
	id := identity(c).ID

	user, err := h.users.GetByID(ctx, id)
	if err == nil {
		err = h.users.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	if h.storage != nil {
		if err := h.storage.DeleteObjects(ctx, user.ProfilePicture, user.ProfileBanner); err != nil {
			h.logger.WithError(err).WithField("user_id", id).Warn("delete profile images")
		}
	}

	h.clearSessionCookie(c)
	h.logger.WithField("user_id", id).Info("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
