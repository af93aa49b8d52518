package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, badRequest("invalid user id"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profileToResponse(c.Request.Context(), user))
}

// findUser matches the path segment exactly against name, then email.
func (h *Handler) findUser(c *gin.Context) {
	user, err := h.users.Find(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profileToResponse(c.Request.Context(), user))
}

func (h *Handler) lookupUsers(c *gin.Context) {
	raw := c.Query("ids")
	if strings.TrimSpace(raw) == "" {
		h.writeError(c, badRequest("ids parameter is required"))
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}

	users, err := h.users.Lookup(c.Request.Context(), ids)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		resp[i] = UserSummaryResponse{
			ID:             u.ID,
			Name:           u.Name,
			ProfilePicture: h.objectURL(c.Request.Context(), u.ProfilePicture),
		}
	}
	c.JSON(http.StatusOK, resp)
}
