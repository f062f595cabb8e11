package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/friends"
	"github.com/snap-point/social-api/utils"
)

type FriendController struct {
	Friends *friends.Service
}

func NewFriendController(svc *friends.Service) *FriendController {
	useJSONFieldNames()
	return &FriendController{Friends: svc}
}

// caller returns the authenticated user id, answering 401 when there is none.
func caller(c *gin.Context) (uint, bool) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return 0, false
	}
	return user.UserID, true
}

func userIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid user id", map[string]string{"userId": "must be a positive integer"})
	}
	return uint(id), nil
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	list, err := fc.Friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    list,
		Meta:    ListMeta{Count: len(list)},
	})
}

func (fc *FriendController) GetSuggestions(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	suggestions, err := fc.Friends.Suggestions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    suggestions,
		Meta:    ListMeta{Count: len(suggestions)},
	})
}

func (fc *FriendController) GetPendingRequests(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	requests, err := fc.Friends.ListPendingIncoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    requests,
		Meta:    ListMeta{Count: len(requests)},
	})
}

func (fc *FriendController) GetSentRequests(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	requests, err := fc.Friends.ListPendingOutgoing(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    requests,
		Meta:    ListMeta{Count: len(requests)},
	})
}

func (fc *FriendController) SearchUsers(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	results, err := fc.Friends.Search(c.Request.Context(), userID, c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    results,
		Meta:    ListMeta{Count: len(results)},
	})
}

func (fc *FriendController) GetStatus(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	otherID, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rel, err := fc.Friends.RelationshipWith(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rel})
}

func (fc *FriendController) GetMutualFriends(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	otherID, err := userIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := fc.Friends.MutualList(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"count": len(users), "users": users},
	})
}

func (fc *FriendController) SendRequest(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req FriendTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	pending, err := fc.Friends.SendRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    pending,
		Message: "Friend request sent",
	})
}

func (fc *FriendController) AcceptRequest(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req FriendTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	accepted, err := fc.Friends.AcceptRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    accepted,
		Message: "Friend request accepted",
	})
}

// RemoveFriend unfriends, rejects or cancels, depending on the edge.
func (fc *FriendController) RemoveFriend(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req FriendTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	if err := fc.Friends.RemoveFriend(c.Request.Context(), userID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Friendship removed",
	})
}
