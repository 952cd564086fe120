package clips

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api/types"
)

// AddCommentRequest is the body of POST /clips/{id}/comments
type AddCommentRequest struct {
	Text string `json:"text" example:"Love the groove"`
}

// AddComment appends a comment by the signed-in user
// @Summary Comment on a clip
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Clip ID"
// @Param request body AddCommentRequest true "Comment"
// @Success 201 {object} types.CommentResponse
// @Failure 400 {object} types.ErrorResponse "Blank text"
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/clips/{id}/comments [post]
func AddComment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddCommentRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		comment, err := deps.Board.AddComment(c.Request.Context(), c.Param("id"), req.Text)
		warning, err := types.SplitWarning(err)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.CommentResponse{Comment: comment, Warning: warning})
	}
}

// DeleteComment removes the signed-in user's own comment
// @Summary Delete comment
// @Description Irreversible. Without confirm=true the request is answered 428 with the prompt to show.
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Clip ID"
// @Param commentId path string true "Comment ID"
// @Param confirm query bool false "Confirm the deletion"
// @Success 200 {object} types.MessageResponse
// @Failure 403 {object} types.ErrorResponse "Not the author"
// @Failure 428 {object} types.ErrorResponse "Confirmation required"
// @Router /api/v1/clips/{id}/comments/{commentId} [delete]
func DeleteComment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmer := types.NewQueryConfirmer(c)
		err := deps.Board.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), confirmer)
		warning, err := types.SplitWarning(confirmer.Resolve(err))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.MessageResponse{
			Status:  types.StatusOK,
			Message: "Comment deleted",
			Warning: warning,
		})
	}
}
