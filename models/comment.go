package models

import (
	"fmt"
	"time"
)

type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"not null;index"`
	Post       Post      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved" gorm:"not null;default:true;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Comment) String() string {
	return fmt.Sprintf("Comment by %s on %s", c.Author.Username, c.Post.Title)
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentIDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type CommentResponse struct {
	ID             uint      `json:"id"`
	PostID         uint      `json:"post_id"`
	Content        string    `json:"content"`
	AuthorName     string    `json:"author_name"`
	AuthorUsername string    `json:"author_username"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:             c.ID,
		PostID:         c.PostID,
		Content:        c.Content,
		AuthorName:     c.Author.FullName(),
		AuthorUsername: c.Author.Username,
		IsApproved:     c.IsApproved,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewCommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
